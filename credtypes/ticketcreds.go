package credtypes

import "strings"

// TicketCreds is an ordered sequence of TicketCred. Every filter below
// returns a new slice and never mutates the receiver, so filter chains are
// safe to compose freely: creds.ByPrealm(r).BySname("krbtgt", r) is two
// independent eager copies, not a shared cursor.
type TicketCreds []TicketCred

func (c TicketCreds) ByEtype(etypeID int32) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		return t.CredInfo.Key.KeyType == etypeID
	})
}

func (c TicketCreds) ByPname(name string) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		return principalNameEquals(t.CredInfo.PName.NameString, name)
	})
}

// ByPrealm filters by client realm, case-insensitively.
func (c TicketCreds) ByPrealm(realm string) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		return strings.EqualFold(t.CredInfo.PRealm, realm)
	})
}

func (c TicketCreds) BySname(labels ...string) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		return snameEqualFold(t.CredInfo.SName.NameString, labels)
	})
}

// BySrealm filters by server realm, case-insensitively.
func (c TicketCreds) BySrealm(realm string) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		return strings.EqualFold(t.CredInfo.SRealm, realm)
	})
}

// ByServiceSubstring filters by a case-insensitive substring match against
// the "/"-joined service name — used by the dump command's filter, which
// accepts a loose "cifs" or "host/" fragment.
func (c TicketCreds) ByServiceSubstring(substr string) TicketCreds {
	lower := strings.ToLower(substr)
	return c.filter(func(t TicketCred) bool {
		return strings.Contains(strings.ToLower(t.ServiceString()), lower)
	})
}

// TGTs filters to credentials that are TGTs (any realm).
func (c TicketCreds) TGTs() TicketCreds {
	return c.filter(TicketCred.IsTGT)
}

// TGTsForRealm filters to TGTs for a specific realm, case-insensitively.
func (c TicketCreds) TGTsForRealm(realm string) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		return t.IsTGTForRealm(realm)
	})
}

// UserTGTs filters to TGTs belonging to user and issued by user's own
// realm: pname/prealm match user, and sname is krbtgt/<user.realm>.
func (c TicketCreds) UserTGTs(pname, prealm string) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		return t.IsTGTForRealm(prealm) &&
			principalNameEquals(t.CredInfo.PName.NameString, pname) &&
			strings.EqualFold(t.CredInfo.PRealm, prealm)
	})
}

// S4U2SelfTGSs filters to entries whose client principal is
// impersonateUser, within realm, whose service name is either
// nt_srv_inst(userService) (when userService is non-empty) or the
// nt_enterprise name for requestingUser@realm otherwise.
func (c TicketCreds) S4U2SelfTGSs(impersonateUser, requestingUser, userService, realm string) TicketCreds {
	return c.filter(func(t TicketCred) bool {
		if !principalNameEquals(t.CredInfo.PName.NameString, impersonateUser) {
			return false
		}
		if !strings.EqualFold(t.CredInfo.PRealm, realm) {
			return false
		}
		svc := t.ServiceString()
		if userService != "" {
			return strings.EqualFold(svc, userService)
		}
		return strings.EqualFold(svc, requestingUser+"."+realm+"@"+realm) ||
			strings.EqualFold(svc, requestingUser+"@"+realm)
	})
}

func (c TicketCreds) filter(pred func(TicketCred) bool) TicketCreds {
	out := make(TicketCreds, 0, len(c))
	for _, t := range c {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func principalNameEquals(labels []string, name string) bool {
	return strings.EqualFold(strings.Join(labels, "/"), name)
}

// snameEqualFold compares sname first-label case-sensitively (krbtgt is
// always lowercase on the wire) and remaining labels case-insensitively,
// matching the TGT-for-realm invariant's treatment of the realm label.
func snameEqualFold(actual, want []string) bool {
	if len(actual) != len(want) {
		return false
	}
	for i := range actual {
		if i == 0 {
			if actual[i] != want[i] {
				return false
			}
			continue
		}
		if !strings.EqualFold(actual[i], want[i]) {
			return false
		}
	}
	return true
}
