// Package credtypes holds the data model shared by every other component:
// the opaque Ticket, the TicketCred that pairs a Ticket with its usable
// session key, and TicketCreds, the ordered/filterable collection the Vault
// persists.
package credtypes

import (
	"strings"
	"time"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
)

// KrbtgtLabel is the first sname label that identifies a TGT on the wire.
// Comparisons against it are case-sensitive: krbtgt is always lowercase.
const KrbtgtLabel = "krbtgt"

// TicketCred pairs an opaque Ticket (never decrypted by the client; the KDC
// encrypted it to a server key the client doesn't hold) with the
// KrbCredInfo the KDC's response handed back in the clear part: the usable
// session key, flags, lifetimes, and both the client and server principals.
type TicketCred struct {
	Ticket   messages.Ticket
	CredInfo types.KrbCredInfo
}

// IsTGT reports whether this credential is a Ticket-Granting Ticket: the
// first label of its service name is (lowercase, literal) "krbtgt".
func (t TicketCred) IsTGT() bool {
	return len(t.CredInfo.SName.NameString) > 0 && t.CredInfo.SName.NameString[0] == KrbtgtLabel
}

// IsTGTForRealm reports whether this credential is a TGT whose second sname
// label names realm, case-insensitively.
func (t TicketCred) IsTGTForRealm(realm string) bool {
	return t.IsTGT() &&
		len(t.CredInfo.SName.NameString) > 1 &&
		strings.EqualFold(t.CredInfo.SName.NameString[1], realm)
}

// ServiceString renders the sname as a "/"-joined string, e.g. "cifs/host.domain.com".
func (t TicketCred) ServiceString() string {
	return strings.Join(t.CredInfo.SName.NameString, "/")
}

// ChangeSname renames the outer ticket's SName and the cred_info's SName
// together, so the two never drift apart. It is the only mutator for sname
// in this package.
func (t *TicketCred) ChangeSname(newSname types.PrincipalName, newRealm string) {
	t.Ticket.SName = newSname
	t.Ticket.Realm = newRealm
	t.CredInfo.SName = newSname
	t.CredInfo.SRealm = newRealm
}

// IsValidAt reports whether the credential's lifetime covers at: not yet
// expired and, when StartTime is set, already started. A cached credential
// failing this check must be re-requested rather than reused.
func (t TicketCred) IsValidAt(at time.Time) bool {
	if !t.CredInfo.StartTime.IsZero() && at.Before(t.CredInfo.StartTime) {
		return false
	}
	return at.Before(t.CredInfo.EndTime)
}

// Clone returns a deep-enough copy for filters that must not mutate the
// source: the embedded slices (NameString, flag bytes) are copied too.
func (t TicketCred) Clone() TicketCred {
	c := t
	c.CredInfo.SName.NameString = append([]string(nil), t.CredInfo.SName.NameString...)
	c.CredInfo.PName.NameString = append([]string(nil), t.CredInfo.PName.NameString...)
	c.Ticket.SName.NameString = append([]string(nil), t.Ticket.SName.NameString...)
	c.CredInfo.Flags.Bytes = append([]byte(nil), t.CredInfo.Flags.Bytes...)
	return c
}
