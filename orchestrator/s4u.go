package orchestrator

import (
	"context"
	"strings"

	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/requester"
)

// AskS4U2Self obtains (from vault, or by requesting and caching) a ticket
// to the caller's own service impersonating impersonateUser.
func (o *Orchestrator) AskS4U2Self(ctx context.Context, user krbuser.KrbUser, key krbuser.Key, impersonateUser types.PrincipalName, impersonateRealm, userService string) (credtypes.TicketCred, error) {
	if impersonateRealm == "" {
		impersonateRealm = user.Realm()
	}

	if o.Vault != nil {
		cached, err := o.Vault.S4U2SelfTGSs(messageforge.NTPrincipal(user.Name()), impersonateUser, user.Realm(), userService)
		if err == nil {
			for _, c := range cached {
				if c.IsValidAt(timeNow()) {
					return c, nil
				}
			}
		}
	}

	tgt, err := o.getUserTGT(ctx, user, key)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	selfTGS, err := requester.RequestS4U2SelfTGS(ctx, o.Comm, tgt, sessionKeyCipher(tgt), impersonateUser, impersonateRealm, userService, o.etypes())
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	if o.Vault != nil {
		if err := o.Vault.Add(selfTGS); err != nil {
			return credtypes.TicketCred{}, err
		}
	}

	return selfTGS, nil
}

// AskS4U2Proxy runs the full constrained-delegation chain: the caller's own
// TGT, an S4U2Self ticket impersonating impersonateUser, and a constrained
// S4U2Proxy TGS-REQ to service — chasing exactly one cross-realm referral
// hop if the local realm answers with an inter-realm TGT instead of a
// service ticket. serviceRealm is accepted but not consulted: the realm of
// a cross-realm service is taken from the referral TGT the KDC returns.
func (o *Orchestrator) AskS4U2Proxy(ctx context.Context, user krbuser.KrbUser, key krbuser.Key, impersonateUser types.PrincipalName, impersonateRealm, userService string, service types.PrincipalName, serviceRealm string) (credtypes.TicketCred, error) {
	if serviceRealm == "" {
		serviceRealm = user.Realm()
	}

	tgt, err := o.getUserTGT(ctx, user, key)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	selfTGS, err := o.AskS4U2Self(ctx, user, key, impersonateUser, impersonateRealm, userService)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	proxyTGS, err := requester.RequestS4U2ProxyTGS(ctx, o.Comm, tgt, sessionKeyCipher(tgt), selfTGS.Ticket, service, o.etypes())
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	if referralRealm, ok := referralTarget(proxyTGS, user.Realm()); ok {
		proxyTGS, err = o.chaseReferral(ctx, tgt, selfTGS, referralRealm, service)
		if err != nil {
			return credtypes.TicketCred{}, err
		}
	}

	if o.Vault != nil {
		if err := o.Vault.Add(proxyTGS); err != nil {
			return credtypes.TicketCred{}, err
		}
	}

	return proxyTGS, nil
}

// referralTarget reports whether cred is itself a cross-realm TGT (sname
// krbtgt/<realm> with realm differing from localRealm) rather than the
// requested service ticket — the signal that a referral must be chased.
func referralTarget(cred credtypes.TicketCred, localRealm string) (string, bool) {
	if !cred.IsTGT() {
		return "", false
	}
	if len(cred.CredInfo.SName.NameString) < 2 {
		return "", false
	}
	targetRealm := cred.CredInfo.SName.NameString[1]
	if strings.EqualFold(targetRealm, localRealm) {
		return "", false
	}
	return targetRealm, true
}

// chaseReferral follows one cross-realm hop per spec §4.6 step 4: request
// an inter-realm TGT for krbtgt/targetRealm using the caller's home-realm
// TGT, then re-issue the S4U2Proxy request against the target realm using
// that inter-realm TGT. A single hop is specified; a second referral
// encountered here is surfaced as an error rather than chased further.
func (o *Orchestrator) chaseReferral(ctx context.Context, tgt, selfTGS credtypes.TicketCred, targetRealm string, service types.PrincipalName) (credtypes.TicketCred, error) {
	interRealmTGT, err := requester.RequestRegularTGS(ctx, o.Comm, tgt, sessionKeyCipher(tgt), messageforge.NTSrvInst(credtypes.KrbtgtLabel+"/"+targetRealm), o.etypes())
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	proxyTGS, err := requester.RequestS4U2ProxyTGS(ctx, o.Comm, interRealmTGT, sessionKeyCipher(interRealmTGT), selfTGS.Ticket, service, o.etypes())
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	if _, ok := referralTarget(proxyTGS, targetRealm); ok {
		return credtypes.TicketCred{}, errUnsupportedMultiHopReferral
	}

	return proxyTGS, nil
}
