// Package orchestrator implements the high-level flows every CLI or library
// caller actually wants: deciding whether a cached TGT, a fresh TGT, an
// S4U2Self, or an S4U2Proxy chase answers a request; brute-forcing and
// roasting credentials; and offline ticket forging. It is the only package
// that talks to a vault.Vault — requester stays vault-ignorant by design.
package orchestrator

import (
	"context"

	"github.com/jcmturner/gokrb5/v8/types"
	"github.com/sirupsen/logrus"

	"github.com/sprout-sec/kerbeus-go/channel"
	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/requester"
	"github.com/sprout-sec/kerbeus-go/vault"
)

// Orchestrator binds a KdcComm (and thus a Kdcs cache/transport) to the
// vault it reads cached credentials from and writes new ones into.
type Orchestrator struct {
	Comm   *channel.KdcComm
	Vault  vault.Vault
	Etypes []int32 // preference order; nil means requester.DefaultEtypes
}

// New builds an Orchestrator over comm and v.
func New(comm *channel.KdcComm, v vault.Vault) *Orchestrator {
	return &Orchestrator{Comm: comm, Vault: v}
}

// AskRequest names what the caller wants, per §4.6's decision table: a
// TGT, a plain TGS, or one of the S4U extensions, depending on which of
// Service/ImpersonateUser/Key are set.
type AskRequest struct {
	User            krbuser.KrbUser
	Key             krbuser.Key          // present for ask-TGT and, when available, as the caller's own credential for S4U flows
	Service         types.PrincipalName  // present for ask-TGS and ask-S4U2Proxy
	ServiceRealm    string               // realm the service lives in; defaults to User.Realm()
	ImpersonateUser types.PrincipalName  // present for ask-S4U2Self and ask-S4U2Proxy
	ImpersonateRealm string
	UserService     string // optional S4U2Self override
}

func (r AskRequest) hasService() bool {
	return len(r.Service.NameString) > 0
}

func (r AskRequest) hasImpersonate() bool {
	return len(r.ImpersonateUser.NameString) > 0
}

// Ask implements the ASK decision table verbatim: no-service/no-impersonate
// asks for a TGT; impersonate-only asks for an S4U2Self ticket; service-only
// asks for a regular TGS; both asks for an S4U2Proxy chain.
func (o *Orchestrator) Ask(ctx context.Context, req AskRequest) (credtypes.TicketCred, error) {
	logrus.WithFields(logrus.Fields{
		"user":        req.User.String(),
		"has_service": req.hasService(),
		"has_s4u":     req.hasImpersonate(),
	}).Info("ask")

	switch {
	case !req.hasService() && !req.hasImpersonate():
		if req.Key == nil {
			return credtypes.TicketCred{}, errs.NewStringError("credentials required")
		}
		return o.AskTGT(ctx, req.User, req.Key)

	case !req.hasService() && req.hasImpersonate():
		return o.AskS4U2Self(ctx, req.User, req.Key, req.ImpersonateUser, req.ImpersonateRealm, req.UserService)

	case req.hasService() && !req.hasImpersonate():
		return o.AskTGS(ctx, req.User, req.Key, req.Service, req.ServiceRealm)

	default: // service and impersonate both set
		return o.AskS4U2Proxy(ctx, req.User, req.Key, req.ImpersonateUser, req.ImpersonateRealm, req.UserService, req.Service, req.ServiceRealm)
	}
}

// AskTGT returns a cached TGT for user if the vault has one, else requests
// a fresh one and caches it.
func (o *Orchestrator) AskTGT(ctx context.Context, user krbuser.KrbUser, key krbuser.Key) (credtypes.TicketCred, error) {
	return o.getUserTGT(ctx, user, key)
}

// AskTGS returns a ticket to service, using (and caching) the caller's TGT.
// serviceRealm is accepted but not consulted: the TGS-REQ always goes to
// the KDC of the TGT's realm.
func (o *Orchestrator) AskTGS(ctx context.Context, user krbuser.KrbUser, key krbuser.Key, service types.PrincipalName, serviceRealm string) (credtypes.TicketCred, error) {
	if serviceRealm == "" {
		serviceRealm = user.Realm()
	}

	tgt, err := o.getUserTGT(ctx, user, key)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	sessionCipher := sessionKeyCipher(tgt)

	return requester.RequestRegularTGS(ctx, o.Comm, tgt, sessionCipher, service, o.etypes())
}

// AskRenew renews tgt against its own realm, adding the result to the vault
// (alongside the original, which is not removed) if a vault is attached.
// tgt must still carry a usable session
// key (its Key field) to decrypt the renewed TGS-REP.
func (o *Orchestrator) AskRenew(ctx context.Context, tgt credtypes.TicketCred) (credtypes.TicketCred, error) {
	logrus.WithField("user", tgt.ServiceString()).Info("renewing TGT")

	sessionCipher := sessionKeyCipher(tgt)
	renewed, err := requester.RequestRenewedTGT(ctx, o.Comm, tgt, sessionCipher, o.etypes())
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	if o.Vault != nil {
		if err := o.Vault.Add(renewed); err != nil {
			return credtypes.TicketCred{}, err
		}
	}

	return renewed, nil
}

func (o *Orchestrator) etypes() []int32 {
	if len(o.Etypes) > 0 {
		return o.Etypes
	}
	return requester.DefaultEtypes
}

// sessionKeyCipher builds a Cipher wrapping a TicketCred's already-known
// session key bytes, for decrypting the reply that this very ticket's
// session key protects. The etype is fixed by the key; no derivation needed.
func sessionKeyCipher(cred credtypes.TicketCred) *cipher.Cipher {
	return cipher.FromSessionKey(cred.CredInfo.Key.KeyType, cred.CredInfo.Key.KeyValue)
}

// errUnsupportedMultiHopReferral marks a referral chase landing on a second
// cross-realm TGT: spec §4.6 specifies exactly one hop, so a second hop is
// reported rather than followed.
var errUnsupportedMultiHopReferral = errs.NewStringError("S4U2Proxy referral chased more than one hop, which is not supported")
