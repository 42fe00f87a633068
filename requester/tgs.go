package requester

import (
	"context"
	"strings"

	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/channel"
	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/responsedecoder"
)

// RequestTGS sends a TGS-REQ against tgt, parameterised by selector per
// spec §4.2's tagged {None, S4u2self, S4u2proxy} shape, and returns the
// decrypted service ticket.
//
//   - S4UNone is a regular TGS-REQ for selector.ServiceName.
//   - S4U2Self asks for a ticket to the requester's own service "as"
//     selector.TargetUser, via PA-FOR-USER.
//   - S4U2Proxy redeems selector.AdditionalTicket (an S4U2Self ticket) for a
//     ticket to selector.ServiceName via constrained delegation, presenting
//     the additional ticket alongside the TGT.
//
// Referral chasing across realm boundaries is not this function's job; it
// sends exactly one TGS-REQ/TGS-REP exchange and returns whatever the KDC at
// tgt's realm answers with (which may itself be a cross-realm referral TGT,
// for the orchestrator to notice and re-request with).
func RequestTGS(ctx context.Context, comm *channel.KdcComm, tgt credtypes.TicketCred, sessionCipher *cipher.Cipher, selector messageforge.S4USelector, etypes []int32) (credtypes.TicketCred, error) {
	if len(etypes) == 0 {
		etypes = DefaultEtypes
	}

	cname := tgt.CredInfo.PName
	// realm is the realm a TGS-REQ's body names and the realm the request
	// is physically sent to: the realm named by tgt's krbtgt/<realm> sname,
	// i.e. the realm that holds the key to decrypt it. For a home-realm TGT
	// this equals the client's own realm; for an inter-realm TGT obtained
	// while chasing a referral it is the target realm, which is exactly the
	// KDC that can honor it (the TGT's SRealm is the issuing realm).
	realm := tgt.CredInfo.SRealm
	if tgt.IsTGT() && len(tgt.CredInfo.SName.NameString) > 1 {
		realm = tgt.CredInfo.SName.NameString[1]
	}
	// The authenticator names the client's own realm, not the target realm.
	crealm := tgt.CredInfo.PRealm
	if crealm == "" {
		crealm = realm
	}

	sname := selector.ServiceName
	var additional []types.Ticket
	if selector.Kind == messageforge.S4U2Self {
		sname = selfServiceName(cname, realm, selector.UserService)
	}
	if selector.Kind == messageforge.S4U2Proxy {
		additional = []types.Ticket{selector.AdditionalTicket}
	}

	body := messageforge.BuildTGSReqSkeleton(cname, realm, sname, etypes, additional)

	paData, err := tgsPAData(crealm, cname, tgt, sessionCipher, selector)
	if err != nil {
		return credtypes.TicketCred{}, err
	}
	body.PAData = paData

	reqBytes, err := body.Marshal()
	if err != nil {
		return credtypes.TicketCred{}, wrapDataError("marshal TGS-REQ", err)
	}

	respBytes, err := comm.SendRecv(ctx, realm, reqBytes)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	reply := responsedecoder.Parse(respBytes)
	if kerr := reply.AsError(); kerr != nil {
		return credtypes.TicketCred{}, kerr
	}
	if reply.TGSRep == nil {
		return credtypes.TicketCred{}, wrapDataError("parse TGS-REP", errUnexpectedReply)
	}

	return responsedecoder.DecryptTGSRep(reply.TGSRep, sessionCipher, false)
}

// tgsPAData builds the PA-TGS-REQ (always present) plus, for S4U requests,
// PA-FOR-USER and PA-PAC-OPTIONS.
func tgsPAData(realm string, cname types.PrincipalName, tgt credtypes.TicketCred, sessionCipher *cipher.Cipher, selector messageforge.S4USelector) ([]types.PAData, error) {
	auth, err := messageforge.BuildAuthenticator(realm, cname)
	if err != nil {
		return nil, err
	}
	apReq, err := messageforge.BuildAPReq(tgt.Ticket, tgt.CredInfo.Key, auth)
	if err != nil {
		return nil, err
	}
	paTGSReq, err := messageforge.PATGSReq(apReq)
	if err != nil {
		return nil, err
	}

	paData := []types.PAData{paTGSReq}

	if selector.Kind == messageforge.S4U2Self {
		paForUser, err := messageforge.PAForUser(selector.TargetUser, selector.TargetUserRealm, sessionCipher)
		if err != nil {
			return nil, err
		}
		paPacOpts, err := messageforge.PAPacOptions(messageforge.ResourceBasedConstrainedDelegation)
		if err != nil {
			return nil, err
		}
		paData = append(paData, paForUser, paPacOpts)
	}

	return paData, nil
}

// selfServiceName builds the sname an S4U2Self TGS-REQ asks for: a ticket
// to the requester's own service. userService, when given, overrides the
// default of the nt_enterprise name for the requester's own client
// principal and realm — the same default the vault's S4U2Self lookup
// falls back to when no user_service was recorded.
func selfServiceName(cname types.PrincipalName, realm, userService string) types.PrincipalName {
	if userService != "" {
		return messageforge.NTSrvInst(userService)
	}
	return messageforge.NTEnterprise(strings.Join(cname.NameString, "/"), realm)
}
