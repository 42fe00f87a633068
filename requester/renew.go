package requester

import (
	"context"

	"github.com/sprout-sec/kerbeus-go/channel"
	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/responsedecoder"
)

// RequestRenewedTGT asks tgt's realm to renew tgt itself, per the renewable
// lifetime AD grants forwardable TGTs. The TGT must carry the renewable flag
// and still be within its renew-till window; the KDC enforces both and
// returns a KRB-ERROR otherwise.
func RequestRenewedTGT(ctx context.Context, comm *channel.KdcComm, tgt credtypes.TicketCred, sessionCipher *cipher.Cipher, etypes []int32) (credtypes.TicketCred, error) {
	if len(etypes) == 0 {
		etypes = DefaultEtypes
	}

	cname := tgt.CredInfo.PName
	realm := tgt.CredInfo.SRealm

	body := messageforge.BuildRenewTGSReqSkeleton(cname, realm, tgt.CredInfo.SName, etypes)

	paData, err := tgsPAData(realm, cname, tgt, sessionCipher, messageforge.S4USelector{Kind: messageforge.S4UNone})
	if err != nil {
		return credtypes.TicketCred{}, err
	}
	body.PAData = paData

	reqBytes, err := body.Marshal()
	if err != nil {
		return credtypes.TicketCred{}, wrapDataError("marshal renew TGS-REQ", err)
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
		return credtypes.TicketCred{}, wrapDataError("parse renewed TGS-REP", errUnexpectedReply)
	}

	return responsedecoder.DecryptTGSRep(reply.TGSRep, sessionCipher, false)
}
