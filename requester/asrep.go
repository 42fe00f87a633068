package requester

import (
	"context"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/channel"
	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/responsedecoder"
)

// DefaultEtypes is the etype preference list kerbeus-go offers when the
// caller does not name one: AES256, AES128, RC4. DES is never offered
// (non-goal).
var DefaultEtypes = []int32{etypeID.AES256_CTS_HMAC_SHA1_96, etypeID.AES128_CTS_HMAC_SHA1_96, etypeID.RC4_HMAC}

// RequestASRep sends an AS-REQ for user and returns the parsed AS-REP. If c
// is non-nil, a PA-ENC-TIMESTAMP is attached (proactive pre-auth); if c is
// nil, the AS-REQ is sent bare, which is how both AS-REP roasting and
// username enumeration probe the KDC. etypes defaults to DefaultEtypes.
func RequestASRep(ctx context.Context, comm *channel.KdcComm, user krbuser.KrbUser, c *cipher.Cipher, etypes []int32) (*messages.ASRep, error) {
	if len(etypes) == 0 {
		etypes = DefaultEtypes
	}

	var paData []types.PAData
	if c != nil {
		pa, err := messageforge.PAEncTimestamp(c)
		if err != nil {
			return nil, err
		}
		paData = append(paData, pa)
	}

	asReq := messageforge.BuildASReqSkeleton(messageforge.NTPrincipal(user.Name()), user.Realm(), etypes, paData)

	return sendASReq(ctx, comm, user.Realm(), asReq)
}

func sendASReq(ctx context.Context, comm *channel.KdcComm, realm string, asReq messages.ASReq) (*messages.ASRep, error) {
	reqBytes, err := asReq.Marshal()
	if err != nil {
		return nil, wrapDataError("marshal AS-REQ", err)
	}

	respBytes, err := comm.SendRecv(ctx, realm, reqBytes)
	if err != nil {
		return nil, err
	}

	reply := responsedecoder.Parse(respBytes)
	if kerr := reply.AsError(); kerr != nil {
		return nil, kerr
	}
	if reply.ASRep == nil {
		return nil, wrapDataError("parse AS-REP", errUnexpectedReply)
	}
	return reply.ASRep, nil
}
