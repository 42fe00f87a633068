package messageforge

import (
	"encoding/asn1"
	"math/rand"
	"time"

	"github.com/jcmturner/gokrb5/v8/iana/msgtype"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
)

// farFuture is used as the KDC-REQ-BODY till time; real KDCs cap it to their
// configured maximum ticket lifetime, so kerbeus-go never needs to guess it.
var farFuture = time.Date(2037, 9, 13, 2, 48, 5, 0, time.UTC)

// KDCOptions builds the 32-bit KDCOptions bit string with the forwardable,
// renewable and canonicalize bits optionally set.
func KDCOptions(forwardable, renewable, canonicalize, renew bool) asn1.BitString {
	bits := make([]byte, 4)
	set := func(bit uint) {
		bits[bit/8] |= 1 << (7 - bit%8)
	}
	if forwardable {
		set(1)
	}
	if renewable {
		set(8)
	}
	if canonicalize {
		set(15)
	}
	if renew {
		set(30)
	}
	return asn1.BitString{Bytes: bits, BitLength: 32}
}

// BuildASReqSkeleton assembles an AS-REQ with the given PA-DATA already
// attached (PA-ENC-TIMESTAMP when the caller has a cipher, or none for an
// AS-REP-roast/username-enum probe).
func BuildASReqSkeleton(cname types.PrincipalName, realm string, etypes []int32, paData []types.PAData) messages.ASReq {
	body := messages.KDCReqBody{
		KDCOptions: KDCOptions(true, true, true, false),
		CName:      cname,
		Realm:      realm,
		SName:      NTSrvInst("krbtgt/" + realm),
		Till:       farFuture,
		Nonce:      int(rand.Int31()),
		EType:      etypes,
	}
	return messages.ASReq{
		KDCReqFields: messages.KDCReqFields{
			PVNO:    5,
			MsgType: msgtype.KRB_AS_REQ,
			PAData:  paData,
			ReqBody: body,
		},
	}
}

// BuildRenewTGSReqSkeleton assembles a TGS-REQ that asks the KDC to renew
// sname (almost always the TGT's own krbtgt/REALM service name) rather than
// issue a ticket to a new service: the renew KDC-option bit is set and no
// other S4U/PA-DATA is implied.
func BuildRenewTGSReqSkeleton(cname types.PrincipalName, realm string, sname types.PrincipalName, etypes []int32) messages.TGSReq {
	body := messages.KDCReqBody{
		KDCOptions: KDCOptions(true, true, true, true),
		CName:      cname,
		Realm:      realm,
		SName:      sname,
		Till:       farFuture,
		Nonce:      int(rand.Int31()),
		EType:      etypes,
	}
	return messages.TGSReq{
		KDCReqFields: messages.KDCReqFields{
			PVNO:    5,
			MsgType: msgtype.KRB_TGS_REQ,
			ReqBody: body,
		},
	}
}

// BuildTGSReqSkeleton assembles a TGS-REQ body for the given target service,
// to be wrapped by the Requester with a PA-TGS-REQ (and, for S4U, PA-FOR-USER
// / PA-PAC-OPTIONS) PA-DATA entry.
func BuildTGSReqSkeleton(cname types.PrincipalName, realm string, sname types.PrincipalName, etypes []int32, additional []types.Ticket) messages.TGSReq {
	body := messages.KDCReqBody{
		KDCOptions:        KDCOptions(true, true, true, false),
		CName:              cname,
		Realm:              realm,
		SName:              sname,
		Till:               farFuture,
		Nonce:              int(rand.Int31()),
		EType:              etypes,
		AdditionalTickets:  additional,
	}
	return messages.TGSReq{
		KDCReqFields: messages.KDCReqFields{
			PVNO:    5,
			MsgType: msgtype.KRB_TGS_REQ,
			ReqBody: body,
		},
	}
}
