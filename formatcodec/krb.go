// Package formatcodec converts between the two on-disk credential formats
// kerbeus-go round-trips tickets through: KRB (a DER-encoded KRB-CRED, RFC
// 4120 §5.8.1) and CCACHE (the MIT credential-cache v4 layout). Grounded on
// gokrb5's messages/types ASN.1 shapes for the KRB side; the CCACHE side is
// hand-rolled (see ccache.go) since no library in this module's dependency
// set writes that format.
package formatcodec

import (
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/jcmturner/gokrb5/v8/asn1tools"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
)

const (
	krbCredAppTag        = 22 // RFC 4120 application tag for KRB-CRED
	encKrbCredPartAppTag = 29 // RFC 4120 application tag for EncKrbCredPart
	krbMsgTypeCred       = 22 // RFC 4120 msg-type for KRB-CRED

	// NoEncryptionEtype marks enc-part.etype on credentials-at-rest: the
	// cipher field holds the plaintext EncKrbCredPart directly. kerbeus-go
	// relies on filesystem permissions on the vault file, not an
	// additional encryption layer, matching how kirbi/.krb tooling in this
	// ecosystem represents offline credential bundles.
	NoEncryptionEtype int32 = 0
)

type krbCredASN1 struct {
	PVNO    int                  `asn1:"explicit,tag:0"`
	MsgType int                  `asn1:"explicit,tag:1"`
	Tickets []asn1.RawValue      `asn1:"explicit,tag:2"`
	EncPart types.EncryptedData  `asn1:"explicit,tag:3"`
}

type encKrbCredPartASN1 struct {
	TicketInfo []types.KrbCredInfo `asn1:"explicit,tag:0"`
	Nonce      int                 `asn1:"explicit,optional,tag:1"`
	Timestamp  time.Time           `asn1:"explicit,optional,generalized,tag:2"`
	Usec       int                 `asn1:"explicit,optional,tag:3"`
}

// EncodeKRB serializes creds as a DER-encoded KRB-CRED with
// enc-part.etype = NoEncryptionEtype.
func EncodeKRB(creds credtypes.TicketCreds) ([]byte, error) {
	tickets := make([]asn1.RawValue, len(creds))
	ticketInfo := make([]types.KrbCredInfo, len(creds))
	for i, c := range creds {
		b, err := c.Ticket.Marshal()
		if err != nil {
			return nil, errs.NewDataError("marshal ticket", err)
		}
		tickets[i] = asn1.RawValue{FullBytes: b}
		ticketInfo[i] = c.CredInfo
	}

	encPartBytes, err := asn1.Marshal(encKrbCredPartASN1{TicketInfo: ticketInfo})
	if err != nil {
		return nil, errs.NewDataError("marshal EncKrbCredPart", err)
	}
	encPartBytes = asn1tools.AddASNAppTag(encPartBytes, encKrbCredPartAppTag)

	cred := krbCredASN1{
		PVNO:    5,
		MsgType: krbMsgTypeCred,
		Tickets: tickets,
		EncPart: types.EncryptedData{EType: NoEncryptionEtype, Cipher: encPartBytes},
	}
	b, err := asn1.Marshal(cred)
	if err != nil {
		return nil, errs.NewDataError("marshal KRB-CRED", err)
	}
	return asn1tools.AddASNAppTag(b, krbCredAppTag), nil
}

// DecodeKRB parses a DER-encoded KRB-CRED back into TicketCreds.
func DecodeKRB(b []byte) (credtypes.TicketCreds, error) {
	var outer krbCredASN1
	if _, err := asn1.UnmarshalWithParams(b, &outer, fmt.Sprintf("application,explicit,tag:%d", krbCredAppTag)); err != nil {
		return nil, errs.NewDataError("unmarshal KRB-CRED", err)
	}

	var encPart encKrbCredPartASN1
	if _, err := asn1.UnmarshalWithParams(outer.EncPart.Cipher, &encPart, fmt.Sprintf("application,explicit,tag:%d", encKrbCredPartAppTag)); err != nil {
		return nil, errs.NewDataError("unmarshal EncKrbCredPart", err)
	}

	if len(outer.Tickets) != len(encPart.TicketInfo) {
		return nil, errs.NewDataError("decode KRB-CRED", errs.NewStringError("ticket count %d does not match cred_info count %d", len(outer.Tickets), len(encPart.TicketInfo)))
	}

	creds := make(credtypes.TicketCreds, len(outer.Tickets))
	for i, raw := range outer.Tickets {
		var t messages.Ticket
		if err := t.Unmarshal(raw.FullBytes); err != nil {
			return nil, errs.NewDataError("unmarshal ticket", err)
		}
		creds[i] = credtypes.TicketCred{Ticket: t, CredInfo: encPart.TicketInfo[i]}
	}
	return creds, nil
}

func asn1BitString(flagBytes []byte) asn1.BitString {
	return asn1.BitString{Bytes: flagBytes, BitLength: len(flagBytes) * 8}
}
