// Package responsedecoder parses a raw KDC reply and, for AS-REP/TGS-REP,
// decrypts the encrypted part under the appropriate key-usage number into a
// credtypes.TicketCred. Grounded on gokrb5's messages.ASRep/TGSRep/KRBError
// Unmarshal methods (see other_examples' KDCRep.go.go and ASExchange.go for
// the try-AS-REP-then-fall-back-to-KRBError pattern this mirrors).
package responsedecoder

import (
	"github.com/jcmturner/gokrb5/v8/messages"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
)

// Key usage numbers spec §4.4 mandates.
const (
	UsageASRepEncPart        uint32 = 3
	UsageTGSRepEncPartSess   uint32 = 8
	UsageTGSRepEncPartSubkey uint32 = 9
)

// Reply is the outcome of parsing one KDC response: exactly one of KRBErr,
// ASRep, TGSRep or Raw is populated, in that attempt order.
type Reply struct {
	ASRep  *messages.ASRep
	TGSRep *messages.TGSRep
	KRBErr *messages.KRBError
	Raw    []byte
}

// Parse attempts, in order, KRB-ERROR, AS-REP, TGS-REP, then gives up and
// returns the raw bytes.
func Parse(raw []byte) Reply {
	var kerr messages.KRBError
	if err := kerr.Unmarshal(raw); err == nil {
		return Reply{KRBErr: &kerr}
	}

	var asRep messages.ASRep
	if err := asRep.Unmarshal(raw); err == nil {
		return Reply{ASRep: &asRep}
	}

	var tgsRep messages.TGSRep
	if err := tgsRep.Unmarshal(raw); err == nil {
		return Reply{TGSRep: &tgsRep}
	}

	return Reply{Raw: raw}
}

// AsError converts a parsed KRB-ERROR into *errs.KrbError, or returns nil if
// reply did not carry one.
func (r Reply) AsError() *errs.KrbError {
	if r.KRBErr == nil {
		return nil
	}
	return &errs.KrbError{
		Code:    r.KRBErr.ErrorCode,
		Text:    r.KRBErr.EText,
		Realm:   r.KRBErr.Realm,
		EData:   r.KRBErr.EData,
		RawText: r.KRBErr.EText,
	}
}

// DecryptASRep decrypts an AS-REP's encrypted part under the client's
// long-term cipher (key-usage 3) and assembles a TicketCred from the
// result.
func DecryptASRep(asRep *messages.ASRep, clientCipher *cipher.Cipher) (credtypes.TicketCred, error) {
	pt, err := clientCipher.Decrypt(UsageASRepEncPart, asRep.EncPart.Cipher)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	var encPart messages.EncKDCRepPart
	if err := encPart.Unmarshal(pt); err != nil {
		return credtypes.TicketCred{}, errs.NewDataError("unmarshal EncASRepPart", err)
	}

	return credtypes.TicketCred{
		Ticket: asRep.Ticket,
		CredInfo: krbCredInfoFromEncPart(encPart, asRep.CName, asRep.CRealm),
	}, nil
}

// DecryptTGSRep decrypts a TGS-REP's encrypted part under the session key
// the request was made with (key-usage 8, or 9 if that session key was
// itself an authenticator sub-session key) and assembles a TicketCred.
func DecryptTGSRep(tgsRep *messages.TGSRep, sessionCipher *cipher.Cipher, usedSubSessionKey bool) (credtypes.TicketCred, error) {
	usage := UsageTGSRepEncPartSess
	if usedSubSessionKey {
		usage = UsageTGSRepEncPartSubkey
	}

	pt, err := sessionCipher.Decrypt(usage, tgsRep.EncPart.Cipher)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	var encPart messages.EncKDCRepPart
	if err := encPart.Unmarshal(pt); err != nil {
		return credtypes.TicketCred{}, errs.NewDataError("unmarshal EncTGSRepPart", err)
	}

	return credtypes.TicketCred{
		Ticket: tgsRep.Ticket,
		CredInfo: krbCredInfoFromEncPart(encPart, tgsRep.CName, tgsRep.CRealm),
	}, nil
}
