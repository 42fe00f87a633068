package messageforge

import (
	"github.com/jcmturner/gokrb5/v8/iana/patype"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/errs"
)

// BuildAuthenticator builds a plaintext Authenticator for cname@realm. The
// caller is responsible for having it encrypted as part of an AP-REQ (see
// BuildAPReq); the authenticator itself carries no encryption.
func BuildAuthenticator(realm string, cname types.PrincipalName) (messages.Authenticator, error) {
	auth, err := messages.NewAuthenticator(realm, cname)
	if err != nil {
		return messages.Authenticator{}, errs.NewDataError("build authenticator", err)
	}
	return auth, nil
}

// BuildAPReq assembles an AP-REQ for ticket, with its authenticator
// encrypted under sessionKey (key-usage 7, TGS-REQ PA-TGS-REQ
// authenticator — the only usage kerbeus-go needs this helper for).
func BuildAPReq(ticket types.Ticket, sessionKey types.EncryptionKey, auth messages.Authenticator) (messages.APReq, error) {
	apReq, err := messages.NewAPReq(ticket, sessionKey, auth)
	if err != nil {
		return messages.APReq{}, errs.NewDataError("build AP-REQ", err)
	}
	return apReq, nil
}

// PATGSReq wraps an AP-REQ (whose authenticator is encrypted under
// key-usage 7) into a PA-TGS-REQ entry.
func PATGSReq(apReq messages.APReq) (types.PAData, error) {
	b, err := apReq.Marshal()
	if err != nil {
		return types.PAData{}, errs.NewDataError("marshal AP-REQ", err)
	}
	return types.PAData{PADataType: patype.PA_TGS_REQ, PADataValue: b}, nil
}
