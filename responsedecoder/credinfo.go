package responsedecoder

import (
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
)

// krbCredInfoFromEncPart populates a KrbCredInfo from a decrypted
// EncKDCRepPart plus the client principal/realm the outer reply carried in
// the clear. This is the boundary where the new usable session key, flags,
// and lifetimes the KDC just handed back become the credential's
// client-side record.
func krbCredInfoFromEncPart(enc messages.EncKDCRepPart, cname types.PrincipalName, crealm string) types.KrbCredInfo {
	return types.KrbCredInfo{
		Key:       enc.Key,
		PRealm:    crealm,
		PName:     cname,
		Flags:     enc.Flags,
		AuthTime:  enc.AuthTime,
		StartTime: enc.StartTime,
		EndTime:   enc.EndTime,
		RenewTill: enc.RenewTill,
		SRealm:    enc.SRealm,
		SName:     enc.SName,
		CAddr:     enc.CAddr,
	}
}
