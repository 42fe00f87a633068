package messageforge

import (
	"encoding/asn1"
	"encoding/binary"

	"github.com/jcmturner/gokrb5/v8/iana/patype"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/errs"
)

// kerbAuthPackage is the literal auth-package string AD expects in
// PA-FOR-USER; it is not an OID, just an ASCII marker for "I am Kerberos".
const kerbAuthPackage = "Kerberos"

// PAEncTimestamp builds a PA-ENC-TIMESTAMP entry: the current UTC time
// encoded as PaEncTsEnc and encrypted under key-usage 1 (AS-REQ pre-auth).
func PAEncTimestamp(c *cipher.Cipher) (types.PAData, error) {
	tsBytes, err := types.GetPAEncTSEncAsnMarshalled()
	if err != nil {
		return types.PAData{}, errs.NewDataError("marshal PaEncTsEnc", err)
	}
	enc, err := c.Encrypt(1, tsBytes)
	if err != nil {
		return types.PAData{}, err
	}
	ed := types.EncryptedData{EType: c.EtypeID, Cipher: enc}
	edBytes, err := ed.Marshal()
	if err != nil {
		return types.PAData{}, errs.NewDataError("marshal EncryptedData", err)
	}
	return types.PAData{PADataType: patype.PA_ENC_TIMESTAMP, PADataValue: edBytes}, nil
}

// paForUser is the ASN.1 shape of the MS-KILE PA-FOR-USER structure.
// It has no equivalent in gokrb5 (a conformant client never sends it), so
// kerbeus-go defines it itself, following the tagging convention of
// gokrb5's own messages (see other_examples' KDCReq.go: explicit tags,
// generalstring realms).
type paForUser struct {
	UserName    types.PrincipalName `asn1:"explicit,tag:0"`
	UserRealm   string              `asn1:"generalstring,explicit,tag:1"`
	Cksum       types.Checksum      `asn1:"explicit,tag:2"`
	AuthPackage string              `asn1:"generalstring,explicit,tag:3"`
}

// PAForUser builds the S4U2Self PA-FOR-USER entry. Its checksum is
// HMAC-MD5 under key-usage 17 (KERB-NON-KERB-CKSUM-SALT), computed over the
// little-endian name-type (4 bytes) ‖ name ‖ realm ‖ auth-package — and that
// checksum type is HMAC-MD5 regardless of the surrounding session-key
// etype. Getting this wrong (e.g. letting an AES session key select
// HMAC-SHA1-96) is the single most common reason real-world S4U2Self
// implementations fail against Windows KDCs.
func PAForUser(targetUser types.PrincipalName, targetRealm string, tgtSessionCipher *cipher.Cipher) (types.PAData, error) {
	cksumInput := cksumInputForUser(targetUser, targetRealm)
	mac := tgtSessionCipher.ChecksumHMACMD5(cksumInput)

	pfu := paForUser{
		UserName:  targetUser,
		UserRealm: targetRealm,
		Cksum: types.Checksum{
			CksumType: hmacMD5ChecksumType,
			Checksum:  mac,
		},
		AuthPackage: kerbAuthPackage,
	}
	b, err := asn1.Marshal(pfu)
	if err != nil {
		return types.PAData{}, errs.NewDataError("marshal PA-FOR-USER", err)
	}
	return types.PAData{PADataType: patype.PA_FOR_USER, PADataValue: b}, nil
}

// hmacMD5ChecksumType is the checksum type identifier of the keyed HMAC-MD5
// (KERB_CHECKSUM_HMAC_MD5, -138) declared for the PA-FOR-USER checksum; the
// same value pacforge uses for RC4 PAC signatures.
const hmacMD5ChecksumType = -138

func cksumInputForUser(user types.PrincipalName, realm string) []byte {
	var nameType [4]byte
	binary.LittleEndian.PutUint32(nameType[:], uint32(user.NameType))

	buf := make([]byte, 0, 4+32+len(realm)+len(kerbAuthPackage))
	buf = append(buf, nameType[:]...)
	for _, label := range user.NameString {
		buf = append(buf, []byte(label)...)
	}
	buf = append(buf, []byte(realm)...)
	buf = append(buf, []byte(kerbAuthPackage)...)
	return buf
}

// paPacOptions is the ASN.1 shape of PA-PAC-OPTIONS: a single 32-bit
// kerberos-flags field.
type paPacOptions struct {
	KerberosFlags asn1.BitString `asn1:"explicit,tag:0"`
}

// ResourceBasedConstrainedDelegation is bit 0 of PA-PAC-OPTIONS, set on the
// S4U2Self leg of an RBCD-style S4U2Proxy to tell the KDC the caller
// understands resource-based constrained delegation.
const ResourceBasedConstrainedDelegation = 1 << 31

// PAPacOptions builds a PA-PAC-OPTIONS entry carrying flags as a 32-bit
// kerberos flags field (passed through verbatim; bit numbering is the
// caller's responsibility).
func PAPacOptions(flags uint32) (types.PAData, error) {
	bits := make([]byte, 4)
	binary.BigEndian.PutUint32(bits, flags)
	opts := paPacOptions{KerberosFlags: asn1.BitString{Bytes: bits, BitLength: 32}}
	b, err := asn1.Marshal(opts)
	if err != nil {
		return types.PAData{}, errs.NewDataError("marshal PA-PAC-OPTIONS", err)
	}
	return types.PAData{PADataType: patype.PA_PAC_OPTIONS, PADataValue: b}, nil
}
