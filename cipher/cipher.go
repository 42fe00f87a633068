// Package cipher binds a Key to a concrete encryption type and derived key
// bytes, and exposes encrypt/decrypt/checksum under Kerberos key-usage
// numbers. It is a thin, spec-faithful wrapper around
// github.com/jcmturner/gokrb5/v8/crypto: gokrb5 already implements RFC 3961
// key derivation and the RFC 3962/8009 AES and RFC 4757 RC4 checksum/enc
// algorithms correctly, so kerbeus-go reuses them rather than re-deriving
// AES/RC4 primitives by hand.
package cipher

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/binary"
	"strings"

	"github.com/jcmturner/gokrb5/v8/crypto"
	"github.com/jcmturner/gokrb5/v8/crypto/etype"
	"github.com/jcmturner/gokrb5/v8/iana/etypeID"

	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/krbuser"
)

// KerbNonKerbCksumSalt is the MS-KILE key-usage number (17) used for the
// PA-FOR-USER checksum and for both PAC signatures. It is not part of the
// RFC 4120 key-usage registry that gokrb5's iana/keyusage package mirrors,
// so it is defined locally.
const KerbNonKerbCksumSalt = 17

// Cipher is a (derived key bytes, etype) pair bound to one principal.
type Cipher struct {
	EtypeID  int32
	KeyBytes []byte
	et       etype.EType
}

// DeriveCipher builds a Cipher from a Key and the principal it belongs to.
//
//   - A raw-hash key (Rc4/Aes128/Aes256) fixes the etype; preferredEtype is
//     ignored.
//   - A SecretKey (password) defaults to AES256 unless preferredEtype is set.
//   - salt, when nil, is derived as uppercase(realm) + name (the AES/RC4
//     default per RFC 3961 §5); a non-nil salt overrides this, which is how
//     callers recover from a KDC-supplied ETYPE-INFO2 salt hint.
func DeriveCipher(key krbuser.Key, user krbuser.KrbUser, preferredEtype int32, salt []byte) (*Cipher, error) {
	switch k := key.(type) {
	case krbuser.Rc4Key:
		return rawKeyCipher(etypeID.RC4_HMAC, k.Value[:])
	case krbuser.Aes128Key:
		return rawKeyCipher(etypeID.AES128_CTS_HMAC_SHA1_96, k.Value[:])
	case krbuser.Aes256Key:
		return rawKeyCipher(etypeID.AES256_CTS_HMAC_SHA1_96, k.Value[:])
	case krbuser.SecretKey:
		id := preferredEtype
		if id == 0 {
			id = etypeID.AES256_CTS_HMAC_SHA1_96
		}
		et, err := crypto.GetEtype(id)
		if err != nil {
			return nil, errs.NewCryptoError("lookup etype", err)
		}
		s := salt
		if s == nil {
			s = []byte(defaultSalt(user))
		}
		keyBytes, err := et.StringToKey(k.Password, string(s), et.GetDefaultStringToKeyParams())
		if err != nil {
			return nil, errs.NewCryptoError("string-to-key", err)
		}
		return &Cipher{EtypeID: id, KeyBytes: keyBytes, et: et}, nil
	default:
		return nil, errs.NewStringError("unsupported key variant %T", key)
	}
}

// FromSessionKey wraps an already-negotiated session key (as carried in a
// KrbCredInfo or an AS-REP/TGS-REP enc-part) in a Cipher, for decrypting the
// one exchange that key belongs to. Unlike DeriveCipher there is no
// string-to-key step: the bytes are the key.
func FromSessionKey(keyType int32, keyValue []byte) *Cipher {
	et, err := crypto.GetEtype(keyType)
	if err != nil {
		// A session key naming an etype gokrb5 doesn't implement can't be
		// used regardless; defer the failure to the first Encrypt/Decrypt
		// call rather than threading an error return through every caller
		// of what is otherwise a pure struct literal.
		return &Cipher{EtypeID: keyType, KeyBytes: append([]byte(nil), keyValue...)}
	}
	return &Cipher{EtypeID: keyType, KeyBytes: append([]byte(nil), keyValue...), et: et}
}

func rawKeyCipher(id int32, key []byte) (*Cipher, error) {
	et, err := crypto.GetEtype(id)
	if err != nil {
		return nil, errs.NewCryptoError("lookup etype", err)
	}
	kb := make([]byte, len(key))
	copy(kb, key)
	return &Cipher{EtypeID: id, KeyBytes: kb, et: et}, nil
}

// defaultSalt is uppercase(realm) concatenated with the case-preserved name,
// the AES/RC4 default string-to-key salt from RFC 3961 §5 / MS-KILE.
func defaultSalt(user krbuser.KrbUser) string {
	return strings.ToUpper(user.Realm()) + user.Name()
}

// Encrypt encrypts plaintext under the given Kerberos key-usage number.
func (c *Cipher) Encrypt(keyUsage uint32, plaintext []byte) ([]byte, error) {
	_, ct, err := c.et.EncryptMessage(c.KeyBytes, plaintext, keyUsage)
	if err != nil {
		return nil, errs.NewCryptoError("encrypt", err)
	}
	return ct, nil
}

// Decrypt decrypts ciphertext under the given key-usage number. Fails with
// *errs.CryptoError on MAC mismatch, wrong key, or malformed ciphertext.
func (c *Cipher) Decrypt(keyUsage uint32, ciphertext []byte) ([]byte, error) {
	pt, err := c.et.DecryptMessage(c.KeyBytes, ciphertext, keyUsage)
	if err != nil {
		return nil, errs.NewCryptoError("decrypt", err)
	}
	return pt, nil
}

// Checksum computes a MAC over data under the given key-usage number,
// dispatching to HMAC-MD5 (RC4) or HMAC-SHA1-96 (AES128/AES256) by etype.
func (c *Cipher) Checksum(keyUsage uint32, data []byte) ([]byte, error) {
	mac, err := c.et.GetChecksumHash(c.KeyBytes, data, keyUsage)
	if err != nil {
		return nil, errs.NewCryptoError("checksum", err)
	}
	return mac, nil
}

// ChecksumHMACMD5 computes the RFC 4757 keyed HMAC-MD5 checksum over data
// under key-usage KerbNonKerbCksumSalt (17), using the cipher's key bytes
// directly, regardless of the surrounding etype. This is
// security-critical for the PA-FOR-USER (S4U2Self) checksum only: AD always
// verifies it with HMAC-MD5 even when the session key is AES. PAC signatures
// are NOT forced to MD5 — they use Checksum with key-usage 17, which
// dispatches by etype like any other checksum.
func (c *Cipher) ChecksumHMACMD5(data []byte) []byte {
	ksign := hmac.New(md5.New, c.KeyBytes)
	ksign.Write([]byte("signaturekey\x00"))
	var usage [4]byte
	binary.LittleEndian.PutUint32(usage[:], KerbNonKerbCksumSalt)
	inner := md5.New()
	inner.Write(usage[:])
	inner.Write(data)
	h := hmac.New(md5.New, ksign.Sum(nil))
	h.Write(inner.Sum(nil))
	return h.Sum(nil)
}
