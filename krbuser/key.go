package krbuser

import (
	"encoding/hex"
	"strings"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/errs"
)

// Key is a tagged variant with exactly four shapes: a password (Secret), an
// NT hash (Rc4), or a raw AES128/AES256 key. Each shape advertises the
// encryption-type identifiers it can produce.
type Key interface {
	// EtypeIDs returns, in preference order, the etype identifiers this key
	// can produce a Cipher for.
	EtypeIDs() []int32
	isKey()
}

// SecretKey is a password. Salt is derived from realm+name unless the
// caller overrides it at Cipher-construction time.
type SecretKey struct {
	Password string
}

func (SecretKey) isKey() {}

// EtypeIDs returns AES256 first: a password can be used with any supported
// etype, but AES256 is the default unless the caller forces one.
func (SecretKey) EtypeIDs() []int32 {
	return []int32{etypeID.AES256_CTS_HMAC_SHA1_96, etypeID.AES128_CTS_HMAC_SHA1_96, etypeID.RC4_HMAC}
}

// Rc4Key is a 16-byte NT hash.
type Rc4Key struct {
	Value [16]byte
}

func (Rc4Key) isKey()              {}
func (Rc4Key) EtypeIDs() []int32   { return []int32{etypeID.RC4_HMAC} }
func (k Rc4Key) Hex() string       { return hex.EncodeToString(k.Value[:]) }

// Aes128Key is a raw 16-byte AES128 key.
type Aes128Key struct {
	Value [16]byte
}

func (Aes128Key) isKey()            {}
func (Aes128Key) EtypeIDs() []int32 { return []int32{etypeID.AES128_CTS_HMAC_SHA1_96} }
func (k Aes128Key) Hex() string     { return hex.EncodeToString(k.Value[:]) }

// Aes256Key is a raw 32-byte AES256 key.
type Aes256Key struct {
	Value [32]byte
}

func (Aes256Key) isKey()            {}
func (Aes256Key) EtypeIDs() []int32 { return []int32{etypeID.AES256_CTS_HMAC_SHA1_96} }
func (k Aes256Key) Hex() string     { return hex.EncodeToString(k.Value[:]) }

// RawKeyFromHex builds an Rc4Key (16 bytes) or Aes256Key (32 bytes) from a
// hex string, inferring the shape from its decoded length; a 16-byte value
// is always taken as an NT hash, never as an AES128 key (Aes128KeyFromHex
// covers that case). Used by CLI/tool callers that accept a hash on the
// command line.
func RawKeyFromHex(h string) (Key, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, errs.NewStringError("invalid hex key: %v", err)
	}
	switch len(b) {
	case 16:
		var k Rc4Key
		copy(k.Value[:], b)
		return k, nil
	case 32:
		var k Aes256Key
		copy(k.Value[:], b)
		return k, nil
	default:
		return nil, errs.NewStringError("key of length %d does not match rc4 (16), aes128 (16) or aes256 (32)", len(b))
	}
}

// Aes128KeyFromHex disambiguates the 16-byte case from RawKeyFromHex in
// favor of AES128 when the caller already knows the etype.
func Aes128KeyFromHex(h string) (Key, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, errs.NewStringError("invalid hex key: %v", err)
	}
	if len(b) != 16 {
		return nil, errs.NewStringError("aes128 key must be 16 bytes, got %d", len(b))
	}
	var k Aes128Key
	copy(k.Value[:], b)
	return k, nil
}

// keytabEtypePreference is the order KeyFromKeytab tries entries in:
// strongest first, matching SecretKey.EtypeIDs.
var keytabEtypePreference = []int32{
	etypeID.AES256_CTS_HMAC_SHA1_96,
	etypeID.AES128_CTS_HMAC_SHA1_96,
	etypeID.RC4_HMAC,
}

// KeyFromKeytab loads path and extracts the entry for user at kvno, trying
// etypes in keytabEtypePreference order and returning the first that
// matches an entry in the file. The result is an ordinary Rc4Key/Aes128Key/
// Aes256Key: a keytab is just an alternate source for one of the same three
// raw-key shapes, not a fourth tagged variant.
func KeyFromKeytab(path string, user KrbUser, kvno int) (Key, error) {
	kt, err := keytab.Load(path)
	if err != nil {
		return nil, errs.NewDataError("load keytab "+path, err)
	}

	labels := strings.Split(user.Name(), "/")
	var lastErr error
	for _, id := range keytabEtypePreference {
		ek, err := kt.GetEncryptionKey(labels, user.Realm(), kvno, id)
		if err != nil {
			lastErr = err
			continue
		}
		return keyFromEncryptionKey(ek)
	}
	return nil, errs.NewStringError("no usable key for %s in keytab %s: %v", user.String(), path, lastErr)
}

func keyFromEncryptionKey(ek types.EncryptionKey) (Key, error) {
	switch ek.KeyType {
	case etypeID.RC4_HMAC:
		var k Rc4Key
		copy(k.Value[:], ek.KeyValue)
		return k, nil
	case etypeID.AES128_CTS_HMAC_SHA1_96:
		var k Aes128Key
		copy(k.Value[:], ek.KeyValue)
		return k, nil
	case etypeID.AES256_CTS_HMAC_SHA1_96:
		var k Aes256Key
		copy(k.Value[:], ek.KeyValue)
		return k, nil
	default:
		return nil, errs.NewStringError("unsupported keytab key etype %d", ek.KeyType)
	}
}
