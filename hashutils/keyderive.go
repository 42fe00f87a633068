package hashutils

import (
	"encoding/hex"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/krbuser"
)

// DeriveKeyHex runs the same RFC 3961 string-to-key derivation Cipher uses
// internally and returns the raw key bytes hex-encoded, for callers who
// want to print or feed a derived key to another offline tool (e.g. to
// confirm a cracked password matches a known NT/AES key) without going
// through a live KDC exchange.
func DeriveKeyHex(key krbuser.Key, user krbuser.KrbUser, preferredEtype int32, salt []byte) (string, error) {
	c, err := cipher.DeriveCipher(key, user, preferredEtype, salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(c.KeyBytes), nil
}
