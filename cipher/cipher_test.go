package cipher

import (
	"testing"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/krbuser"
)

func TestDeriveCipherRawKeysFixEtype(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")

	c, err := DeriveCipher(krbuser.Rc4Key{}, user, etypeID.AES256_CTS_HMAC_SHA1_96, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(etypeID.RC4_HMAC), c.EtypeID, "raw key etype must not be overridden by preferredEtype")
}

func TestDeriveCipherSecretDefaultsToAes256(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")

	c, err := DeriveCipher(krbuser.SecretKey{Password: "Password1"}, user, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(etypeID.AES256_CTS_HMAC_SHA1_96), c.EtypeID)
	assert.Len(t, c.KeyBytes, 32)
}

func TestDeriveCipherSaltOverride(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")

	withDefault, err := DeriveCipher(krbuser.SecretKey{Password: "Password1"}, user, etypeID.AES256_CTS_HMAC_SHA1_96, nil)
	require.NoError(t, err)

	withOverride, err := DeriveCipher(krbuser.SecretKey{Password: "Password1"}, user, etypeID.AES256_CTS_HMAC_SHA1_96, []byte("DOMAIN.COMALICE"))
	require.NoError(t, err)

	assert.NotEqual(t, withDefault.KeyBytes, withOverride.KeyBytes, "an explicit salt must change the derived key")
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")
	c, err := DeriveCipher(krbuser.SecretKey{Password: "Password1"}, user, etypeID.AES256_CTS_HMAC_SHA1_96, nil)
	require.NoError(t, err)

	pt := []byte("the quick brown fox")
	ct, err := c.Encrypt(1, pt)
	require.NoError(t, err)

	got, err := c.Decrypt(1, ct)
	require.NoError(t, err)
	assert.Equal(t, pt, got)
}

func TestChecksumHMACMD5IgnoresEtype(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")
	aesCipher, err := DeriveCipher(krbuser.SecretKey{Password: "Password1"}, user, etypeID.AES256_CTS_HMAC_SHA1_96, nil)
	require.NoError(t, err)

	mac1 := aesCipher.ChecksumHMACMD5([]byte("PA-FOR-USER checksum input"))
	mac2 := aesCipher.ChecksumHMACMD5([]byte("PA-FOR-USER checksum input"))
	assert.Equal(t, mac1, mac2, "checksum must be deterministic")
	assert.Len(t, mac1, 16, "HMAC-MD5 output is 16 bytes regardless of surrounding etype")
}
