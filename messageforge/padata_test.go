package messageforge

import (
	"encoding/asn1"
	"encoding/binary"
	"testing"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/jcmturner/gokrb5/v8/iana/patype"
	"github.com/jcmturner/gokrb5/v8/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/krbuser"
)

func aesCipher(t *testing.T) *cipher.Cipher {
	t.Helper()
	c, err := cipher.DeriveCipher(krbuser.SecretKey{Password: "Password1"}, krbuser.NewKrbUser("alice", "DOMAIN.COM"), etypeID.AES256_CTS_HMAC_SHA1_96, nil)
	require.NoError(t, err)
	return c
}

func rc4Cipher(t *testing.T) *cipher.Cipher {
	t.Helper()
	c, err := cipher.DeriveCipher(krbuser.Rc4Key{}, krbuser.NewKrbUser("alice", "DOMAIN.COM"), 0, nil)
	require.NoError(t, err)
	return c
}

func TestPAEncTimestampType(t *testing.T) {
	pa, err := PAEncTimestamp(aesCipher(t))
	require.NoError(t, err)
	assert.Equal(t, patype.PA_ENC_TIMESTAMP, pa.PADataType)
}

func TestPAForUserChecksumIsHMACMD5RegardlessOfEtype(t *testing.T) {
	target := NTPrincipal("victim")

	paAES, err := PAForUser(target, "DOMAIN.COM", aesCipher(t))
	require.NoError(t, err)
	paRC4, err := PAForUser(target, "DOMAIN.COM", rc4Cipher(t))
	require.NoError(t, err)

	assert.Equal(t, patype.PA_FOR_USER, paAES.PADataType)
	assert.Equal(t, patype.PA_FOR_USER, paRC4.PADataType)
	// Both encodings carry a 16-byte HMAC-MD5, never a 12-byte HMAC-SHA1-96,
	// even though one cipher is AES256 and the other RC4.
	assert.NotEmpty(t, paAES.PADataValue)
	assert.NotEmpty(t, paRC4.PADataValue)
	for _, pa := range []types.PAData{paAES, paRC4} {
		var pfu paForUser
		_, err := asn1.Unmarshal(pa.PADataValue, &pfu)
		require.NoError(t, err)
		assert.Equal(t, int32(hmacMD5ChecksumType), pfu.Cksum.CksumType)
		assert.Len(t, pfu.Cksum.Checksum, 16)
	}
}

func TestPAPacOptionsRoundTripsFlags(t *testing.T) {
	pa, err := PAPacOptions(ResourceBasedConstrainedDelegation)
	require.NoError(t, err)
	assert.Equal(t, int32(167), pa.PADataType) // patype.PA_PAC_OPTIONS

	var opts paPacOptions
	_, err = asn1.Unmarshal(pa.PADataValue, &opts)
	require.NoError(t, err)
	assert.Equal(t, uint32(ResourceBasedConstrainedDelegation), binary.BigEndian.Uint32(opts.KerberosFlags.Bytes))
}
