package requester

import (
	"encoding/asn1"
	"testing"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/jcmturner/gokrb5/v8/iana/patype"
	"github.com/jcmturner/gokrb5/v8/types"
	"github.com/stretchr/testify/require"
)

func marshalETypeInfo2EData(t *testing.T, entries []etypeInfo2Entry) []byte {
	t.Helper()
	entryBytes, err := asn1.Marshal(entries)
	require.NoError(t, err)

	pa := types.PAData{PADataType: patype.PA_ETYPE_INFO2, PADataValue: entryBytes}
	seqBytes, err := asn1.Marshal([]types.PAData{pa})
	require.NoError(t, err)

	// Prepend the two bytes the KRB-ERROR wrapping imposes, per the design
	// note etypeInfo2SaltFor must strip before parsing.
	return append([]byte{0x00, 0x00}, seqBytes...)
}

func TestEtypeInfo2SaltForExactMatch(t *testing.T) {
	eData := marshalETypeInfo2EData(t, []etypeInfo2Entry{
		{EType: etypeID.AES128_CTS_HMAC_SHA1_96, Salt: "AES128SALT"},
		{EType: etypeID.AES256_CTS_HMAC_SHA1_96, Salt: "AES256SALT"},
	})

	salt, ok := etypeInfo2SaltFor(eData, etypeID.AES256_CTS_HMAC_SHA1_96)
	require.True(t, ok)
	require.Equal(t, "AES256SALT", salt)
}

func TestEtypeInfo2SaltForFallsBackToFirstEntry(t *testing.T) {
	eData := marshalETypeInfo2EData(t, []etypeInfo2Entry{
		{EType: etypeID.AES256_CTS_HMAC_SHA1_96, Salt: "ONLYSALT"},
	})

	salt, ok := etypeInfo2SaltFor(eData, etypeID.RC4_HMAC)
	require.True(t, ok)
	require.Equal(t, "ONLYSALT", salt)
}

func TestEtypeInfo2SaltForTooShort(t *testing.T) {
	_, ok := etypeInfo2SaltFor([]byte{0x01}, etypeID.AES256_CTS_HMAC_SHA1_96)
	require.False(t, ok)
}

func TestEtypeInfo2SaltForNoSalt(t *testing.T) {
	eData := marshalETypeInfo2EData(t, []etypeInfo2Entry{
		{EType: etypeID.AES256_CTS_HMAC_SHA1_96},
	})

	_, ok := etypeInfo2SaltFor(eData, etypeID.AES256_CTS_HMAC_SHA1_96)
	require.False(t, ok)
}
