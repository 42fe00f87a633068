package formatcodec

import (
	"testing"
	"time"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/credtypes"
)

func sampleCreds(t *testing.T) credtypes.TicketCreds {
	t.Helper()

	ticket := messages.Ticket{
		TktVNO: 5,
		Realm:  "DOMAIN.COM",
		SName:  types.PrincipalName{NameType: 2, NameString: []string{"krbtgt", "DOMAIN.COM"}},
		EncPart: types.EncryptedData{
			EType:  18,
			KVNO:   1,
			Cipher: []byte("opaque-kdc-encrypted-ticket-bytes"),
		},
	}

	return credtypes.TicketCreds{
		{
			Ticket: ticket,
			CredInfo: types.KrbCredInfo{
				Key:       types.EncryptionKey{KeyType: 18, KeyValue: make([]byte, 32)},
				PName:     types.PrincipalName{NameType: 1, NameString: []string{"alice"}},
				PRealm:    "DOMAIN.COM",
				SName:     types.PrincipalName{NameType: 2, NameString: []string{"krbtgt", "DOMAIN.COM"}},
				SRealm:    "DOMAIN.COM",
				AuthTime:  time.Now().Truncate(time.Second).UTC(),
				StartTime: time.Now().Truncate(time.Second).UTC(),
				EndTime:   time.Now().Add(10 * time.Hour).Truncate(time.Second).UTC(),
				RenewTill: time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second).UTC(),
			},
		},
	}
}

func TestKRBRoundTrip(t *testing.T) {
	creds := sampleCreds(t)
	b, err := EncodeKRB(creds)
	require.NoError(t, err)

	got, err := DecodeKRB(b)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, creds[0].CredInfo.PName, got[0].CredInfo.PName)
	assert.Equal(t, creds[0].CredInfo.SName, got[0].CredInfo.SName)
	assert.Equal(t, creds[0].CredInfo.Key.KeyValue, got[0].CredInfo.Key.KeyValue)
}

func TestCCACHERoundTrip(t *testing.T) {
	creds := sampleCreds(t)
	b, err := EncodeCCACHE(creds)
	require.NoError(t, err)

	got, err := DecodeCCACHE(b)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, creds[0].CredInfo.PName, got[0].CredInfo.PName)
	assert.Equal(t, creds[0].CredInfo.SRealm, got[0].CredInfo.SRealm)
	assert.Equal(t, creds[0].CredInfo.Key.KeyValue, got[0].CredInfo.Key.KeyValue)
	assert.True(t, creds[0].CredInfo.AuthTime.Equal(got[0].CredInfo.AuthTime))
}

func TestDetectAndDecodePrefersCCACHE(t *testing.T) {
	creds := sampleCreds(t)
	ccacheBytes, err := EncodeCCACHE(creds)
	require.NoError(t, err)

	_, format, err := DetectAndDecode(ccacheBytes)
	require.NoError(t, err)
	assert.Equal(t, CCACHE, format)
}

func TestDetectAndDecodeFallsBackToKRB(t *testing.T) {
	creds := sampleCreds(t)
	krbBytes, err := EncodeKRB(creds)
	require.NoError(t, err)

	_, format, err := DetectAndDecode(krbBytes)
	require.NoError(t, err)
	assert.Equal(t, KRB, format)
}

func TestDetectAndDecodeFailsOnGarbage(t *testing.T) {
	_, _, err := DetectAndDecode([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestResolveOutputFormatPrefersExplicit(t *testing.T) {
	explicit := CCACHE
	f, err := ResolveOutputFormat(&explicit, "out.krb", nil)
	require.NoError(t, err)
	assert.Equal(t, CCACHE, f)
}

func TestResolveOutputFormatFallsBackToOppositeOfSource(t *testing.T) {
	src := KRB
	f, err := ResolveOutputFormat(nil, "out.bin", &src)
	require.NoError(t, err)
	assert.Equal(t, CCACHE, f)
}
