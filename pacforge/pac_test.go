package pacforge

import (
	"testing"
	"time"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/krbuser"
)

func krbtgtCipher(t *testing.T) *cipher.Cipher {
	t.Helper()
	c, err := cipher.DeriveCipher(krbuser.Rc4Key{}, krbuser.NewKrbUser("krbtgt", "DOMAIN.COM"), 0, nil)
	require.NoError(t, err)
	return c
}

func TestCraftIsDeterministic(t *testing.T) {
	domainSID, err := ParseSID("S-1-5-21-111111-222222-333333")
	require.NoError(t, err)

	info := LogonInfo{
		EffectiveName: "Administrator",
		LogonDomain:   "DOMAIN",
		UserID:        500,
		DomainSID:     domainSID,
		GroupIDs:      []GroupMembership{{RelativeID: 512, Attributes: DefaultGroupAttributes}},
		LogonTime:     fileTimeFromTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	c := krbtgtCipher(t)

	pac1, err := Craft(info, "Administrator", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), c)
	require.NoError(t, err)
	pac2, err := Craft(info, "Administrator", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), c)
	require.NoError(t, err)

	assert.Equal(t, pac1, pac2, "PAC signing must be a pure function of its inputs")
}

func TestCraftDefaultsPrimaryGroupAndUAC(t *testing.T) {
	info := LogonInfo{UserID: 500}.normalize()
	assert.Equal(t, PrimaryGroupDomainUsers, info.GroupID)
	assert.Equal(t, UserNormalAccount|UserDontExpirePassword, info.UserAccountControl)
	assert.Equal(t, NeverExpiresFileTime, info.LogoffTime)
	assert.Equal(t, NeverExpiresFileTime, info.KickOffTime)
	assert.Equal(t, NeverExpiresFileTime, info.PasswordMustChange)
	assert.Equal(t, NotSetFileTime, info.PasswordCanChange)
}

func TestChecksumTypeForEtype(t *testing.T) {
	assert.EqualValues(t, -138, ChecksumTypeForEtype(etypeID.RC4_HMAC))
	assert.EqualValues(t, 16, ChecksumTypeForEtype(etypeID.AES256_CTS_HMAC_SHA1_96))
	assert.EqualValues(t, 15, ChecksumTypeForEtype(etypeID.AES128_CTS_HMAC_SHA1_96))
}

func TestSerializePACPlacesFourBuffers(t *testing.T) {
	buffers := []infoBuffer{
		{ULType: ulTypeLogonInfo, Data: []byte{1, 2, 3}},
		{ULType: ulTypeClientNameTicket, Data: []byte{4, 5}},
		{ULType: ulTypeServerChecksum, Data: []byte{6}},
		{ULType: ulTypePrivSvrChecksum, Data: []byte{7}},
	}
	out := serializePAC(buffers)
	assert.Greater(t, len(out), 8+16*4)
}
