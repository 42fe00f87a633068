package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
)

var _ Vault = (*MemoryVault)(nil)
var _ Vault = (*FileVault)(nil)
var _ Vault = EmptyVault{}

func sampleCred(t *testing.T) credtypes.TicketCred {
	t.Helper()
	return credtypes.TicketCred{
		Ticket: messages.Ticket{
			TktVNO:  5,
			Realm:   "DOMAIN.COM",
			SName:   types.PrincipalName{NameType: 2, NameString: []string{"krbtgt", "DOMAIN.COM"}},
			EncPart: types.EncryptedData{EType: 18, Cipher: []byte("opaque")},
		},
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
	}
}

func TestMemoryVaultGetUserTGTs(t *testing.T) {
	v := NewMemoryVault("scratch")
	require.NoError(t, v.Add(sampleCred(t)))

	tgts, err := v.GetUserTGTs(types.PrincipalName{NameType: 1, NameString: []string{"alice"}}, "DOMAIN.COM")
	require.NoError(t, err)
	assert.Len(t, tgts, 1)
}

func TestMemoryVaultDumpDoesNotAliasInternalSlice(t *testing.T) {
	v := NewMemoryVault("scratch")
	require.NoError(t, v.Add(sampleCred(t)))

	dumped, err := v.Dump()
	require.NoError(t, err)
	dumped[0].CredInfo.PName.NameString[0] = "mutated"

	dumpedAgain, err := v.Dump()
	require.NoError(t, err)
	assert.Equal(t, "alice", dumpedAgain[0].CredInfo.PName.NameString[0])
}

func TestEmptyVaultDiscardsEverything(t *testing.T) {
	v := NewEmptyVault()
	require.NoError(t, v.Add(sampleCred(t)))

	dumped, err := v.Dump()
	require.NoError(t, err)
	assert.Empty(t, dumped)
}

func TestFileVaultChangeFormatIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.krb")
	v := NewFileVault(path)
	require.NoError(t, v.Save(credtypes.TicketCreds{sampleCred(t)}))

	require.NoError(t, v.ChangeFormat(formatcodec.CCACHE))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, v.ChangeFormat(formatcodec.CCACHE))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFileVaultFormatFromExtension(t *testing.T) {
	v := NewFileVault("/tmp/x.ccache")
	f, ok := v.SupportedFormat()
	require.True(t, ok)
	assert.Equal(t, formatcodec.CCACHE, f)
}
