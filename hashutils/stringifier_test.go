package hashutils

import (
	"strings"
	"testing"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/krbuser"
)

func TestASRepCrackStringShape(t *testing.T) {
	enc := types.EncryptedData{EType: 23, Cipher: make([]byte, 40)}
	s := ASRepCrackString("alice", "DOMAIN.COM", enc, Hashcat)

	assert.True(t, strings.HasPrefix(s, "$krb5asrep$23$alice@DOMAIN.COM:"))
	assert.Equal(t, 4, strings.Count(s, "$"))
}

func TestTGSCrackStringShape(t *testing.T) {
	ticket := messages.Ticket{EncPart: types.EncryptedData{EType: 23, Cipher: make([]byte, 40)}}
	s := TGSCrackString("alice", "DOMAIN.COM", "cifs/host.domain.com", ticket, Hashcat)

	assert.True(t, strings.HasPrefix(s, "$krb5tgs$23$*alice$DOMAIN.COM$cifs/host.domain.com*$"))
}

func TestSplitCipherShortInputDoesNotPanic(t *testing.T) {
	head, tail := splitCipher([]byte{1, 2, 3})
	assert.Equal(t, "010203", head)
	assert.Empty(t, tail)
}

func TestDeriveKeyHexDeterministic(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")

	h1, err := DeriveKeyHex(krbuser.SecretKey{Password: "Password1"}, user, 18, nil)
	require.NoError(t, err)
	h2, err := DeriveKeyHex(krbuser.SecretKey{Password: "Password1"}, user, 18, nil)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // AES256 key is 32 bytes, hex-doubled
}
