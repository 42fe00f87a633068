package krbuser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jcmturner/gokrb5/v8/iana/etypeID"
	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestKeytab builds a one-entry keytab at kvno for principal/realm and
// returns its path, grounded on the same keytab.New/AddEntry/Marshal
// construction a real keytab tool uses.
func writeTestKeytab(t *testing.T, principal, realm string, kvno uint8, etype int32) string {
	t.Helper()

	kt := keytab.New()
	require.NoError(t, kt.AddEntry(principal, realm, "test-password", time.Now(), kvno, etype))

	data, err := kt.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.keytab")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestKeyFromKeytabReturnsMatchingEtype(t *testing.T) {
	path := writeTestKeytab(t, "nfs/server.example.com", "EXAMPLE.COM", 1, etypeID.RC4_HMAC)

	key, err := KeyFromKeytab(path, NewKrbUser("nfs/server.example.com", "EXAMPLE.COM"), 1)
	require.NoError(t, err)

	rc4, ok := key.(Rc4Key)
	require.True(t, ok, "expected Rc4Key, got %T", key)
	assert.NotZero(t, rc4.Value)
	assert.Equal(t, []int32{etypeID.RC4_HMAC}, key.EtypeIDs())
}

func TestKeyFromKeytabPrefersStrongerEtypeWhenPresent(t *testing.T) {
	// The keytab holds both an RC4 and an AES256 entry for the same
	// principal and kvno; the RC4 entry comes first in the file.
	kt := keytab.New()
	require.NoError(t, kt.AddEntry("host/dc01.example.com", "EXAMPLE.COM", "test-password", time.Now(), 2, etypeID.RC4_HMAC))
	require.NoError(t, kt.AddEntry("host/dc01.example.com", "EXAMPLE.COM", "test-password", time.Now(), 2, etypeID.AES256_CTS_HMAC_SHA1_96))
	data, err := kt.Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "test.keytab")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	key, err := KeyFromKeytab(path, NewKrbUser("host/dc01.example.com", "EXAMPLE.COM"), 2)
	require.NoError(t, err)

	_, ok := key.(Aes256Key)
	assert.True(t, ok, "expected Aes256Key, got %T", key)
}

func TestKeyFromKeytabWrongKvnoFails(t *testing.T) {
	path := writeTestKeytab(t, "nfs/server.example.com", "EXAMPLE.COM", 1, etypeID.RC4_HMAC)

	_, err := KeyFromKeytab(path, NewKrbUser("nfs/server.example.com", "EXAMPLE.COM"), 9)
	assert.Error(t, err)
}

func TestKeyFromKeytabMissingFileFails(t *testing.T) {
	_, err := KeyFromKeytab(filepath.Join(t.TempDir(), "missing.keytab"), NewKrbUser("alice", "DOMAIN.COM"), 1)
	assert.Error(t, err)
}
