package messageforge

import (
	"testing"

	"github.com/jcmturner/gokrb5/v8/iana/nametype"
	"github.com/stretchr/testify/assert"
)

func TestNTPrincipal(t *testing.T) {
	p := NTPrincipal("alice")
	assert.Equal(t, int32(nametype.KRB_NT_PRINCIPAL), p.NameType)
	assert.Equal(t, []string{"alice"}, p.NameString)
}

func TestNTSrvInstSplitsOnSlash(t *testing.T) {
	p := NTSrvInst("cifs/host.domain.com")
	assert.Equal(t, int32(nametype.KRB_NT_SRV_INST), p.NameType)
	assert.Equal(t, []string{"cifs", "host.domain.com"}, p.NameString)
}

func TestNTEnterpriseSingleLabel(t *testing.T) {
	p := NTEnterprise("alice", "DOMAIN.COM")
	assert.Equal(t, int32(nametype.KRB_NT_ENTERPRISE), p.NameType)
	assert.Equal(t, []string{"alice@DOMAIN.COM"}, p.NameString)
}
