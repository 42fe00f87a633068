package requester

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprout-sec/kerbeus-go/messageforge"
)

func TestSelfServiceNameDefaultsToNtEnterprise(t *testing.T) {
	cname := messageforge.NTPrincipal("alice")
	sname := selfServiceName(cname, "DOMAIN.COM", "")
	assert.Equal(t, messageforge.NTEnterprise("alice", "DOMAIN.COM"), sname)
}

func TestSelfServiceNameHonoursOverride(t *testing.T) {
	cname := messageforge.NTPrincipal("alice")
	sname := selfServiceName(cname, "DOMAIN.COM", "cifs/host.domain.com")
	assert.Equal(t, []string{"cifs", "host.domain.com"}, sname.NameString)
}
