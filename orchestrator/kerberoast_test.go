package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKerberoastServiceForms(t *testing.T) {
	cases := []struct {
		line       string
		wantName   string
		wantRealm  string
		wantSPN    string
	}{
		{"alice", "alice", "DOMAIN.COM", ""},
		{"CORP/alice", "alice", "CORP", ""},
		{`CORP\alice`, "alice", "CORP", ""},
		{"alice:cifs/host.domain.com", "alice", "DOMAIN.COM", "cifs/host.domain.com"},
		{"CORP/alice:cifs/host.domain.com", "alice", "CORP", "cifs/host.domain.com"},
	}

	for _, c := range cases {
		t.Run(c.line, func(t *testing.T) {
			user, spn, err := ParseKerberoastService(c.line, "DOMAIN.COM")
			require.NoError(t, err)
			assert.Equal(t, c.wantName, user.Name())
			assert.Equal(t, c.wantRealm, user.Realm())
			assert.Equal(t, c.wantSPN, spn)
		})
	}
}

func TestParseKerberoastServiceRejectsMalformed(t *testing.T) {
	badLines := []string{"", "/alice", "CORP/", "a/b/c", ":cifs/host"}
	for _, line := range badLines {
		t.Run(line, func(t *testing.T) {
			_, _, err := ParseKerberoastService(line, "DOMAIN.COM")
			assert.Error(t, err)
		})
	}
}

func TestParseKerberoastServicesAccumulatesErrors(t *testing.T) {
	services, errs := ParseKerberoastServices([]string{"alice", "", "CORP/bob:ldap/dc.corp.com"}, "DOMAIN.COM")
	require.Len(t, errs, 1)
	require.Len(t, services, 2)
	assert.Equal(t, "alice", services[0].user.Name())
	assert.Equal(t, "bob", services[1].user.Name())
	assert.Equal(t, "ldap/dc.corp.com", services[1].spn)
}
