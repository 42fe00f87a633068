package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/messageforge"
)

func TestReferralTargetDetectsCrossRealmTGT(t *testing.T) {
	cred := credtypes.TicketCred{}
	cred.CredInfo.SName = messageforge.NTSrvInst(credtypes.KrbtgtLabel + "/OTHER.COM")

	realm, ok := referralTarget(cred, "DOMAIN.COM")
	assert.True(t, ok)
	assert.Equal(t, "OTHER.COM", realm)
}

func TestReferralTargetIgnoresSameRealmTGT(t *testing.T) {
	cred := credtypes.TicketCred{}
	cred.CredInfo.SName = messageforge.NTSrvInst(credtypes.KrbtgtLabel + "/DOMAIN.COM")

	_, ok := referralTarget(cred, "DOMAIN.COM")
	assert.False(t, ok)
}

func TestReferralTargetIgnoresSameRealmCaseInsensitively(t *testing.T) {
	cred := credtypes.TicketCred{}
	cred.CredInfo.SName = messageforge.NTSrvInst(credtypes.KrbtgtLabel + "/domain.com")

	_, ok := referralTarget(cred, "DOMAIN.COM")
	assert.False(t, ok)
}

func TestReferralTargetIgnoresNonTGTServiceTickets(t *testing.T) {
	cred := credtypes.TicketCred{}
	cred.CredInfo.SName = messageforge.NTSrvInst("cifs/host.domain.com")

	_, ok := referralTarget(cred, "DOMAIN.COM")
	assert.False(t, ok)
}
