package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/vault"
)

func makeTGT(user krbuser.KrbUser, start, end time.Time) credtypes.TicketCred {
	cname := messageforge.NTPrincipal(user.Name())
	sname := messageforge.NTSrvInst(credtypes.KrbtgtLabel + "/" + user.Realm())
	return credtypes.TicketCred{
		Ticket: messages.Ticket{Realm: user.Realm(), SName: sname},
		CredInfo: types.KrbCredInfo{
			PName:     cname,
			PRealm:    user.Realm(),
			SName:     sname,
			SRealm:    user.Realm(),
			StartTime: start,
			EndTime:   end,
		},
	}
}

func TestGetUserTGTReturnsCachedWhenValid(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")
	v := vault.NewMemoryVault("t")
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tgt := makeTGT(user, now.Add(-time.Hour), now.Add(9*time.Hour))
	require.NoError(t, v.Add(tgt))

	restore := timeNow
	timeNow = func() time.Time { return now }
	defer func() { timeNow = restore }()

	o := New(nil, v)
	got, err := o.getUserTGT(context.Background(), user, nil)
	require.NoError(t, err)
	assert.Equal(t, tgt, got)
}

func TestGetUserTGTRejectsExpiredCacheAndRequiresKey(t *testing.T) {
	user := krbuser.NewKrbUser("alice", "DOMAIN.COM")
	v := vault.NewMemoryVault("t")
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	expired := makeTGT(user, now.Add(-10*time.Hour), now.Add(-time.Hour))
	require.NoError(t, v.Add(expired))

	restore := timeNow
	timeNow = func() time.Time { return now }
	defer func() { timeNow = restore }()

	o := New(nil, v)
	_, err := o.getUserTGT(context.Background(), user, nil)
	require.Error(t, err)
	assert.IsType(t, &errs.StringError{}, err)
}

func TestGetUserTGTIgnoresOtherUsersCachedTickets(t *testing.T) {
	v := vault.NewMemoryVault("t")
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	other := makeTGT(krbuser.NewKrbUser("bob", "DOMAIN.COM"), now.Add(-time.Hour), now.Add(9*time.Hour))
	require.NoError(t, v.Add(other))

	restore := timeNow
	timeNow = func() time.Time { return now }
	defer func() { timeNow = restore }()

	o := New(nil, v)
	_, err := o.getUserTGT(context.Background(), krbuser.NewKrbUser("alice", "DOMAIN.COM"), nil)
	require.Error(t, err)
}
