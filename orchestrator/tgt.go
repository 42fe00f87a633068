package orchestrator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/messageforge"
	"github.com/sprout-sec/kerbeus-go/requester"
)

// getUserTGT is the cache-or-request logic every ask-* flow that needs a
// TGT funnels through: consult the vault first, and only fall back to a
// fresh AS exchange (which requires key) when nothing usable is cached.
func (o *Orchestrator) getUserTGT(ctx context.Context, user krbuser.KrbUser, key krbuser.Key) (credtypes.TicketCred, error) {
	if o.Vault != nil {
		cached, err := o.Vault.GetUserTGTs(messageforge.NTPrincipal(user.Name()), user.Realm())
		if err == nil {
			for _, c := range cached {
				if c.IsValidAt(timeNow()) {
					logrus.WithField("user", user.String()).Debug("using cached TGT")
					return c, nil
				}
			}
		}
	}

	if key == nil {
		return credtypes.TicketCred{}, errs.NewStringError("credentials required: no cached TGT for %s@%s and no key supplied", user.Name(), user.Realm())
	}

	logrus.WithField("user", user.String()).Info("requesting TGT")
	tgt, err := requester.RequestTGT(ctx, o.Comm, user, key, preferredEtype(o.etypes()))
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	if o.Vault != nil {
		if err := o.Vault.Add(tgt); err != nil {
			return credtypes.TicketCred{}, err
		}
	}

	return tgt, nil
}

func preferredEtype(etypes []int32) int32 {
	if len(etypes) == 0 {
		return 0
	}
	return etypes[0]
}

// timeNow is a seam so tests can't be flaky around a TGT expiring mid-run;
// production always wants wall-clock time.
var timeNow = time.Now
