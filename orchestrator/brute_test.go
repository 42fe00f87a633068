package orchestrator

import (
	"errors"
	"testing"

	"github.com/jcmturner/gokrb5/v8/iana/errorcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sec/kerbeus-go/errs"
)

func TestClassifyBruteAttemptValidPair(t *testing.T) {
	res, err := classifyBruteAttempt("alice", "Password1", nil)
	require.NoError(t, err)
	assert.Equal(t, BruteResult{Outcome: ValidPair, Username: "alice", Password: "Password1"}, res)
}

func TestClassifyBruteAttemptFourOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		code    int32
		outcome BruteOutcome
		keepsPW bool
	}{
		{"unknown user", errorcode.KDC_ERR_C_PRINCIPAL_UNKNOWN, InvalidUser, false},
		{"wrong password", errorcode.KDC_ERR_PREAUTH_FAILED, ValidUser, false},
		{"expired password", errorcode.KDC_ERR_KEY_EXPIRED, ExpiredPassword, true},
		{"disabled account", errorcode.KDC_ERR_CLIENT_REVOKED, BlockedUser, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kerr := &errs.KrbError{Code: c.code, Text: "x", Realm: "DOMAIN.COM"}
			res, err := classifyBruteAttempt("alice", "Password1", kerr)
			require.NoError(t, err)
			assert.Equal(t, c.outcome, res.Outcome)
			if c.keepsPW {
				assert.Equal(t, "Password1", res.Password)
			} else {
				assert.Empty(t, res.Password)
			}
		})
	}
}

func TestClassifyBruteAttemptUnclassifiedKrbErrorPropagates(t *testing.T) {
	kerr := &errs.KrbError{Code: errorcode.KDC_ERR_POLICY, Text: "x", Realm: "DOMAIN.COM"}
	_, err := classifyBruteAttempt("alice", "Password1", kerr)
	assert.Same(t, kerr, err.(*errs.KrbError))
}

func TestClassifyBruteAttemptNonKrbErrorPropagates(t *testing.T) {
	base := errors.New("network unreachable")
	_, err := classifyBruteAttempt("alice", "Password1", base)
	assert.Equal(t, base, err)
}
