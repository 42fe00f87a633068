package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	e := NewNetworkError("dial", cause)

	assert.Contains(t, e.Error(), "dial")
	assert.ErrorIs(t, e, cause)
}

func TestCryptoErrorUnwrap(t *testing.T) {
	cause := errors.New("mac mismatch")
	e := NewCryptoError("decrypt", cause)

	assert.Contains(t, e.Error(), "decrypt")
	assert.ErrorIs(t, e, cause)
}

func TestKrbErrorMessage(t *testing.T) {
	e := &KrbError{Code: 24, Text: "KDC_ERR_PREAUTH_FAILED", Realm: "DOMAIN.COM"}
	assert.Contains(t, e.Error(), "24")
	assert.Contains(t, e.Error(), "DOMAIN.COM")
}

func TestStringError(t *testing.T) {
	e := NewStringError("empty %s", "user")
	assert.Equal(t, "kerbeus: empty user", e.Error())
}

func TestAsKind(t *testing.T) {
	var err error = NewDataError("parse ccache", errors.New("short header"))

	var de *DataError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "parse ccache", de.Op)
}
