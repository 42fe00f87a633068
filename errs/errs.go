// Package errs defines the error kinds shared by every component of
// kerbeus-go. Each kind is a concrete type implementing error so callers can
// branch on kind with errors.As instead of string matching.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// NetworkError wraps a transport failure: connect timeout, connection
// refused/reset, or a truncated read. The core never retries these.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("kerbeus: network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError wraps err with the operation that failed.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: errors.WithStack(err)}
}

// KrbError wraps a KRB-ERROR PDU returned by a KDC. It carries the numeric
// error code from RFC 4120 §7.5.9 plus the raw e-data, if any.
type KrbError struct {
	Code    int32
	Text    string
	Realm   string
	EData   []byte
	RawText string // KDC-supplied e-text, if present
}

func (e *KrbError) Error() string {
	if e.RawText != "" {
		return fmt.Sprintf("kerbeus: KRB-ERROR %d (%s) from %s: %s", e.Code, e.Text, e.Realm, e.RawText)
	}
	return fmt.Sprintf("kerbeus: KRB-ERROR %d (%s) from %s", e.Code, e.Text, e.Realm)
}

// CryptoError wraps a decryption or checksum validation failure: MAC
// mismatch, wrong key, or malformed ciphertext.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("kerbeus: crypto error during %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: errors.WithStack(err)}
}

// DataError wraps a parse/encode failure for ASN.1, ccache, or SID data.
type DataError struct {
	Op  string
	Err error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("kerbeus: data error during %s: %v", e.Op, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

func NewDataError(op string, err error) *DataError {
	return &DataError{Op: op, Err: errors.WithStack(err)}
}

// StringError wraps a domain input validation failure: a malformed
// kerberoast service line, an empty user/domain, or an unknown etype.
type StringError struct {
	Msg string
}

func (e *StringError) Error() string {
	return "kerbeus: " + e.Msg
}

func NewStringError(format string, a ...interface{}) *StringError {
	return &StringError{Msg: fmt.Sprintf(format, a...)}
}
