package wallet

import (
	"errors"
	"fmt"
)

// Kind classifies a wallet operation failure.
type Kind int

const (
	// KindValidation - malformed or missing request fields, rejected before
	// any provider call
	KindValidation Kind = iota + 1
	// KindNotFound - no local seed present when one is required
	KindNotFound
	// KindDecryption - seed present but unreadable with the held passphrase
	KindDecryption
	// KindStorage - local seed file I/O failure
	KindStorage
	// KindProvider - the wallet platform rejected or failed a call
	KindProvider
)

// Code returns the stable machine-readable code surfaced in API responses.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "wallet_not_found"
	case KindDecryption:
		return "decryption_error"
	case KindStorage:
		return "storage_error"
	case KindProvider:
		return "provider_error"
	default:
		return "operation_error"
	}
}

// Error is the typed failure every manager operation returns. Op names the
// failed operation, Err carries the original cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err, or 0 when err is not a wallet
// error.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return 0
}

func newError(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}
