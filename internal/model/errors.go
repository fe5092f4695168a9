package model

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateOrder    = errors.New("order already exists")
	ErrHashMismatch      = errors.New("secret does not match hash lock")
	ErrIllegalTransition = errors.New("illegal order state transition")
	ErrNotReady          = errors.New("escrows not ready")
)

// ValidationError rejects an order before any state is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransientError marks a chain-adapter fault that should be retried rather
// than surfaced as an order failure.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient adapter error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
