package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindDatabase
)

// Error is the application error type. It carries a kind, a message and the
// original cause, so callers can branch with errors.Is/As while keeping the
// underlying failure for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.kindString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.kindString(), e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) kindString() string {
	switch e.Kind {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindDatabase:
		return "DatabaseError"
	default:
		return "UnknownError"
	}
}

// NewValidationError reports a malformed flow, section, question or answer.
func NewValidationError(msg string, err error) error {
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

// NewNotFoundError reports a referenced entity that does not exist.
func NewNotFoundError(msg string, err error) error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

// NewDatabaseError wraps a persistence failure, keeping the original cause.
func NewDatabaseError(msg string, err error) error {
	return &Error{Kind: KindDatabase, Message: msg, Err: err}
}

func is(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsDatabase checks if an error is a database error.
func IsDatabase(err error) bool { return is(err, KindDatabase) }
