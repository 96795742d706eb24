// Package domainerrors provides coded errors for domain and service layers.
//
// Services translate infrastructure sentinels (pkg/platform/sentinel) into
// these coded errors at their boundary; transports translate codes into
// status codes and user-safe messages. The code, not the message, is the
// contract.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for boundary translation.
type Code string

const (
	// CodeValidation marks user-correctable input problems (malformed email,
	// empty fields). Maps to a 400-style rejection.
	CodeValidation Code = "validation"

	// CodeInvalidInput marks malformed primitives (IDs, roles) rejected at a
	// trust boundary before any business logic runs.
	CodeInvalidInput Code = "invalid_input"

	// CodeConflict marks uniqueness violations such as a duplicate identity.
	CodeConflict Code = "conflict"

	// CodeNotFound marks a missing entity. Authentication paths must not
	// surface this distinctly from CodeInvalidCredentials to callers.
	CodeNotFound Code = "not_found"

	// CodeInvalidCredentials marks a failed primary-credential check. The
	// transport renders one generic message for both unknown identities and
	// wrong passwords.
	CodeInvalidCredentials Code = "invalid_credentials"

	// CodeSecondFactorMismatch marks a wrong one-time code. Retryable.
	CodeSecondFactorMismatch Code = "second_factor_mismatch"

	// CodeUnauthorized marks a request without a valid authenticated session.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks a policy denial for an authenticated identity.
	CodeForbidden Code = "forbidden"

	// CodeCryptoUnavailable marks a randomness or primitive failure. Fatal to
	// the attempted operation; never downgraded to a weaker substitute.
	CodeCryptoUnavailable Code = "crypto_unavailable"

	// CodeIntegrityViolation marks tampered or undecryptable content. Always
	// surfaced as a visible failure, never as blank content.
	CodeIntegrityViolation Code = "integrity_violation"

	// CodeInvariantViolation marks a broken aggregate invariant (illegal
	// status transition and the like).
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks unexpected failures. Descriptions are never shown to
	// callers.
	CodeInternal Code = "internal_error"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var coded *Error
		if !errors.As(err, &coded) {
			return false
		}
		if coded.Code == code {
			return true
		}
		err = coded.cause
	}
	return false
}

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// is not coded.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost coded message, or an empty string.
func MessageOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return ""
}
