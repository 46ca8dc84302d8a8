package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// MFA workflow failures.
	ErrEmailMismatch     = errors.New("email mismatch")
	ErrCaptchaFailed     = errors.New("captcha failed")
	ErrInvalidCode       = errors.New("invalid code")
	ErrExpired           = errors.New("expired")
	ErrAttemptsExhausted = errors.New("attempts exhausted")
	ErrTooManyPending    = errors.New("too many pending verifications")

	// Submission pipeline failures.
	ErrSessionAlreadyUsed   = errors.New("session already used")
	ErrStorageFailure       = errors.New("storage failure")
	ErrEmailDeliveryFailure = errors.New("email delivery failure")
)

// ValidationError carries the list of field paths that failed form validation.
// Handlers surface the paths in development mode and suppress them in production.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, "; "))
}

// NewValidationError builds a ValidationError from one or more field-path messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
