package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// One or both of email/password absent from a credentials attempt.
func ErrMissingCredentials() *Error {
	return New(KindValidation, "missing_credentials", "missing credentials")
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for every login failure cause (unknown email, wrong
// password, OAuth-only account) so the caller cannot enumerate users.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrSessionMissing() *Error {
	return New(KindAuth, "session_missing", "no session token provided")
}

func ErrSessionInvalid() *Error {
	return New(KindAuth, "session_invalid", "invalid session token")
}

func ErrSessionExpired() *Error {
	return New(KindAuth, "session_expired", "session is expired")
}

func ErrOAuthStateInvalid() *Error {
	return New(KindAuth, "oauth_state_invalid", "invalid or expired oauth state")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
