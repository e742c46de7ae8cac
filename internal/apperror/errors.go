package apperror

import (
	"errors"
	"fmt"
)

// Kind groups errors so the HTTP layer can map them to status codes.
type Kind string

const (
	KindValidation         Kind = "validation"          // 400
	KindInvalidCredentials Kind = "invalid_credentials" // 401
	KindInvalidToken       Kind = "invalid_token"       // 400/401
	KindAccountDisabled    Kind = "account_disabled"    // 403
	KindNotFound           Kind = "not_found"           // 404
	KindConflict           Kind = "conflict"            // 409
	KindRateLimited        Kind = "rate_limited"        // 429
	KindInternal           Kind = "internal"            // 500
)

// Error is the typed error returned by the usecase layer.
//   - Message is safe to show to clients
//   - Fields carries field-level problems (validation, conflict)
//   - Cause is for logs only
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind Kind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

// As extracts *Error from err.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// ==================== VALIDATION ====================

func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "validation_failed",
		Message: "validation failed",
		Fields:  fields,
	}
}

// ==================== AUTH ====================

// InvalidCredentials is shared by unknown-email and wrong-password paths.
func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "invalid_credentials", "invalid email or password")
}

func InvalidOldPassword() *Error {
	return New(KindInvalidCredentials, "invalid_old_password", "invalid old password")
}

func AccountDisabled() *Error {
	return New(KindAccountDisabled, "account_disabled", "user account is disabled")
}

func InvalidToken() *Error {
	return New(KindInvalidToken, "invalid_token", "invalid token")
}

func TooManyAttempts() *Error {
	return New(KindRateLimited, "too_many_attempts", "too many failed attempts, try again later")
}

// ==================== STORE ====================

func AccountNotFound() *Error {
	return New(KindNotFound, "account_not_found", "account not found")
}

// EmailTaken carries every other field problem found in the same request.
func EmailTaken(fields map[string]string) *Error {
	merged := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["email"] = "An account with this email already exists"
	return &Error{
		Kind:    KindConflict,
		Code:    "email_taken",
		Message: "email already registered",
		Fields:  merged,
	}
}

func Internal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal server error", cause)
}
