package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application's failure taxonomy.
//
// SENTINELS + errors.Is:
// Each AppError wraps exactly one of these sentinels. Callers never compare
// messages — they ask errors.Is(err, ErrCapacity) and the chain is walked
// via Unwrap(). The HTTP layer maps each sentinel to a status code.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrAuth       = errors.New("authentication failed")
	ErrCapacity   = errors.New("capacity reached")
	ErrConfig     = errors.New("configuration error")
	ErrUpstream   = errors.New("upstream provider error")
)

type AppError struct {
	Err     error  // sentinel identifying the category
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller has no session.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// AuthFailed covers bad credentials on login. The login form re-renders with
// the message rather than signalling a status code.
func AuthFailed(message string) *AppError {
	return &AppError{
		Err:     ErrAuth,
		Message: message,
	}
}

// CapacityReached is returned when the fact catalog is at its configured
// cap. The message is caller-supplied — the manual and generated add paths
// word it differently.
func CapacityReached(message string) *AppError {
	return &AppError{
		Err:     ErrCapacity,
		Message: message,
	}
}

// ConfigMissing flags an absent provider credential. The feature degrades
// with a 500 JSON response; the process keeps running.
func ConfigMissing(message string) *AppError {
	return &AppError{
		Err:     ErrConfig,
		Message: message,
	}
}

// Upstream wraps a transport or parse failure from an external provider.
// The underlying description is kept in the message so JSON endpoints can
// surface it, matching the error envelope contract.
func Upstream(err error) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: fmt.Sprintf("Error: %v", err),
	}
}
