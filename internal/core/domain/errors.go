package domain

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown mobile number and a wrong
	// password. The message is deliberately uniform so callers cannot probe
	// which numbers are registered.
	ErrInvalidCredentials = errors.New("invalid mobile number or password")

	// ErrAccountNotFound signals that the account no longer exists.
	ErrAccountNotFound = errors.New("account not found")

	// ErrMobileNumberTaken signals that the target mobile number is already
	// registered to another account.
	ErrMobileNumberTaken = errors.New("mobile number already registered")

	// ErrInvalidToken signals a missing, malformed, or expired session token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrRateLimited signals the client exceeded a rate-limit policy.
	ErrRateLimited = errors.New("too many requests")
)

// ValidationError carries one human-readable message per failing field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError wraps a non-empty field→message map. Returns nil when
// the map is empty so callers can return the result directly.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
