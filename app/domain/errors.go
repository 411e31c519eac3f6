package domain

import "errors"

// Authentication and session errors
var (
	// Credential errors
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user inactive")

	// Authorization errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInsufficientRole = errors.New("insufficient role")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidUserRole = errors.New("invalid user role")
	ErrPasswordTooWeak = errors.New("password too weak")

	// General errors
	ErrInternal = errors.New("internal error")
	ErrConflict = errors.New("resource conflict")
)

// IsAuthenticationError reports whether err belongs to the class of failures
// that must collapse to a single generic rejection at the wire boundary.
// Revealing which validation step failed would hand an attacker an oracle.
func IsAuthenticationError(err error) bool {
	for _, target := range []error{
		ErrMalformedToken,
		ErrInvalidSignature,
		ErrTokenExpired,
		ErrTokenRevoked,
		ErrUserNotFound,
		ErrUserInactive,
		ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
