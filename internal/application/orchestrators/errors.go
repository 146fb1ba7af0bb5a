package orchestrators

import (
	"errors"

	"auragym/internal/domain/account"
)

// ValidationError names the first input field that failed validation.
type ValidationError = account.ValidationError

// Errors returned by the auth and member flows. Handlers map them to status codes.
var (
	ErrValidationFailed   = account.ErrInvalid
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidAdminCode   = errors.New("invalid admin access code")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("session is missing or expired")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrHashFailed         = errors.New("password hashing failed")
	ErrNotFound           = errors.New("record not found")
)
