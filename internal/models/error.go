package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Credential verification outcomes. Handlers must collapse both into
	// ErrUnauthorized before anything reaches the client.
	ErrUnknownIdentity    = errors.New("identity unknown")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)

// LockoutError reports a login refused because the submitted identity is
// temporarily locked.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("too many failed login attempts, retry after %s", e.RetryAfter)
}

func (e *LockoutError) Unwrap() error {
	return ErrRateLimitExceeded
}
