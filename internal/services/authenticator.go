package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/BradenHooton/loginlab/internal/models"
	pkgauth "github.com/BradenHooton/loginlab/pkg/auth"
)

// Authenticator verifies a username/password pair.
//
// It returns models.ErrUnknownIdentity when no account matches,
// models.ErrInvalidCredentials when the password is wrong and
// models.ErrAccountDisabled for an inactive account. Any other error is an
// infrastructure failure, not a credential failure.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// CredentialStore is the lookup PasswordAuthenticator needs
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// PasswordAuthenticator checks passwords against bcrypt hashes in a CredentialStore
type PasswordAuthenticator struct {
	store     CredentialStore
	hasher    *pkgauth.Hasher
	dummyHash string
}

// NewPasswordAuthenticator creates a PasswordAuthenticator. A throwaway hash
// at the hasher's cost is computed up front so unknown usernames cost one
// bcrypt comparison, the same as a wrong password.
func NewPasswordAuthenticator(store CredentialStore, hasher *pkgauth.Hasher) (*PasswordAuthenticator, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate dummy password: %w", err)
	}

	dummyHash, err := hasher.Hash(hex.EncodeToString(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to build dummy hash: %w", err)
	}

	return &PasswordAuthenticator{
		store:     store,
		hasher:    hasher,
		dummyHash: dummyHash,
	}, nil
}

// Authenticate implements Authenticator
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = a.hasher.Compare(a.dummyHash, password)
			return nil, models.ErrUnknownIdentity
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	// Checked after the password so a disabled account is indistinguishable
	// from a wrong password to anyone without the secret.
	if !user.IsActive {
		return nil, models.ErrAccountDisabled
	}

	return user, nil
}

// isCredentialFailure reports whether err came from bad credentials rather
// than from infrastructure
func isCredentialFailure(err error) bool {
	return errors.Is(err, models.ErrUnknownIdentity) ||
		errors.Is(err, models.ErrInvalidCredentials) ||
		errors.Is(err, models.ErrAccountDisabled)
}

// failureReason is the audit label for a credential failure
func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrUnknownIdentity):
		return "unknown_identity"
	case errors.Is(err, models.ErrAccountDisabled):
		return "account_disabled"
	default:
		return "invalid_credentials"
	}
}
