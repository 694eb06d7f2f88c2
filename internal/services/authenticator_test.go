package services

import (
	"context"
	"testing"

	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/BradenHooton/loginlab/internal/repositories"
	pkgauth "github.com/BradenHooton/loginlab/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSeededAuthenticator(t *testing.T, active bool) *PasswordAuthenticator {
	t.Helper()
	hasher := pkgauth.NewHasher(bcrypt.MinCost)
	repo := repositories.NewUserRepository()

	hash, err := hasher.Hash("123456")
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &models.User{
		Username:     "tester_brute",
		PasswordHash: hash,
		IsActive:     active,
	})
	require.NoError(t, err)

	authenticator, err := NewPasswordAuthenticator(repo, hasher)
	require.NoError(t, err)
	return authenticator
}

func TestPasswordAuthenticator_Success(t *testing.T) {
	a := newSeededAuthenticator(t, true)

	user, err := a.Authenticate(context.Background(), "tester_brute", "123456")

	require.NoError(t, err)
	assert.Equal(t, "tester_brute", user.Username)
}

func TestPasswordAuthenticator_Failures(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		username string
		password string
		want     error
	}{
		{"wrong password", true, "tester_brute", "password", models.ErrInvalidCredentials},
		{"unknown user", true, "nobody", "123456", models.ErrUnknownIdentity},
		{"username is case sensitive", true, "Tester_Brute", "123456", models.ErrUnknownIdentity},
		{"inactive with right password", false, "tester_brute", "123456", models.ErrAccountDisabled},
		{"inactive with wrong password", false, "tester_brute", "nope", models.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newSeededAuthenticator(t, tt.active)

			user, err := a.Authenticate(context.Background(), tt.username, tt.password)

			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, isCredentialFailure(err))
		})
	}
}

func TestPasswordAuthenticator_StoreError(t *testing.T) {
	a, err := NewPasswordAuthenticator(&MockUserRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, assert.AnError
		},
	}, pkgauth.NewHasher(bcrypt.MinCost))
	require.NoError(t, err)

	_, err = a.Authenticate(context.Background(), "alice", "secret")

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, isCredentialFailure(err))
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "unknown_identity", failureReason(models.ErrUnknownIdentity))
	assert.Equal(t, "account_disabled", failureReason(models.ErrAccountDisabled))
	assert.Equal(t, "invalid_credentials", failureReason(models.ErrInvalidCredentials))
}
