package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		shouldFail bool
	}{
		{name: "minimum length", password: "123456"},
		{name: "typical password", password: "SecureP@ss123"},
		{name: "maximum length", password: string(make([]byte, MaxPasswordLen))},
		{name: "too short", password: "12345", shouldFail: true},
		{name: "empty", password: "", shouldFail: true},
		{name: "too long", password: string(make([]byte, MaxPasswordLen+1)), shouldFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.shouldFail {
				assert.ErrorIs(t, err, ErrInvalidPassword)
				assert.Equal(t, "invalid password", err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	password := "123456"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.NoError(t, hasher.Compare(hash, password))
	assert.Error(t, hasher.Compare(hash, "654321"))
}

func TestHash_SaltsEachCall(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	a, err := hasher.Hash("123456")
	require.NoError(t, err)
	b, err := hasher.Hash("123456")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHash_RejectsEmpty(t *testing.T) {
	_, err := NewHasher(bcrypt.MinCost).Hash("")
	assert.Error(t, err)
}

func TestNewHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewHasher(12).Cost())

	hash, err := NewHasher(bcrypt.MinCost).Hash("123456")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
