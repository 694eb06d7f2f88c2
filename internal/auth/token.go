package auth

import (
	"fmt"
	"time"

	"github.com/BradenHooton/loginlab/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

// TokenManager issues and validates HS256 access tokens
type TokenManager struct {
	secret            []byte
	accessTokenExpiry time.Duration
	clock             Clock
}

// NewTokenManager creates a new TokenManager. A nil clock means SystemClock.
func NewTokenManager(secret string, accessExpiry time.Duration, clock Clock) *TokenManager {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TokenManager{
		secret:            []byte(secret),
		accessTokenExpiry: accessExpiry,
		clock:             clock,
	}
}

// GenerateAccessToken creates a short-lived access token with a unique JTI
func (tm *TokenManager) GenerateAccessToken(userID, username string) (string, error) {
	now := tm.clock.Now()

	claims := &models.TokenClaims{
		Type:     accessTokenType,
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies a token and returns its claims
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.clock.Now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.Type != accessTokenType {
		return nil, fmt.Errorf("invalid token type %q", claims.Type)
	}

	return claims, nil
}
