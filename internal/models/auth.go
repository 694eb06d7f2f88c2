package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
