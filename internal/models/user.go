package models

import (
	"time"
)

// User is a service account. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Username     string
	Email        string // optional
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	IsActive *bool
}
