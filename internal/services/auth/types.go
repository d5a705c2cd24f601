package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

type AccessClaims struct {
	TokenID   string
	UserID    string
	IsPremium bool
	ExpiresAt time.Time
}
