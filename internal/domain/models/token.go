package models

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

func IsValidTokenType(t string) bool {
	return TokenType(t) == AccessToken || TokenType(t) == RefreshToken
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// CustomClaims is the decoded JWT payload this service cares about.
type CustomClaims struct {
	TokenID   uuid.UUID
	UserID    uuid.UUID
	Email     string
	Role      string
	TokenType TokenType
	ExpiresAt time.Time
}

// RefreshTokenRecord is the server-side state of an issued refresh token.
// Only the hash of the token is stored.
type RefreshTokenRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
