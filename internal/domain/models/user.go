package models

import (
	"context"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID      `json:"id"`
	AccountID    uuid.UUID      `json:"account_id"`
	FullName     string         `json:"full_name"`
	Email        string         `json:"email"`
	Role         types.UserRole `json:"role"`
	passwordHash string
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
}

// HasRole reports whether the user's role is one of the given roles.
func (u *User) HasRole(roles ...types.UserRole) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

var anonymousUser = &User{}

// AnonymousUser represents a request without a valid session.
func AnonymousUser() *User {
	return anonymousUser
}

func (u *User) IsAnonymous() bool {
	return u == anonymousUser
}

type userCtxKey struct{}

// WithUser stores the authenticated user in the request context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the user stored by the auth middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
