package auth

import (
	"context"
)

// Identity is the caller resolved from a bearer token
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the caller holds the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

// Service defines the interface for token authentication
// External packages should use this interface, not the concrete implementations
type Service interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// RoleStore resolves the stored role of a user profile
type RoleStore interface {
	GetRole(ctx context.Context, userID string) (string, error)
}
