package users

import (
	"context"

	"Bookstore_API/internal/models"
)

// UserService defines the interface for admin user management
// External packages should use this interface, not the concrete implementations
type UserService interface {
	ListUsers(ctx context.Context, params models.ListParams) (*models.Page[models.User], error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
}
