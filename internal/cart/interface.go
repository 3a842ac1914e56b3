package cart

import (
	"context"

	"Bookstore_API/internal/models"
)

// CartService defines the interface for shopping cart operations
// External packages should use this interface, not the concrete implementations
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, input models.CartItemInput) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID, bookID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, bookID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) (*models.Cart, error)
}
