package orders

import (
	"context"

	"Bookstore_API/internal/models"
)

// OrderService defines the interface for checkout and order management
// External packages should use this interface, not the concrete implementations
type OrderService interface {
	Checkout(ctx context.Context, userID string, request models.CheckoutRequest) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string, params models.ListParams) (*models.Page[models.Order], error)
	GetOrder(ctx context.Context, id, ownerID string) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}
