package dashboard

import (
	"context"

	"Bookstore_API/internal/models"
)

// DashboardService defines the interface for the admin overview
// External packages should use this interface, not the concrete implementations
type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}
