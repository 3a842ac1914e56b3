package orders

import (
	"context"
	"fmt"
	"time"

	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/cache/entityCache"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"
	"Bookstore_API/internal/store"
)

// Service implements the OrderService interface
type Service struct {
	orders    store.OrderRepository
	cache     *cache.Manager
	cartCache entityCache.Service[*models.Cart]
	logger    logger.Service
}

// NewService creates a new order service
func NewService(
	orders store.OrderRepository,
	cache *cache.Manager,
	cartCache entityCache.Service[*models.Cart],
	logger logger.Service,
) OrderService {
	return &Service{
		orders:    orders,
		cache:     cache,
		cartCache: cartCache,
		logger:    logger,
	}
}

// Checkout turns the user's cart into an order.
//
// A placed order changes order listings, dashboard totals, book stock and the
// cart, so all four are dropped from the cache once the transaction commits.
func (s *Service) Checkout(ctx context.Context, userID string, request models.CheckoutRequest) (*models.Order, error) {
	start := time.Now()

	order, err := s.orders.Checkout(ctx, userID, request.ShippingAddress)
	if err != nil {
		s.logger.LogError(ctx, logger.OpCheckout, userID, "Checkout failed", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	s.invalidate(ctx, cache.FamilyOrders+":*", cache.FamilyDashboard+":*", cache.FamilyBooks+":*")
	if _, err := s.cartCache.Delete(ctx, userID); err != nil {
		s.logger.LogError(ctx, logger.OpCacheInvalidate, "cart:"+userID, "Failed to drop cached cart", err, models.LogSeverityHigh, nil)
	}

	s.logger.LogSuccess(ctx, logger.OpCheckout, order.ID, "Order placed", map[string]interface{}{
		"total":       order.Total,
		"items":       len(order.Items),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return order, nil
}

// ListUserOrders returns one page of the caller's own orders
func (s *Service) ListUserOrders(ctx context.Context, userID string, params models.ListParams) (*models.Page[models.Order], error) {
	filter := models.OrderFilter{ListParams: params, UserID: userID}
	return s.list(ctx, "orders:user", filter)
}

// ListOrders returns one page of all orders
func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", models.ErrInvalidInput, filter.Status)
	}
	return s.list(ctx, "orders:list", filter)
}

// GetOrder returns one order. A non-empty ownerID restricts the lookup to that
// user's orders; someone else's order reads as not found.
func (s *Service) GetOrder(ctx context.Context, id, ownerID string) (*models.Order, error) {
	key := cache.BuildKey("orders:detail", map[string]interface{}{"id": id})

	order, err := cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.Order, error) {
		return s.orders.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	if ownerID != "" && order.UserID != ownerID {
		return nil, models.NewEntityError("order", id, "not found", models.ErrNotFound)
	}
	return order, nil
}

// UpdateStatus moves an order to a new status. Delivered and cancelled orders
// are final.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", models.ErrInvalidInput, status)
	}

	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if isFinal(current.Status) && current.Status != status {
		return nil, models.NewEntityError("order", id,
			fmt.Sprintf("cannot change a %s order", current.Status), models.ErrInvalidInput)
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.LogError(ctx, logger.OpUpdateOrder, id, "Failed to update order status", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	s.invalidate(ctx, cache.FamilyOrders+":*", cache.FamilyDashboard+":*")

	s.logger.LogSuccess(ctx, logger.OpUpdateOrder, id, "Updated order status", map[string]interface{}{
		"from": current.Status,
		"to":   status,
	})
	return order, nil
}

func (s *Service) list(ctx context.Context, prefix string, filter models.OrderFilter) (*models.Page[models.Order], error) {
	key := cache.BuildKey(prefix, filter.CacheParams())

	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.Order], error) {
		orders, total, err := s.orders.List(ctx, filter)
		if err != nil {
			s.logger.LogError(ctx, logger.OpListOrders, filter.UserID, "Failed to list orders", err, models.LogSeverityMedium, nil)
			return nil, err
		}
		if orders == nil {
			orders = []models.Order{}
		}
		return &models.Page[models.Order]{
			Data:       orders,
			Pagination: models.NewPagination(filter.Page, filter.Limit, total),
		}, nil
	})
}

func (s *Service) invalidate(ctx context.Context, patterns ...string) {
	_, _ = s.cache.Invalidate(ctx, patterns...)
}

func isFinal(status models.OrderStatus) bool {
	return status == models.OrderDelivered || status == models.OrderCancelled
}
