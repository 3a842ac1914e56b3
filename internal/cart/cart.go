package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"Bookstore_API/internal/cache/entityCache"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"
	"Bookstore_API/internal/store"
)

// Service implements the CartService interface.
//
// Carts live in a dedicated entity cache keyed by user id. Every mutation
// writes the data store, drops the cached cart, then recomputes and re-caches
// it, so the response and the next read agree.
type Service struct {
	carts     store.CartRepository
	books     store.BookRepository
	cartCache entityCache.Service[*models.Cart]
	logger    logger.Service
	now       func() time.Time
}

// NewService creates a new cart service
func NewService(
	carts store.CartRepository,
	books store.BookRepository,
	cartCache entityCache.Service[*models.Cart],
	logger logger.Service,
) CartService {
	return &Service{
		carts:     carts,
		books:     books,
		cartCache: cartCache,
		logger:    logger,
		now:       time.Now,
	}
}

// GetCart returns the cached cart of a user, materializing it on a miss
func (s *Service) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cached, err := s.cartCache.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, models.ErrCacheMiss) {
		s.logger.LogError(ctx, logger.OpCart, userID, "Cart cache read failed", err, models.LogSeverityLow, nil)
	}

	cart, err := s.build(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cart)
	return cart, nil
}

// AddItem adds copies of a book, bounded by its stock
func (s *Service) AddItem(ctx context.Context, userID string, input models.CartItemInput) (*models.Cart, error) {
	book, err := s.books.GetByID(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	requested := input.Quantity
	for _, item := range items {
		if item.BookID == input.BookID {
			requested += item.Quantity
		}
	}
	if requested > book.Stock {
		return nil, models.NewEntityError("book", book.ID,
			fmt.Sprintf("only %d left, %d requested", book.Stock, requested), models.ErrInsufficientStock)
	}

	if err := s.carts.AddItem(ctx, userID, input.BookID, input.Quantity); err != nil {
		s.logger.LogError(ctx, logger.OpCart, userID, "Failed to add cart item", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	return s.refresh(ctx, userID, "Added cart item")
}

// UpdateItem sets the quantity of an existing line
func (s *Service) UpdateItem(ctx context.Context, userID, bookID string, quantity int) (*models.Cart, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if quantity > book.Stock {
		return nil, models.NewEntityError("book", bookID,
			fmt.Sprintf("only %d left, %d requested", book.Stock, quantity), models.ErrInsufficientStock)
	}

	found, err := s.carts.SetQuantity(ctx, userID, bookID, quantity)
	if err != nil {
		s.logger.LogError(ctx, logger.OpCart, userID, "Failed to update cart item", err, models.LogSeverityMedium, nil)
		return nil, err
	}
	if !found {
		return nil, models.NewEntityError("cart item", bookID, "not in cart", models.ErrNotFound)
	}

	return s.refresh(ctx, userID, "Updated cart item")
}

// RemoveItem drops one line from the cart
func (s *Service) RemoveItem(ctx context.Context, userID, bookID string) (*models.Cart, error) {
	found, err := s.carts.RemoveItem(ctx, userID, bookID)
	if err != nil {
		s.logger.LogError(ctx, logger.OpCart, userID, "Failed to remove cart item", err, models.LogSeverityMedium, nil)
		return nil, err
	}
	if !found {
		return nil, models.NewEntityError("cart item", bookID, "not in cart", models.ErrNotFound)
	}

	return s.refresh(ctx, userID, "Removed cart item")
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.LogError(ctx, logger.OpCart, userID, "Failed to clear cart", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	return s.refresh(ctx, userID, "Cleared cart")
}

// refresh drops the cached cart, recomputes it and caches the result
func (s *Service) refresh(ctx context.Context, userID, message string) (*models.Cart, error) {
	if _, err := s.cartCache.Delete(ctx, userID); err != nil {
		s.logger.LogError(ctx, logger.OpCacheInvalidate, "cart:"+userID, "Failed to drop cached cart", err, models.LogSeverityHigh, nil)
	}

	cart, err := s.build(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cart)

	s.logger.LogSuccess(ctx, logger.OpCart, userID, message, map[string]interface{}{
		"item_count": cart.ItemCount,
	})
	return cart, nil
}

// build materializes a cart from the data store
func (s *Service) build(ctx context.Context, userID string) (*models.Cart, error) {
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		s.logger.LogError(ctx, logger.OpCart, userID, "Failed to load cart", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	cart := &models.Cart{
		UserID:    userID,
		Items:     make([]models.CartItem, 0, len(items)),
		UpdatedAt: s.now().UTC(),
	}
	for _, item := range items {
		item.Subtotal = roundCents(item.UnitPrice * float64(item.Quantity))
		cart.Items = append(cart.Items, item)
		cart.ItemCount += item.Quantity
		cart.Total += item.Subtotal
	}
	cart.Total = roundCents(cart.Total)

	return cart, nil
}

func (s *Service) store(ctx context.Context, cart *models.Cart) {
	if err := s.cartCache.Set(ctx, cart.UserID, cart); err != nil {
		s.logger.LogError(ctx, logger.OpCacheSet, "cart:"+cart.UserID, "Failed to cache cart", err, models.LogSeverityLow, nil)
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
