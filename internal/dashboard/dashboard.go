package dashboard

import (
	"context"
	"time"

	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"
	"Bookstore_API/internal/store"

	"golang.org/x/sync/errgroup"
)

const (
	statsKey = cache.FamilyDashboard + ":stats"

	lowStockLimit     = 10
	recentOrdersLimit = 5
)

// Service implements the DashboardService interface
type Service struct {
	repo              store.DashboardRepository
	cache             *cache.Manager
	logger            logger.Service
	lowStockThreshold int
	now               func() time.Time
}

// NewService creates a new dashboard service; books with stock at or below
// lowStockThreshold are reported as low on stock
func NewService(repo store.DashboardRepository, cache *cache.Manager, logger logger.Service, lowStockThreshold int) DashboardService {
	return &Service{
		repo:              repo,
		cache:             cache,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// GetStats returns the cached overview, computing it on a miss
func (s *Service) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	return cache.GetOrSet(ctx, s.cache, statsKey, s.compute)
}

// compute runs the aggregate queries concurrently. The first failure cancels
// the others and fails the whole computation.
func (s *Service) compute(ctx context.Context) (*models.DashboardStats, error) {
	start := time.Now()
	stats := &models.DashboardStats{}
	var totals store.OrderTotals

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalBooks, err = s.repo.CountBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalUsers, err = s.repo.CountUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.repo.OrderTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.LowStockBooks, err = s.repo.LowStockBooks(gctx, s.lowStockThreshold, lowStockLimit)
		return err
	})
	g.Go(func() error {
		var err error
		stats.RecentOrders, err = s.repo.RecentOrders(gctx, recentOrdersLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.LogError(ctx, logger.OpDashboard, "", "Failed to compute dashboard", err, models.LogSeverityHigh, nil)
		return nil, err
	}

	stats.TotalOrders = totals.Total
	stats.PendingOrders = totals.Pending
	stats.TotalRevenue = totals.Revenue
	if stats.LowStockBooks == nil {
		stats.LowStockBooks = []models.Book{}
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []models.Order{}
	}
	stats.GeneratedAt = s.now().UTC()

	s.logger.LogSuccess(ctx, logger.OpDashboard, "", "Computed dashboard", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return stats, nil
}
