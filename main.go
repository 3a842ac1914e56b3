package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"Bookstore_API/internal/auth"
	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/cache/entityCache"
	"Bookstore_API/internal/cart"
	"Bookstore_API/internal/catalog"
	"Bookstore_API/internal/config"
	"Bookstore_API/internal/dashboard"
	"Bookstore_API/internal/database"
	"Bookstore_API/internal/http"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/metrics"
	"Bookstore_API/internal/models"
	"Bookstore_API/internal/orders"
	"Bookstore_API/internal/ratelimit"
	"Bookstore_API/internal/store"
	"Bookstore_API/internal/users"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const metricsNamespace = "bookstore"

func main() {
	cfg := config.Load()

	zapLogger, err := logger.NewZap(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to build zap logger: %v", err)
	}
	defer zapLogger.Sync()

	startupCtx := logger.WithLogEvent(context.Background(), logger.NewInternalLogEvent())

	// Initialize database connection (Supabase Postgres)
	pool, err := database.NewSupabasePool(startupCtx, cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		zapLogger.Fatal("Failed to connect to Supabase", zap.Error(err))
	}
	defer pool.Close()

	if err := store.EnsureSchema(startupCtx, pool); err != nil {
		zapLogger.Fatal("Failed to prepare schema", zap.Error(err))
	}

	appLogger, err := initializeLogger(startupCtx, cfg, pool, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer appLogger.Close()

	appLogger.LogInfo(startupCtx, logger.OpServerStart, "Starting Bookstore API", map[string]interface{}{
		"version": "1.0.0",
		"config": map[string]interface{}{
			"port":        cfg.Port,
			"environment": cfg.Environment,
			"cache_type":  cfg.CacheType,
			"cart_ttl":    cfg.CartCacheTTL.Seconds(),
		},
	})

	// Initialize caches: the query cache behind the manager and the cart cache
	queryCache, err := initializeCache(cfg)
	if err != nil {
		appLogger.LogError(startupCtx, "cache_init", "", "Failed to initialize cache", err, models.LogSeverityHigh, nil)
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer queryCache.Close()

	cartStore := cache.NewMemoryCache(cache.WithSweepInterval(cfg.CacheSweepInterval))
	defer cartStore.Close()

	collector := metrics.NewCollector(metricsNamespace)
	collector.ObserveStore(metricsNamespace, "query", queryCache)
	collector.ObserveStore(metricsNamespace, "cart", cartStore)

	manager := cache.NewManager(queryCache, cfg.CachePolicy(), appLogger, collector)
	cartCache := entityCache.New[*models.Cart](cartStore, "cart", cfg.CartCacheTTL)

	// Repositories
	bookRepo := store.NewBookRepository(pool)
	userRepo := store.NewUserRepository(pool)
	referenceRepos, err := initializeReferences(pool)
	if err != nil {
		zapLogger.Fatal("Failed to initialize reference repositories", zap.Error(err))
	}

	authService, err := auth.NewSupabaseAuth(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, userRepo)
	if err != nil {
		appLogger.LogError(startupCtx, logger.OpAuth, "", "Failed to initialize auth", err, models.LogSeverityHigh, nil)
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	rateLimiter := ratelimit.NewTwoTierRateLimiter(
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.PerIPRateLimitPerSec),
		int64(cfg.PerIPRateLimitPerSec),
	)
	defer rateLimiter.Close()

	// Initialize services
	handler := http.NewHandler(http.Services{
		Catalog:   catalog.NewService(bookRepo, referenceRepos, manager, appLogger),
		Cart:      cart.NewService(store.NewCartRepository(pool), bookRepo, cartCache, appLogger),
		Orders:    orders.NewService(store.NewOrderRepository(pool), manager, cartCache, appLogger),
		Users:     users.NewService(userRepo, manager, appLogger),
		Dashboard: dashboard.NewService(store.NewDashboardRepository(pool), manager, appLogger, cfg.LowStockThreshold),
		Stores: map[string]cache.Service{
			"query": queryCache,
			"cart":  cartStore,
		},
	}, appLogger)

	addr := ":" + cfg.Port
	server := http.NewServer(
		addr,
		handler,
		appLogger,
		rateLimiter,
		authService,
		collector,
		cfg.ServerReadTimeout,
		cfg.ServerWriteTimeout,
	)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			appLogger.LogError(
				context.Background(),
				logger.OpServerStart,
				"",
				"Server failed to start",
				err,
				models.LogSeverityHigh,
				map[string]interface{}{"addr": addr},
			)
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	fmt.Printf("🚀 Bookstore API server started on %s (cache: %s)\n", addr, cfg.CacheType)
	fmt.Println("📋 Available endpoints:")
	fmt.Println("  GET  /health                      - Health check")
	fmt.Println("  GET  /api/books                   - Browse the catalog")
	fmt.Println("  GET  /api/cart                    - Current user's cart")
	fmt.Println("  POST /api/orders                  - Checkout")
	fmt.Println("  GET  /api/admin/dashboard         - Admin dashboard")
	fmt.Println("  GET  /api/admin/cache/stats       - Cache statistics")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.LogError(ctx, logger.OpServerShutdown, "", "Server shutdown error", err, models.LogSeverityMedium, nil)
		log.Printf("Server shutdown error: %v", err)
	} else {
		appLogger.LogInfo(ctx, logger.OpServerShutdown, "Server shutdown completed successfully", nil)
		fmt.Println("✅ Server shutdown completed")
	}
}

func initializeLogger(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, zapLogger *zap.Logger) (logger.Service, error) {
	if !cfg.LogToDatabase {
		return logger.NewConsoleLogger(zapLogger), nil
	}

	logStore, err := logger.NewPostgresLogStore(ctx, pool)
	if err != nil {
		return nil, err
	}
	return logger.NewDatabaseLogger(logStore, zapLogger), nil
}

func initializeCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.CacheType {
	case "redis":
		return cache.NewRedisCache(cfg.RedisURL, cfg.RedisNamespace)
	case "memory":
		return cache.NewMemoryCache(cache.WithSweepInterval(cfg.CacheSweepInterval)), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}

func initializeReferences(db store.DB) ([]store.ReferenceRepository, error) {
	kinds := []models.ReferenceKind{models.KindAuthor, models.KindCategory, models.KindPublisher}

	repos := make([]store.ReferenceRepository, 0, len(kinds))
	for _, kind := range kinds {
		repo, err := store.NewReferenceRepository(db, kind)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, nil
}
