package logger

import (
	"context"
	"sync"
	"time"

	"Bookstore_API/internal/models"
	"go.uber.org/zap"
)

// DatabaseLogger implements the Service interface using a database backend.
// Entries that cannot be stored, or that arrive after Close, are written to
// the fallback zap logger.
type DatabaseLogger struct {
	store    LogStore
	fallback *zap.Logger

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewDatabaseLogger creates a new database logger
func NewDatabaseLogger(store LogStore, fallback *zap.Logger) Service {
	return newDatabaseLogger(store, fallback)
}

func newDatabaseLogger(store LogStore, fallback *zap.Logger) *DatabaseLogger {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return &DatabaseLogger{
		store:    store,
		fallback: fallback,
	}
}

// LogInfo logs an informational message (no severity)
func (l *DatabaseLogger) LogInfo(ctx context.Context, operation, message string, metadata map[string]interface{}) {
	l.logEntry(newEntry(ctx, "", operation, "", message, nil, metadata))
}

// LogSuccess logs a successful operation (no severity)
func (l *DatabaseLogger) LogSuccess(ctx context.Context, operation, targetName, message string, metadata map[string]interface{}) {
	l.logEntry(newEntry(ctx, "", operation, targetName, message, nil, metadata))
}

// LogError logs an error with required severity
func (l *DatabaseLogger) LogError(ctx context.Context, operation, targetName, message string, err error, severity models.LogSeverity, metadata map[string]interface{}) {
	l.logEntry(newEntry(ctx, severity, operation, targetName, message, err, metadata))
}

// logEntry stores the entry asynchronously to avoid blocking the request
func (l *DatabaseLogger) logEntry(entry *models.LogEntry) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		writeZap(l.fallback, entry)
		return
	}
	l.pending.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.pending.Done()

		logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.store.InsertLog(logCtx, entry); err != nil {
			l.fallback.Warn("failed to insert log entry", zap.Error(err))
			writeZap(l.fallback, entry)
		}
	}()
}

// Close stops accepting inserts, waits for in-flight ones and closes the store
func (l *DatabaseLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.pending.Wait()
	_ = l.fallback.Sync()
	return l.store.Close()
}

// LogOperations defines constants for common operations
const (
	OpServerStart     = "server_start"
	OpServerShutdown  = "server_shutdown"
	OpHealthCheck     = "health_check"
	OpRateLimited     = "rate_limited"
	OpAuth            = "auth"
	OpCacheHit        = "cache_hit"
	OpCacheMiss       = "cache_miss"
	OpCacheSet        = "cache_set"
	OpCacheInvalidate = "cache_invalidate"
	OpCacheAdmin      = "cache_admin"
	OpListBooks       = "list_books"
	OpGetBook         = "get_book"
	OpWriteBook       = "write_book"
	OpListReferences  = "list_references"
	OpWriteReference  = "write_reference"
	OpCart            = "cart"
	OpCheckout        = "checkout"
	OpListOrders      = "list_orders"
	OpUpdateOrder     = "update_order"
	OpListUsers       = "list_users"
	OpUpdateUser      = "update_user"
	OpDashboard       = "dashboard"
)
