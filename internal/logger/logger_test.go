package logger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Bookstore_API/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memoryLogStore struct {
	mu      sync.Mutex
	entries []*models.LogEntry
	err     error
	closed  bool
}

func (s *memoryLogStore) InsertLog(ctx context.Context, entry *models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memoryLogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func requestContext(userID string) context.Context {
	event := NewRequestLogEvent("203.0.113.7")
	event.UserID = userID
	return WithLogEvent(context.Background(), event)
}

func TestConsoleLogger_Levels(t *testing.T) {
	zl, logs := observed()
	l := NewConsoleLogger(zl)
	ctx := requestContext("")

	l.LogInfo(ctx, OpListBooks, "listing", nil)
	l.LogError(ctx, OpCheckout, "cart", "stock check failed", errors.New("boom"), models.LogSeverityMedium, nil)
	l.LogError(ctx, OpServerStart, "", "cannot bind", errors.New("in use"), models.LogSeverityHigh, nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, OpCheckout, fields["operation"])
	assert.Equal(t, "cart", fields["target"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "medium", fields["severity"])
	assert.Equal(t, "203.0.113.7", fields["client_ip"])
}

func TestConsoleLogger_CarriesUserID(t *testing.T) {
	zl, logs := observed()
	l := NewConsoleLogger(zl)

	l.LogSuccess(requestContext("user-1"), OpCart, "user-1", "cart updated", map[string]interface{}{"items": 2})

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, string(models.ProcessTypeRequest), fields["process_type"])
	assert.Contains(t, fields, "metadata")
}

func TestConsoleLogger_NilLogger(t *testing.T) {
	l := NewConsoleLogger(nil)

	assert.NotPanics(t, func() {
		l.LogInfo(context.Background(), OpHealthCheck, "ok", nil)
	})
	assert.NoError(t, l.Close())
}

func TestDatabaseLogger_StoresEntries(t *testing.T) {
	store := &memoryLogStore{}
	zl, logs := observed()
	l := NewDatabaseLogger(store, zl)
	ctx := requestContext("user-2")

	l.LogInfo(ctx, OpListOrders, "listing orders", nil)
	l.LogError(ctx, OpUpdateOrder, "order-9", "update failed", errors.New("conflict"), models.LogSeverityLow, nil)
	require.NoError(t, l.Close())

	require.Len(t, store.entries, 2)
	assert.True(t, store.closed)
	assert.Zero(t, logs.Len())

	var failed *models.LogEntry
	for _, entry := range store.entries {
		assert.Equal(t, "user-2", entry.UserID)
		assert.Equal(t, "203.0.113.7", entry.ClientIP)
		if entry.Operation == OpUpdateOrder {
			failed = entry
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, models.LogSeverityLow, failed.Severity)
	assert.Equal(t, "conflict", failed.Error)
	assert.Equal(t, "order-9", failed.TargetName)
}

func TestDatabaseLogger_FallsBackToZap(t *testing.T) {
	store := &memoryLogStore{err: errors.New("connection refused")}
	zl, logs := observed()
	l := NewDatabaseLogger(store, zl)

	l.LogInfo(context.Background(), OpDashboard, "dashboard computed", nil)
	require.NoError(t, l.Close())

	assert.Equal(t, 1, logs.FilterMessage("failed to insert log entry").Len())
	assert.Equal(t, 1, logs.FilterMessage("dashboard computed").Len())
}

func TestDatabaseLogger_AfterCloseWritesToZap(t *testing.T) {
	store := &memoryLogStore{}
	zl, logs := observed()
	l := NewDatabaseLogger(store, zl)
	require.NoError(t, l.Close())

	l.LogInfo(context.Background(), OpServerShutdown, "late entry", nil)

	assert.Empty(t, store.entries)
	assert.Equal(t, 1, logs.FilterMessage("late entry").Len())
	assert.NoError(t, l.Close())
}

func TestDatabaseLogger_CloseWhileLogging(t *testing.T) {
	store := &memoryLogStore{}
	zl, logs := observed()
	l := NewDatabaseLogger(store, zl)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.LogInfo(context.Background(), OpListBooks, "listing", nil)
			}
		}()
	}
	require.NoError(t, l.Close())
	wg.Wait()

	store.mu.Lock()
	stored := len(store.entries)
	store.mu.Unlock()
	assert.Equal(t, 400, stored+logs.FilterMessage("listing").Len())
}

func TestGetLogEvent_DefaultsToInternal(t *testing.T) {
	event := GetLogEvent(context.Background())

	assert.Equal(t, models.ProcessTypeInternal, event.ProcessType)
	assert.NotEmpty(t, event.ProcessID)
}
