package cache

import (
	"context"
	"time"
)

// Service defines the interface for the expiring key/value store
// External packages should use this interface, not the concrete implementations
type Service interface {
	// Get returns models.ErrCacheMiss when the key is absent or its entry is no
	// longer valid. An invalid entry observed by Get is removed.
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	ClearByPattern(ctx context.Context, pattern string) (int, error)
	Clear(ctx context.Context) error
	SweepExpired(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Stats is a diagnostic snapshot of a store
type Stats struct {
	TotalEntries   int   `json:"totalEntries"`
	ValidEntries   int   `json:"validEntries"`
	ExpiredEntries int   `json:"expiredEntries"`
	Hits           int64 `json:"hits"`
	Misses         int64 `json:"misses"`
	Expirations    int64 `json:"expirations"`
}

// Recorder receives cache events for metrics
type Recorder interface {
	Hit(family string)
	Miss(family string)
	Invalidated(family string, count int)
	Error(operation string)
}

// NoopRecorder discards every event
type NoopRecorder struct{}

func (NoopRecorder) Hit(string)              {}
func (NoopRecorder) Miss(string)             {}
func (NoopRecorder) Invalidated(string, int) {}
func (NoopRecorder) Error(string)            {}
