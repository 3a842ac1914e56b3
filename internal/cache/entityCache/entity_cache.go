package entityCache

import (
	"context"
	"fmt"
	"time"

	"Bookstore_API/internal/cache"
)

// DefaultCartTTL is how long a materialized cart stays cached
const DefaultCartTTL = 2 * time.Minute

// entityCache implements Service on a dedicated cache store
type entityCache[T any] struct {
	cache cache.Service
	name  string
	ttl   time.Duration
}

// New creates an entity cache whose keys are "<name>:<ownerID>".
// store should not be shared with the query cache so pattern purges there
// never touch these entries.
func New[T any](store cache.Service, name string, ttl time.Duration) Service[T] {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &entityCache[T]{
		cache: store,
		name:  name,
		ttl:   ttl,
	}
}

func (e *entityCache[T]) key(ownerID string) string {
	return fmt.Sprintf("%s:%s", e.name, ownerID)
}

// Get returns models.ErrCacheMiss when nothing valid is cached for ownerID
func (e *entityCache[T]) Get(ctx context.Context, ownerID string) (T, error) {
	value, err := e.cache.Get(ctx, e.key(ownerID))
	if err != nil {
		var zero T
		return zero, err
	}

	return cache.Decode[T](value)
}

// Set stores value for ownerID with the fixed entity TTL
func (e *entityCache[T]) Set(ctx context.Context, ownerID string, value T) error {
	return e.cache.Set(ctx, e.key(ownerID), value, e.ttl)
}

// Delete removes the entry for ownerID and reports whether one existed
func (e *entityCache[T]) Delete(ctx context.Context, ownerID string) (bool, error) {
	return e.cache.Delete(ctx, e.key(ownerID))
}
