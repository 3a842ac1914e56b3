package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"
)

// Manager ties a store to the TTL policy and is what read and write paths use.
//
// Reads go through GetOrSet. Concurrent misses on the same key each run their
// fetch ("cache stampede"); requests are not coalesced. Writes call
// Invalidate after the data store commits. Neither path guarantees zero
// staleness: an entry may outlive the data it was built from for at most the
// TTL of its family.
type Manager struct {
	store    Service
	policy   TTLPolicy
	logger   logger.Service
	recorder Recorder
}

// NewManager creates a manager; a nil recorder records nothing
func NewManager(store Service, policy TTLPolicy, logger logger.Service, recorder Recorder) *Manager {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	return &Manager{
		store:    store,
		policy:   policy,
		logger:   logger,
		recorder: recorder,
	}
}

// Store returns the underlying store
func (m *Manager) Store() Service {
	return m.store
}

// Policy returns the TTL policy applied at Set time
func (m *Manager) Policy() TTLPolicy {
	return m.policy
}

// Invalidate removes every entry matching any of the patterns and returns the
// number removed. A failing pattern does not stop the remaining ones.
func (m *Manager) Invalidate(ctx context.Context, patterns ...string) (int, error) {
	total := 0
	var errs []error
	for _, pattern := range patterns {
		removed, err := m.store.ClearByPattern(ctx, pattern)
		total += removed
		if err != nil {
			m.recorder.Error("invalidate")
			errs = append(errs, fmt.Errorf("invalidate %q: %w", pattern, err))
			continue
		}
		m.recorder.Invalidated(PrefixOf(pattern), removed)
	}

	err := errors.Join(errs...)
	if err != nil {
		m.logger.LogError(ctx, logger.OpCacheInvalidate, "", "Cache invalidation failed", err, models.LogSeverityHigh, map[string]interface{}{
			"patterns": patterns,
		})
	} else {
		m.logger.LogInfo(ctx, logger.OpCacheInvalidate, "Invalidated cache entries", map[string]interface{}{
			"patterns": patterns,
			"removed":  total,
		})
	}

	return total, err
}

// GetOrSet returns the cached value for key, or runs fetch, stores its result
// and returns it. fetch is not invoked on a hit. A fetch error is returned
// unchanged and nothing is stored. The TTL comes from the policy unless one is
// passed explicitly.
//
// Store failures never fail the read: an unreadable entry counts as a miss and
// a failed store is logged.
func GetOrSet[T any](ctx context.Context, m *Manager, key string, fetch func(context.Context) (T, error), ttl ...time.Duration) (T, error) {
	family := PrefixOf(key)

	if cached, err := m.store.Get(ctx, key); err == nil {
		value, decodeErr := Decode[T](cached)
		if decodeErr == nil {
			m.recorder.Hit(family)
			return value, nil
		}
		m.recorder.Error("decode")
		m.logger.LogError(ctx, logger.OpCacheHit, key, "Discarding undecodable cache entry", decodeErr, models.LogSeverityLow, nil)
	} else if !errors.Is(err, models.ErrCacheMiss) {
		m.recorder.Error("get")
		m.logger.LogError(ctx, logger.OpCacheMiss, key, "Cache read failed", err, models.LogSeverityMedium, nil)
	}

	m.recorder.Miss(family)
	m.logger.LogInfo(ctx, logger.OpCacheMiss, "Cache miss", map[string]interface{}{"key": key})

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	entryTTL := m.policy.TTLFor(key)
	if len(ttl) > 0 && ttl[0] > 0 {
		entryTTL = ttl[0]
	}

	if err := m.store.Set(ctx, key, value, entryTTL); err != nil {
		m.recorder.Error("set")
		m.logger.LogError(ctx, logger.OpCacheSet, key, "Failed to cache result", err, models.LogSeverityLow, map[string]interface{}{
			"ttl_ms": entryTTL.Milliseconds(),
		})
	}

	return value, nil
}

// Decode converts a stored value back into T. In-memory stores hand back the
// original value; the Redis store hands back JSON.
func Decode[T any](value interface{}) (T, error) {
	var out T

	switch v := value.(type) {
	case json.RawMessage:
		if err := json.Unmarshal(v, &out); err != nil {
			return out, fmt.Errorf("failed to unmarshal cached value: %w", err)
		}
		return out, nil
	case T:
		return v, nil
	}

	return out, fmt.Errorf("unexpected type in cache: %T", value)
}
