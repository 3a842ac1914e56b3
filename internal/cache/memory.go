package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Bookstore_API/internal/models"
)

// MemoryCache implements Service using in-process storage.
//
// Expiry is lazy: Get deletes an entry it finds invalid, so Get may shrink
// the store while never changing the effective dataset. The optional sweeper
// only reclaims memory held by entries nobody reads again.
type MemoryCache struct {
	data  map[string]*cacheEntry
	mutex sync.Mutex
	now   func() time.Time

	hits        int64
	misses      int64
	expirations int64

	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

// cacheEntry represents a single cache entry with its own TTL
type cacheEntry struct {
	value    interface{}
	storedAt time.Time
	ttl      time.Duration
}

// valid reports whether now - storedAt <= ttl
func (e *cacheEntry) valid(now time.Time) bool {
	return now.Sub(e.storedAt) <= e.ttl
}

// MemoryOption configures a MemoryCache
type MemoryOption func(*MemoryCache)

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryCache) {
		m.now = now
	}
}

// WithSweepInterval starts a background sweep of expired entries every interval
func WithSweepInterval(interval time.Duration) MemoryOption {
	return func(m *MemoryCache) {
		m.sweepInterval = interval
	}
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(opts ...MemoryOption) Service {
	return newMemoryCache(opts...)
}

// newMemoryCache creates the concrete implementation
func newMemoryCache(opts ...MemoryOption) *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]*cacheEntry),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cache)
	}

	if cache.sweepInterval > 0 {
		go cache.sweepLoop()
	}

	return cache
}

// Get retrieves a cached value for the given key
func (m *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, exists := m.data[key]
	if !exists {
		m.misses++
		return nil, models.ErrCacheMiss
	}

	if !entry.valid(m.now()) {
		delete(m.data, key)
		m.expirations++
		m.misses++
		return nil, models.ErrCacheMiss
	}

	m.hits++
	return entry.value, nil
}

// Set stores a value in the cache with the specified TTL, replacing any existing entry
func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("TTL must be positive, got: %v", ttl)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data[key] = &cacheEntry{
		value:    value,
		storedAt: m.now(),
		ttl:      ttl,
	}

	return nil
}

// Delete removes an entry and reports whether one existed, valid or not
func (m *MemoryCache) Delete(ctx context.Context, key string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, exists := m.data[key]
	delete(m.data, key)
	return exists, nil
}

// ClearByPattern removes every entry whose key matches pattern, expired ones included
func (m *MemoryCache) ClearByPattern(ctx context.Context, pattern string) (int, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return 0, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0
	for key := range m.data {
		if re.MatchString(key) {
			delete(m.data, key)
			removed++
		}
	}

	return removed, nil
}

// Clear removes every entry
func (m *MemoryCache) Clear(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data = make(map[string]*cacheEntry)
	return nil
}

// SweepExpired removes entries that are invalid now and returns how many were removed
func (m *MemoryCache) SweepExpired(ctx context.Context) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	removed := 0
	for key, entry := range m.data {
		if !entry.valid(now) {
			delete(m.data, key)
			removed++
		}
	}
	m.expirations += int64(removed)

	return removed, nil
}

// Stats counts entries with the same validity rule Get applies
func (m *MemoryCache) Stats(ctx context.Context) (Stats, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	stats := Stats{
		TotalEntries: len(m.data),
		Hits:         m.hits,
		Misses:       m.misses,
		Expirations:  m.expirations,
	}
	for _, entry := range m.data {
		if entry.valid(now) {
			stats.ValidEntries++
		} else {
			stats.ExpiredEntries++
		}
	}

	return stats, nil
}

// Size returns the number of physically stored entries (for monitoring)
func (m *MemoryCache) Size() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.data)
}

// Close stops the background sweeper if one is running
func (m *MemoryCache) Close() error {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	return nil
}

// sweepLoop removes expired entries until Close is called
func (m *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			_, _ = m.SweepExpired(context.Background())
		}
	}
}
