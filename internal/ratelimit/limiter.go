package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	defaultCleanupInterval = 10 * time.Minute
	defaultIdleTimeout     = 30 * time.Minute
	waitPollInterval       = 100 * time.Millisecond
)

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64 // tokens per second
	lastRefill time.Time
	lastSeen   time.Time
	now        func() time.Time
	mutex      sync.Mutex
}

// NewTokenBucket creates a full bucket with the given capacity and refill rate
func NewTokenBucket(capacity, refillRate int64) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity, refillRate int64, now func() time.Time) *TokenBucket {
	t := now()
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: t,
		lastSeen:   t,
		now:        now,
	}
}

// Allow consumes a token if one is available
func (tb *TokenBucket) Allow() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.refill()
	tb.lastSeen = tb.now()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// give puts back a token taken by Allow
func (tb *TokenBucket) give() {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	if tb.tokens < tb.capacity {
		tb.tokens++
	}
}

func (tb *TokenBucket) idleSince() time.Time {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.lastSeen
}

// refill adds whole tokens for the time elapsed since the last refill.
// lastRefill only advances by the time actually converted into tokens, so
// slow trickles of requests still accumulate.
func (tb *TokenBucket) refill() {
	if tb.refillRate <= 0 {
		return
	}
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill)

	tokensToAdd := int64(elapsed.Seconds() * float64(tb.refillRate))
	if tokensToAdd <= 0 {
		return
	}
	tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
	if tb.tokens == tb.capacity {
		tb.lastRefill = now
		return
	}
	tb.lastRefill = tb.lastRefill.Add(time.Duration(tokensToAdd) * time.Second / time.Duration(tb.refillRate))
}

// Option configures a TwoTierRateLimiter
type Option func(*TwoTierRateLimiter)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(l *TwoTierRateLimiter) {
		l.now = now
	}
}

// WithCleanup sets how often idle client buckets are dropped and how long a
// bucket may stay unused before it is. A non-positive interval disables the
// background cleanup.
func WithCleanup(interval, idle time.Duration) Option {
	return func(l *TwoTierRateLimiter) {
		l.cleanupInterval = interval
		l.idleTimeout = idle
	}
}

// TwoTierRateLimiter applies a global bucket and one bucket per client key
type TwoTierRateLimiter struct {
	globalBucket    *TokenBucket
	clientBuckets   sync.Map // map[string]*TokenBucket
	perClientCap    int64
	perClientRate   int64
	now             func() time.Time
	cleanupInterval time.Duration
	idleTimeout     time.Duration
	stop            chan struct{}
	done            chan struct{}
	closeOnce       sync.Once
}

// NewTwoTierRateLimiter creates a two-tier rate limiter and starts its
// cleanup loop; call Close to stop it
func NewTwoTierRateLimiter(globalCapacity, globalRate, perClientCapacity, perClientRate int64, opts ...Option) *TwoTierRateLimiter {
	limiter := &TwoTierRateLimiter{
		perClientCap:    perClientCapacity,
		perClientRate:   perClientRate,
		now:             time.Now,
		cleanupInterval: defaultCleanupInterval,
		idleTimeout:     defaultIdleTimeout,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(limiter)
	}
	limiter.globalBucket = newTokenBucket(globalCapacity, globalRate, limiter.now)

	if limiter.cleanupInterval > 0 {
		go limiter.cleanupLoop()
	} else {
		close(limiter.done)
	}

	return limiter
}

// Allow checks the global limit, then the per-client one. A request refused
// by its client bucket hands its global token back.
func (l *TwoTierRateLimiter) Allow(clientKey string) bool {
	if !l.globalBucket.Allow() {
		return false
	}

	if !l.bucketFor(clientKey).Allow() {
		l.globalBucket.give()
		return false
	}
	return true
}

// Wait blocks until the client may proceed or ctx is done
func (l *TwoTierRateLimiter) Wait(ctx context.Context, clientKey string) error {
	if l.Allow(clientKey) {
		return nil
	}

	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.Allow(clientKey) {
				return nil
			}
		}
	}
}

// Close stops the cleanup loop and waits for it to exit
func (l *TwoTierRateLimiter) Close() {
	l.closeOnce.Do(func() {
		close(l.stop)
	})
	<-l.done
}

// Prune drops client buckets unused for longer than the idle timeout and
// returns how many were dropped
func (l *TwoTierRateLimiter) Prune() int {
	cutoff := l.now().Add(-l.idleTimeout)
	pruned := 0

	l.clientBuckets.Range(func(key, value interface{}) bool {
		if value.(*TokenBucket).idleSince().Before(cutoff) {
			l.clientBuckets.Delete(key)
			pruned++
		}
		return true
	})
	return pruned
}

func (l *TwoTierRateLimiter) bucketFor(clientKey string) *TokenBucket {
	if bucket, ok := l.clientBuckets.Load(clientKey); ok {
		return bucket.(*TokenBucket)
	}

	bucket := newTokenBucket(l.perClientCap, l.perClientRate, l.now)
	actual, _ := l.clientBuckets.LoadOrStore(clientKey, bucket)
	return actual.(*TokenBucket)
}

func (l *TwoTierRateLimiter) cleanupLoop() {
	defer close(l.done)

	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}
