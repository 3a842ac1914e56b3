package cache

import "time"

// Key families. The family of a key is the text before its first ':'.
const (
	FamilyDashboard  = "dashboard"
	FamilyBooks      = "books"
	FamilyUsers      = "users"
	FamilyOrders     = "orders"
	FamilyCategories = "categories"
	FamilyAuthors    = "authors"
	FamilyPublishers = "publishers"
)

const (
	DefaultDashboardTTL = 2 * time.Minute
	DefaultBooksTTL     = 5 * time.Minute
	DefaultUsersTTL     = 3 * time.Minute
	DefaultOrdersTTL    = 1 * time.Minute
	DefaultReferenceTTL = 10 * time.Minute
)

// TTLPolicy maps a key family to the TTL applied when an entry is stored.
// The policy is consulted once, at Set time; already stored entries keep the
// TTL they were written with.
type TTLPolicy struct {
	fallback time.Duration
	byFamily map[string]time.Duration
}

// NewTTLPolicy creates a policy; families missing from byFamily get fallback
func NewTTLPolicy(fallback time.Duration, byFamily map[string]time.Duration) TTLPolicy {
	copied := make(map[string]time.Duration, len(byFamily))
	for family, ttl := range byFamily {
		copied[family] = ttl
	}
	return TTLPolicy{fallback: fallback, byFamily: copied}
}

// DefaultTTLPolicy returns the stock TTL table
func DefaultTTLPolicy() TTLPolicy {
	return NewTTLPolicy(DefaultDashboardTTL, map[string]time.Duration{
		FamilyDashboard:  DefaultDashboardTTL,
		FamilyBooks:      DefaultBooksTTL,
		FamilyUsers:      DefaultUsersTTL,
		FamilyOrders:     DefaultOrdersTTL,
		FamilyCategories: DefaultReferenceTTL,
		FamilyAuthors:    DefaultReferenceTTL,
		FamilyPublishers: DefaultReferenceTTL,
	})
}

// TTLFor resolves the TTL for a key by its family
func (p TTLPolicy) TTLFor(key string) time.Duration {
	if ttl, ok := p.byFamily[PrefixOf(key)]; ok {
		return ttl
	}
	if p.fallback > 0 {
		return p.fallback
	}
	return DefaultDashboardTTL
}
