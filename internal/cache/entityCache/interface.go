package entityCache

import (
	"context"
)

// Service defines the interface for a per-owner cache of one materialized object
type Service[T any] interface {
	Get(ctx context.Context, ownerID string) (T, error)
	Set(ctx context.Context, ownerID string, value T) error
	Delete(ctx context.Context, ownerID string) (bool, error)
}
