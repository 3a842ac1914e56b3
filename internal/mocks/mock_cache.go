package mocks

import (
	"context"
	"time"

	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of cache.Service
type MockCache struct {
	mock.Mock
}

// Get mocks the Get method of cache.Service
func (m *MockCache) Get(ctx context.Context, key string) (interface{}, error) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Error(1)
}

// Set mocks the Set method of cache.Service
func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete mocks the Delete method of cache.Service
func (m *MockCache) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// ClearByPattern mocks the ClearByPattern method of cache.Service
func (m *MockCache) ClearByPattern(ctx context.Context, pattern string) (int, error) {
	args := m.Called(ctx, pattern)
	return args.Int(0), args.Error(1)
}

// Clear mocks the Clear method of cache.Service
func (m *MockCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// SweepExpired mocks the SweepExpired method of cache.Service
func (m *MockCache) SweepExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Stats mocks the Stats method of cache.Service
func (m *MockCache) Stats(ctx context.Context) (cache.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(cache.Stats), args.Error(1)
}

// Close mocks the Close method of cache.Service
func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCartCache is a mock implementation of entityCache.Service[*models.Cart]
type MockCartCache struct {
	mock.Mock
}

// Get mocks the Get method of entityCache.Service
func (m *MockCartCache) Get(ctx context.Context, ownerID string) (*models.Cart, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

// Set mocks the Set method of entityCache.Service
func (m *MockCartCache) Set(ctx context.Context, ownerID string, value *models.Cart) error {
	args := m.Called(ctx, ownerID, value)
	return args.Error(0)
}

// Delete mocks the Delete method of entityCache.Service
func (m *MockCartCache) Delete(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}
