package mocks

import (
	"context"

	"Bookstore_API/internal/auth"

	"github.com/stretchr/testify/mock"
)

// MockAuth is a mock implementation of auth.Service
type MockAuth struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of auth.Service
func (m *MockAuth) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}
