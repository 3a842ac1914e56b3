package mocks

import (
	"context"

	"Bookstore_API/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of catalog.CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListBooks(ctx context.Context, filter models.BookFilter) (*models.Page[models.Book], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Book]), args.Error(1)
}

func (m *MockCatalogService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) CreateBook(ctx context.Context, input models.BookInput) (*models.Book, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) UpdateBook(ctx context.Context, id string, input models.BookInput) (*models.Book, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockCatalogService) DeleteBook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListReferences(ctx context.Context, kind models.ReferenceKind, params models.ListParams) (*models.Page[models.Reference], error) {
	args := m.Called(ctx, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Reference]), args.Error(1)
}

func (m *MockCatalogService) AllReferences(ctx context.Context, kind models.ReferenceKind) ([]models.Reference, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reference), args.Error(1)
}

func (m *MockCatalogService) GetReference(ctx context.Context, kind models.ReferenceKind, id string) (*models.Reference, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reference), args.Error(1)
}

func (m *MockCatalogService) CreateReference(ctx context.Context, kind models.ReferenceKind, input models.ReferenceInput) (*models.Reference, error) {
	args := m.Called(ctx, kind, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reference), args.Error(1)
}

func (m *MockCatalogService) UpdateReference(ctx context.Context, kind models.ReferenceKind, id string, input models.ReferenceInput) (*models.Reference, error) {
	args := m.Called(ctx, kind, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reference), args.Error(1)
}

func (m *MockCatalogService) DeleteReference(ctx context.Context, kind models.ReferenceKind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

// MockCartService is a mock implementation of cart.CartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*models.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

func (m *MockCartService) AddItem(ctx context.Context, userID string, input models.CartItemInput) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, input))
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, bookID string, quantity int) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, bookID, quantity))
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, bookID string) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, bookID))
}

func (m *MockCartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

// MockOrderService is a mock implementation of orders.OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, userID string, request models.CheckoutRequest) (*models.Order, error) {
	args := m.Called(ctx, userID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListUserOrders(ctx context.Context, userID string, params models.ListParams) (*models.Page[models.Order], error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Order]), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id, ownerID string) (*models.Order, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Order]), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// MockUserService is a mock implementation of users.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context, params models.ListParams) (*models.Page[models.User], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.User]), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockDashboardService is a mock implementation of dashboard.DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}
