package store

import (
	"context"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories use
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BookRepository defines book persistence
// External packages should use this interface, not the concrete implementations
type BookRepository interface {
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, input models.BookInput) (*models.Book, error)
	Update(ctx context.Context, id string, input models.BookInput) (*models.Book, error)
	Delete(ctx context.Context, id string) error
}

// ReferenceRepository defines persistence for one reference kind (authors, categories or publishers)
type ReferenceRepository interface {
	Kind() models.ReferenceKind
	List(ctx context.Context, params models.ListParams) ([]models.Reference, int, error)
	All(ctx context.Context) ([]models.Reference, error)
	GetByID(ctx context.Context, id string) (*models.Reference, error)
	Create(ctx context.Context, input models.ReferenceInput) (*models.Reference, error)
	Update(ctx context.Context, id string, input models.ReferenceInput) (*models.Reference, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository defines user profile persistence
type UserRepository interface {
	List(ctx context.Context, params models.ListParams) ([]models.User, int, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	GetRole(ctx context.Context, userID string) (string, error)
}

// CartRepository defines shopping cart persistence
type CartRepository interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
	AddItem(ctx context.Context, userID, bookID string, quantity int) error
	SetQuantity(ctx context.Context, userID, bookID string, quantity int) (bool, error)
	RemoveItem(ctx context.Context, userID, bookID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

// OrderRepository defines order persistence
type OrderRepository interface {
	Checkout(ctx context.Context, userID, shippingAddress string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// DashboardRepository provides the aggregates behind the admin dashboard
type DashboardRepository interface {
	CountBooks(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
	OrderTotals(ctx context.Context) (OrderTotals, error)
	LowStockBooks(ctx context.Context, threshold, limit int) ([]models.Book, error)
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
}

// OrderTotals summarizes the orders table
type OrderTotals struct {
	Total   int
	Pending int
	Revenue float64
}
