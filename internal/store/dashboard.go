package store

import (
	"context"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
)

// PostgresDashboardRepository implements DashboardRepository
type PostgresDashboardRepository struct {
	db DB
}

// NewDashboardRepository creates a dashboard repository on db
func NewDashboardRepository(db DB) DashboardRepository {
	return &PostgresDashboardRepository{db: db}
}

func (r *PostgresDashboardRepository) CountBooks(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&n); err != nil {
		return 0, mapError("books", "", err)
	}
	return n, nil
}

func (r *PostgresDashboardRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM profiles").Scan(&n); err != nil {
		return 0, mapError("users", "", err)
	}
	return n, nil
}

// OrderTotals counts orders and sums revenue; cancelled orders earn nothing
func (r *PostgresDashboardRepository) OrderTotals(ctx context.Context) (OrderTotals, error) {
	var totals OrderTotals
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0)::float8
		FROM orders
	`).Scan(&totals.Total, &totals.Pending, &totals.Revenue)
	if err != nil {
		return OrderTotals{}, mapError("orders", "", err)
	}
	return totals, nil
}

// LowStockBooks returns up to limit books with stock at or below threshold
func (r *PostgresDashboardRepository) LowStockBooks(ctx context.Context, threshold, limit int) ([]models.Book, error) {
	rows, err := r.db.Query(ctx, bookSelect+bookFrom+" WHERE b.stock <= $1 ORDER BY b.stock ASC, b.title ASC LIMIT $2", threshold, limit)
	if err != nil {
		return nil, mapError("books", "", err)
	}

	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, mapError("books", "", err)
	}
	return books, nil
}

// RecentOrders returns the newest orders without their items
func (r *PostgresDashboardRepository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, orderSelect+" ORDER BY o.created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, mapError("orders", "", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, mapError("orders", "", err)
	}
	return orders, nil
}
