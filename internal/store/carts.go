package store

import (
	"context"
	"fmt"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
)

// PostgresCartRepository implements CartRepository
type PostgresCartRepository struct {
	db DB
}

// NewCartRepository creates a cart repository on db
func NewCartRepository(db DB) CartRepository {
	return &PostgresCartRepository{db: db}
}

// Items returns the cart lines of a user joined with current book data
func (r *PostgresCartRepository) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := `
		SELECT ci.book_id::text, b.title, COALESCE(b.cover_url, ''), b.price::float8, ci.quantity, b.stock
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.user_id::text = $1
		ORDER BY ci.updated_at ASC, ci.book_id ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError("cart", userID, err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CartItem, error) {
		var item models.CartItem
		if err := row.Scan(&item.BookID, &item.Title, &item.CoverURL, &item.UnitPrice, &item.Quantity, &item.Stock); err != nil {
			return item, fmt.Errorf("failed to scan cart item: %w", err)
		}
		return item, nil
	})
	if err != nil {
		return nil, mapError("cart", userID, err)
	}
	return items, nil
}

// AddItem adds quantity copies of a book, merging with an existing line
func (r *PostgresCartRepository) AddItem(ctx context.Context, userID, bookID string, quantity int) error {
	query := `
		INSERT INTO cart_items (user_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, userID, bookID, quantity); err != nil {
		return mapError("cart", userID, err)
	}
	return nil
}

// SetQuantity replaces the quantity of an existing line and reports whether it existed
func (r *PostgresCartRepository) SetQuantity(ctx context.Context, userID, bookID string, quantity int) (bool, error) {
	query := `
		UPDATE cart_items SET quantity = $3, updated_at = NOW()
		WHERE user_id::text = $1 AND book_id::text = $2
	`

	tag, err := r.db.Exec(ctx, query, userID, bookID, quantity)
	if err != nil {
		return false, mapError("cart", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveItem deletes one line and reports whether it existed
func (r *PostgresCartRepository) RemoveItem(ctx context.Context, userID, bookID string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM cart_items WHERE user_id::text = $1 AND book_id::text = $2", userID, bookID)
	if err != nil {
		return false, mapError("cart", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Clear empties the cart of a user
func (r *PostgresCartRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM cart_items WHERE user_id::text = $1", userID); err != nil {
		return mapError("cart", userID, err)
	}
	return nil
}
