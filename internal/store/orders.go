package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
)

const orderSelect = `
	SELECT o.id::text, o.user_id::text, COALESCE(p.email, ''), o.status, o.total::float8,
		o.shipping_address, o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN profiles p ON p.id = o.user_id`

var orderSort = sortSpec{
	columns: map[string]string{
		"createdAt": "o.created_at",
		"total":     "o.total",
		"status":    "o.status",
	},
	defaultColumn: "o.created_at",
	defaultDesc:   true,
	tiebreaker:    "o.id",
}

// PostgresOrderRepository implements OrderRepository
type PostgresOrderRepository struct {
	db DB
}

// NewOrderRepository creates an order repository on db
func NewOrderRepository(db DB) OrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Checkout turns the cart of userID into a pending order in one transaction:
// stock is locked and decremented, prices are captured and the cart emptied.
func (r *PostgresOrderRepository) Checkout(ctx context.Context, userID, shippingAddress string) (*models.Order, error) {
	var order *models.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT b.id::text, b.title, b.price::float8, b.stock, ci.quantity
			FROM cart_items ci
			JOIN books b ON b.id = ci.book_id
			WHERE ci.user_id::text = $1
			ORDER BY b.id
			FOR UPDATE OF b
		`, userID)
		if err != nil {
			return err
		}

		type line struct {
			item  models.OrderItem
			stock int
		}
		lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (line, error) {
			var l line
			err := row.Scan(&l.item.BookID, &l.item.Title, &l.item.UnitPrice, &l.stock, &l.item.Quantity)
			return l, err
		})
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return models.ErrEmptyCart
		}

		total := 0.0
		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			if l.item.Quantity > l.stock {
				return models.NewEntityError("book", l.item.BookID,
					fmt.Sprintf("only %d left, %d requested", l.stock, l.item.Quantity), models.ErrInsufficientStock)
			}
			total += l.item.UnitPrice * float64(l.item.Quantity)
			items = append(items, l.item)
		}
		total = math.Round(total*100) / 100

		order = &models.Order{
			UserID:          userID,
			Status:          models.OrderPending,
			Total:           total,
			ShippingAddress: shippingAddress,
			Items:           items,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (user_id, status, total, shipping_address)
			VALUES ($1, $2, $3, $4)
			RETURNING id::text, created_at, updated_at
		`, userID, string(models.OrderPending), total, shippingAddress).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, item := range items {
			batch.Queue(`INSERT INTO order_items (order_id, book_id, title, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
				order.ID, item.BookID, item.Title, item.Quantity, item.UnitPrice)
			batch.Queue(`UPDATE books SET stock = stock - $2, updated_at = NOW() WHERE id::text = $1`,
				item.BookID, item.Quantity)
		}
		batch.Queue(`DELETE FROM cart_items WHERE user_id::text = $1`, userID)

		return tx.SendBatch(ctx, batch).Close()
	})
	if errors.Is(err, models.ErrEmptyCart) || errors.Is(err, models.ErrInsufficientStock) {
		return nil, err
	}
	if err != nil {
		return nil, mapError("order", "", err)
	}

	return order, nil
}

// List returns one page of orders matching filter and the total match count
func (r *PostgresOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	q := &listQuery{}
	if filter.UserID != "" {
		q.where("o.user_id::text = %s", filter.UserID)
	}
	if filter.Status != "" {
		q.where("o.status = %s", string(filter.Status))
	}
	if filter.Search != "" {
		q.where("(o.id::text ILIKE %s OR p.email ILIKE %s)", likePattern(filter.Search), likePattern(filter.Search))
	}
	q.sort(orderSort, filter.SortBy, filter.SortOrder)

	var total int
	countSQL, countArgs := q.countSQL("FROM orders o LEFT JOIN profiles p ON p.id = o.user_id")
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError("orders", "", err)
	}

	pageSQL, pageArgs := q.pageSQL(orderSelect, filter.Limit, filter.Offset())
	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, mapError("orders", "", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, 0, mapError("orders", "", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetByID returns one order with its items
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	rows, err := r.db.Query(ctx, orderSelect+" WHERE o.id::text = $1", id)
	if err != nil {
		return nil, mapError("order", id, err)
	}

	order, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		return nil, mapError("order", id, err)
	}

	orders := []models.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// UpdateStatus changes the status of an order
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	tag, err := r.db.Exec(ctx, "UPDATE orders SET status = $2, updated_at = NOW() WHERE id::text = $1", id, string(status))
	if err != nil {
		return nil, mapError("order", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.NewEntityError("order", id, "not found", models.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// attachItems loads the items of every order in one query
func (r *PostgresOrderRepository) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT order_id::text, book_id::text, title, quantity, unit_price::float8
		FROM order_items
		WHERE order_id::text = ANY($1)
		ORDER BY title
	`, ids)
	if err != nil {
		return mapError("order items", "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item models.OrderItem
		if err := rows.Scan(&orderID, &item.BookID, &item.Title, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return mapError("order items", "", err)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (models.Order, error) {
	var o models.Order
	var status string
	err := row.Scan(&o.ID, &o.UserID, &o.UserEmail, &status, &o.Total, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, fmt.Errorf("failed to scan order: %w", err)
	}
	o.Status = models.OrderStatus(status)
	return o, nil
}
