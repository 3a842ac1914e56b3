package store

import (
	"context"
	"fmt"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
)

const bookSelect = `
	SELECT b.id::text, b.title, b.isbn, COALESCE(b.description, ''), b.price::float8, b.stock,
		COALESCE(b.cover_url, ''), b.author_id::text, COALESCE(a.name, ''),
		b.category_id::text, COALESCE(c.name, ''), b.publisher_id::text, COALESCE(p.name, ''),
		b.published_at::timestamptz, b.created_at, b.updated_at`

const bookFrom = `
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id
	LEFT JOIN categories c ON c.id = b.category_id
	LEFT JOIN publishers p ON p.id = b.publisher_id`

var bookSort = sortSpec{
	columns: map[string]string{
		"title":       "b.title",
		"price":       "b.price",
		"stock":       "b.stock",
		"createdAt":   "b.created_at",
		"publishedAt": "b.published_at",
	},
	defaultColumn: "b.created_at",
	defaultDesc:   true,
	tiebreaker:    "b.id",
}

// PostgresBookRepository implements BookRepository
type PostgresBookRepository struct {
	db DB
}

// NewBookRepository creates a book repository on db
func NewBookRepository(db DB) BookRepository {
	return &PostgresBookRepository{db: db}
}

// List returns one page of books matching filter and the total match count
func (r *PostgresBookRepository) List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	q := &listQuery{}
	if filter.Search != "" {
		q.where("(b.title ILIKE %s OR b.isbn ILIKE %s OR a.name ILIKE %s)",
			likePattern(filter.Search), likePattern(filter.Search), likePattern(filter.Search))
	}
	if filter.CategoryID != "" {
		q.where("b.category_id::text = %s", filter.CategoryID)
	}
	if filter.AuthorID != "" {
		q.where("b.author_id::text = %s", filter.AuthorID)
	}
	if filter.PublisherID != "" {
		q.where("b.publisher_id::text = %s", filter.PublisherID)
	}
	if filter.MinPrice != nil {
		q.where("b.price >= %s", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q.where("b.price <= %s", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			q.where("b.stock > 0")
		} else {
			q.where("b.stock = 0")
		}
	}
	q.sort(bookSort, filter.SortBy, filter.SortOrder)

	var total int
	countSQL, countArgs := q.countSQL(bookFrom)
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError("books", "", err)
	}

	pageSQL, pageArgs := q.pageSQL(bookSelect+bookFrom, filter.Limit, filter.Offset())
	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, mapError("books", "", err)
	}

	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, 0, mapError("books", "", err)
	}
	return books, total, nil
}

// GetByID returns a single book
func (r *PostgresBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	rows, err := r.db.Query(ctx, bookSelect+bookFrom+" WHERE b.id::text = $1", id)
	if err != nil {
		return nil, mapError("book", id, err)
	}

	book, err := pgx.CollectExactlyOneRow(rows, scanBook)
	if err != nil {
		return nil, mapError("book", id, err)
	}
	return &book, nil
}

// Create inserts a book and returns it with its joined names
func (r *PostgresBookRepository) Create(ctx context.Context, input models.BookInput) (*models.Book, error) {
	query := `
		INSERT INTO books (title, isbn, description, price, stock, cover_url, author_id, category_id, publisher_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text
	`

	var id string
	err := r.db.QueryRow(ctx, query,
		input.Title,
		input.ISBN,
		nullable(input.Description),
		input.Price,
		input.Stock,
		nullable(input.CoverURL),
		input.AuthorID,
		input.CategoryID,
		input.PublisherID,
		input.PublishedAt,
	).Scan(&id)
	if err != nil {
		return nil, mapError("book", "", err)
	}

	return r.GetByID(ctx, id)
}

// Update replaces the writable fields of a book
func (r *PostgresBookRepository) Update(ctx context.Context, id string, input models.BookInput) (*models.Book, error) {
	query := `
		UPDATE books SET
			title = $2, isbn = $3, description = $4, price = $5, stock = $6, cover_url = $7,
			author_id = $8, category_id = $9, publisher_id = $10, published_at = $11, updated_at = NOW()
		WHERE id::text = $1
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		input.Title,
		input.ISBN,
		nullable(input.Description),
		input.Price,
		input.Stock,
		nullable(input.CoverURL),
		input.AuthorID,
		input.CategoryID,
		input.PublisherID,
		input.PublishedAt,
	)
	if err != nil {
		return nil, mapError("book", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.NewEntityError("book", id, "not found", models.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a book
func (r *PostgresBookRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM books WHERE id::text = $1", id)
	if err != nil {
		return mapError("book", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewEntityError("book", id, "not found", models.ErrNotFound)
	}
	return nil
}

func scanBook(row pgx.CollectableRow) (models.Book, error) {
	var b models.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.Description, &b.Price, &b.Stock,
		&b.CoverURL, &b.AuthorID, &b.AuthorName,
		&b.CategoryID, &b.CategoryName, &b.PublisherID, &b.PublisherName,
		&b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return b, fmt.Errorf("failed to scan book: %w", err)
	}
	return b, nil
}

// nullable converts empty strings to nil for database insertion
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
