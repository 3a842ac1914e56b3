package store

import (
	"context"
	"fmt"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
)

// referenceKinds maps each kind to its entity name and the books column pointing at it
var referenceKinds = map[models.ReferenceKind]struct {
	entity string
	column string
}{
	models.KindAuthor:    {"author", "author_id"},
	models.KindCategory:  {"category", "category_id"},
	models.KindPublisher: {"publisher", "publisher_id"},
}

var referenceSort = sortSpec{
	columns: map[string]string{
		"name":      "r.name",
		"createdAt": "r.created_at",
		"bookCount": "book_count",
	},
	defaultColumn: "r.name",
	tiebreaker:    "r.id",
}

// PostgresReferenceRepository implements ReferenceRepository for one kind
type PostgresReferenceRepository struct {
	db        DB
	kind      models.ReferenceKind
	table     string
	entity    string
	selectSQL string
}

// NewReferenceRepository creates a repository for authors, categories or publishers
func NewReferenceRepository(db DB, kind models.ReferenceKind) (ReferenceRepository, error) {
	meta, ok := referenceKinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind: %q", kind)
	}

	table := string(kind)
	return &PostgresReferenceRepository{
		db:        db,
		kind:      kind,
		table:     table,
		entity:    meta.entity,
		selectSQL: fmt.Sprintf(`
			SELECT r.id::text, r.name, COALESCE(r.description, ''),
				(SELECT COUNT(*) FROM books b WHERE b.%s = r.id) AS book_count, r.created_at
			FROM %s r`, meta.column, table),
	}, nil
}

// Kind returns the reference kind served by this repository
func (r *PostgresReferenceRepository) Kind() models.ReferenceKind {
	return r.kind
}

// List returns one page of records and the total match count
func (r *PostgresReferenceRepository) List(ctx context.Context, params models.ListParams) ([]models.Reference, int, error) {
	q := &listQuery{}
	if params.Search != "" {
		q.where("r.name ILIKE %s", likePattern(params.Search))
	}
	q.sort(referenceSort, params.SortBy, params.SortOrder)

	var total int
	countSQL, countArgs := q.countSQL(fmt.Sprintf("FROM %s r", r.table))
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError(r.table, "", err)
	}

	pageSQL, pageArgs := q.pageSQL(r.selectSQL, params.Limit, params.Offset())
	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, mapError(r.table, "", err)
	}

	refs, err := pgx.CollectRows(rows, scanReference)
	if err != nil {
		return nil, 0, mapError(r.table, "", err)
	}
	return refs, total, nil
}

// All returns every record ordered by name
func (r *PostgresReferenceRepository) All(ctx context.Context) ([]models.Reference, error) {
	rows, err := r.db.Query(ctx, r.selectSQL+" ORDER BY r.name ASC")
	if err != nil {
		return nil, mapError(r.table, "", err)
	}

	refs, err := pgx.CollectRows(rows, scanReference)
	if err != nil {
		return nil, mapError(r.table, "", err)
	}
	return refs, nil
}

// GetByID returns a single record
func (r *PostgresReferenceRepository) GetByID(ctx context.Context, id string) (*models.Reference, error) {
	rows, err := r.db.Query(ctx, r.selectSQL+" WHERE r.id::text = $1", id)
	if err != nil {
		return nil, mapError(r.entity, id, err)
	}

	ref, err := pgx.CollectExactlyOneRow(rows, scanReference)
	if err != nil {
		return nil, mapError(r.entity, id, err)
	}
	return &ref, nil
}

// Create inserts a record
func (r *PostgresReferenceRepository) Create(ctx context.Context, input models.ReferenceInput) (*models.Reference, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, description) VALUES ($1, $2) RETURNING id::text", r.table)

	var id string
	if err := r.db.QueryRow(ctx, query, input.Name, nullable(input.Description)).Scan(&id); err != nil {
		return nil, mapError(r.entity, "", err)
	}
	return r.GetByID(ctx, id)
}

// Update replaces the name and description of a record
func (r *PostgresReferenceRepository) Update(ctx context.Context, id string, input models.ReferenceInput) (*models.Reference, error) {
	query := fmt.Sprintf("UPDATE %s SET name = $2, description = $3 WHERE id::text = $1", r.table)

	tag, err := r.db.Exec(ctx, query, id, input.Name, nullable(input.Description))
	if err != nil {
		return nil, mapError(r.entity, id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.NewEntityError(r.entity, id, "not found", models.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a record; records still referenced by books are rejected
func (r *PostgresReferenceRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id::text = $1", r.table)

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return mapError(r.entity, id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewEntityError(r.entity, id, "not found", models.ErrNotFound)
	}
	return nil
}

func scanReference(row pgx.CollectableRow) (models.Reference, error) {
	var ref models.Reference
	if err := row.Scan(&ref.ID, &ref.Name, &ref.Description, &ref.BookCount, &ref.CreatedAt); err != nil {
		return ref, fmt.Errorf("failed to scan reference: %w", err)
	}
	return ref, nil
}
