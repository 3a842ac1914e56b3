package store

import (
	"context"
	"errors"
	"fmt"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
)

const userSelect = `SELECT id::text, email, COALESCE(full_name, ''), role, created_at FROM profiles`

var userSort = sortSpec{
	columns: map[string]string{
		"email":     "email",
		"fullName":  "full_name",
		"role":      "role",
		"createdAt": "created_at",
	},
	defaultColumn: "created_at",
	defaultDesc:   true,
	tiebreaker:    "id",
}

// PostgresUserRepository implements UserRepository on the profiles table
type PostgresUserRepository struct {
	db DB
}

// NewUserRepository creates a user repository on db
func NewUserRepository(db DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) List(ctx context.Context, params models.ListParams) ([]models.User, int, error) {
	q := &listQuery{}
	if params.Search != "" {
		q.where("(email ILIKE %s OR full_name ILIKE %s)", likePattern(params.Search), likePattern(params.Search))
	}
	q.sort(userSort, params.SortBy, params.SortOrder)

	var total int
	countSQL, countArgs := q.countSQL("FROM profiles")
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapError("users", "", err)
	}

	pageSQL, pageArgs := q.pageSQL(userSelect, params.Limit, params.Offset())
	rows, err := r.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, mapError("users", "", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, 0, mapError("users", "", err)
	}
	return users, total, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	rows, err := r.db.Query(ctx, userSelect+" WHERE id::text = $1", id)
	if err != nil {
		return nil, mapError("user", id, err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return nil, mapError("user", id, err)
	}
	return &user, nil
}

// Update applies the non-empty fields of update
func (r *PostgresUserRepository) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	query := `
		UPDATE profiles SET
			full_name = COALESCE($2, full_name),
			role = COALESCE($3, role)
		WHERE id::text = $1
	`

	tag, err := r.db.Exec(ctx, query, id, nullable(update.FullName), nullable(update.Role))
	if err != nil {
		return nil, mapError("user", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.NewEntityError("user", id, "not found", models.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// GetRole returns the stored role of a profile
func (r *PostgresUserRepository) GetRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.db.QueryRow(ctx, "SELECT role FROM profiles WHERE id::text = $1", userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", mapError("user", userID, err)
	}
	return role, nil
}

func scanUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt); err != nil {
		return u, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}
