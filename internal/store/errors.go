package store

import (
	"errors"
	"fmt"

	"Bookstore_API/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories translate
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// mapError translates driver errors into the model sentinels
func mapError(entity, id string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewEntityError(entity, id, "not found", models.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidText:
			// Malformed ids can never match a row
			return models.NewEntityError(entity, id, "not found", models.ErrNotFound)
		case pgForeignKeyViolation:
			return models.NewEntityError(entity, id, fmt.Sprintf("references a missing or in-use record (%s)", pgErr.ConstraintName), models.ErrInvalidInput)
		case pgUniqueViolation:
			return models.NewEntityError(entity, id, fmt.Sprintf("already exists (%s)", pgErr.ConstraintName), models.ErrInvalidInput)
		case pgCheckViolation:
			return models.NewEntityError(entity, id, fmt.Sprintf("violates %s", pgErr.ConstraintName), models.ErrInvalidInput)
		}
	}

	return fmt.Errorf("%s query failed: %w", entity, err)
}
