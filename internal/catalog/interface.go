package catalog

import (
	"context"

	"Bookstore_API/internal/models"
)

// CatalogService defines the interface for books and their reference data
// External packages should use this interface, not the concrete implementations
type CatalogService interface {
	ListBooks(ctx context.Context, filter models.BookFilter) (*models.Page[models.Book], error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	CreateBook(ctx context.Context, input models.BookInput) (*models.Book, error)
	UpdateBook(ctx context.Context, id string, input models.BookInput) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) error

	ListReferences(ctx context.Context, kind models.ReferenceKind, params models.ListParams) (*models.Page[models.Reference], error)
	AllReferences(ctx context.Context, kind models.ReferenceKind) ([]models.Reference, error)
	GetReference(ctx context.Context, kind models.ReferenceKind, id string) (*models.Reference, error)
	CreateReference(ctx context.Context, kind models.ReferenceKind, input models.ReferenceInput) (*models.Reference, error)
	UpdateReference(ctx context.Context, kind models.ReferenceKind, id string, input models.ReferenceInput) (*models.Reference, error)
	DeleteReference(ctx context.Context, kind models.ReferenceKind, id string) error
}
