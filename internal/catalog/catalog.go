package catalog

import (
	"context"
	"fmt"
	"time"

	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"
	"Bookstore_API/internal/store"
)

// Service implements the CatalogService interface
type Service struct {
	books      store.BookRepository
	references map[models.ReferenceKind]store.ReferenceRepository
	cache      *cache.Manager
	logger     logger.Service
}

// NewService creates a new catalog service
func NewService(
	books store.BookRepository,
	references []store.ReferenceRepository,
	cache *cache.Manager,
	logger logger.Service,
) CatalogService {
	byKind := make(map[models.ReferenceKind]store.ReferenceRepository, len(references))
	for _, repo := range references {
		byKind[repo.Kind()] = repo
	}

	return &Service{
		books:      books,
		references: byKind,
		cache:      cache,
		logger:     logger,
	}
}

// ListBooks returns one page of books, served from the books family when cached
func (s *Service) ListBooks(ctx context.Context, filter models.BookFilter) (*models.Page[models.Book], error) {
	key := cache.BuildKey("books:list", filter.CacheParams())

	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.Book], error) {
		books, total, err := s.books.List(ctx, filter)
		if err != nil {
			s.logger.LogError(ctx, logger.OpListBooks, "", "Failed to list books", err, models.LogSeverityMedium, nil)
			return nil, err
		}
		if books == nil {
			books = []models.Book{}
		}
		return &models.Page[models.Book]{
			Data:       books,
			Pagination: models.NewPagination(filter.Page, filter.Limit, total),
		}, nil
	})
}

// GetBook returns a single book
func (s *Service) GetBook(ctx context.Context, id string) (*models.Book, error) {
	key := cache.BuildKey("books:detail", map[string]interface{}{"id": id})

	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.Book, error) {
		return s.books.GetByID(ctx, id)
	})
}

// CreateBook stores a new book and purges every cached book listing
func (s *Service) CreateBook(ctx context.Context, input models.BookInput) (*models.Book, error) {
	start := time.Now()

	book, err := s.books.Create(ctx, input)
	if err != nil {
		s.logger.LogError(ctx, logger.OpWriteBook, input.Title, "Failed to create book", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	s.invalidate(ctx, cache.FamilyBooks+":*")

	s.logger.LogSuccess(ctx, logger.OpWriteBook, book.ID, "Created book", map[string]interface{}{
		"title":       book.Title,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return book, nil
}

// UpdateBook replaces a book and purges every cached book entry
func (s *Service) UpdateBook(ctx context.Context, id string, input models.BookInput) (*models.Book, error) {
	start := time.Now()

	book, err := s.books.Update(ctx, id, input)
	if err != nil {
		s.logger.LogError(ctx, logger.OpWriteBook, id, "Failed to update book", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	s.invalidate(ctx, cache.FamilyBooks+":*")

	s.logger.LogSuccess(ctx, logger.OpWriteBook, id, "Updated book", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return book, nil
}

// DeleteBook removes a book; the dashboard counts books so it is purged too
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	if err := s.books.Delete(ctx, id); err != nil {
		s.logger.LogError(ctx, logger.OpWriteBook, id, "Failed to delete book", err, models.LogSeverityMedium, nil)
		return err
	}

	s.invalidate(ctx, cache.FamilyBooks+":*", cache.FamilyDashboard+":*")

	s.logger.LogSuccess(ctx, logger.OpWriteBook, id, "Deleted book", nil)
	return nil
}

// ListReferences returns one page of authors, categories or publishers
func (s *Service) ListReferences(ctx context.Context, kind models.ReferenceKind, params models.ListParams) (*models.Page[models.Reference], error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	key := cache.BuildKey(string(kind)+":list", params.CacheParams())

	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.Reference], error) {
		refs, total, err := repo.List(ctx, params)
		if err != nil {
			s.logger.LogError(ctx, logger.OpListReferences, string(kind), "Failed to list references", err, models.LogSeverityMedium, nil)
			return nil, err
		}
		if refs == nil {
			refs = []models.Reference{}
		}
		return &models.Page[models.Reference]{
			Data:       refs,
			Pagination: models.NewPagination(params.Page, params.Limit, total),
		}, nil
	})
}

// AllReferences returns every record of a kind, for pickers and filters
func (s *Service) AllReferences(ctx context.Context, kind models.ReferenceKind) ([]models.Reference, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	return cache.GetOrSet(ctx, s.cache, string(kind)+":all", func(ctx context.Context) ([]models.Reference, error) {
		refs, err := repo.All(ctx)
		if err != nil {
			return nil, err
		}
		if refs == nil {
			refs = []models.Reference{}
		}
		return refs, nil
	})
}

// GetReference returns a single record of a kind
func (s *Service) GetReference(ctx context.Context, kind models.ReferenceKind, id string) (*models.Reference, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	key := cache.BuildKey(string(kind)+":detail", map[string]interface{}{"id": id})

	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.Reference, error) {
		return repo.GetByID(ctx, id)
	})
}

// CreateReference stores a record and purges its own family.
// Cached books keep the joined names they were built with until they expire.
func (s *Service) CreateReference(ctx context.Context, kind models.ReferenceKind, input models.ReferenceInput) (*models.Reference, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	ref, err := repo.Create(ctx, input)
	if err != nil {
		s.logger.LogError(ctx, logger.OpWriteReference, input.Name, "Failed to create "+string(kind), err, models.LogSeverityMedium, nil)
		return nil, err
	}

	s.invalidate(ctx, string(kind)+":*")

	s.logger.LogSuccess(ctx, logger.OpWriteReference, ref.ID, "Created "+string(kind), nil)
	return ref, nil
}

// UpdateReference replaces a record and purges its own family
func (s *Service) UpdateReference(ctx context.Context, kind models.ReferenceKind, id string, input models.ReferenceInput) (*models.Reference, error) {
	repo, err := s.repository(kind)
	if err != nil {
		return nil, err
	}

	ref, err := repo.Update(ctx, id, input)
	if err != nil {
		s.logger.LogError(ctx, logger.OpWriteReference, id, "Failed to update "+string(kind), err, models.LogSeverityMedium, nil)
		return nil, err
	}

	s.invalidate(ctx, string(kind)+":*")

	s.logger.LogSuccess(ctx, logger.OpWriteReference, id, "Updated "+string(kind), nil)
	return ref, nil
}

// DeleteReference removes a record and purges its own family
func (s *Service) DeleteReference(ctx context.Context, kind models.ReferenceKind, id string) error {
	repo, err := s.repository(kind)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		s.logger.LogError(ctx, logger.OpWriteReference, id, "Failed to delete "+string(kind), err, models.LogSeverityMedium, nil)
		return err
	}

	s.invalidate(ctx, string(kind)+":*")

	s.logger.LogSuccess(ctx, logger.OpWriteReference, id, "Deleted "+string(kind), nil)
	return nil
}

func (s *Service) repository(kind models.ReferenceKind) (store.ReferenceRepository, error) {
	repo, ok := s.references[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reference kind %q", models.ErrNotFound, kind)
	}
	return repo, nil
}

// invalidate purges after a committed write; failures are logged by the manager
// and never fail the write.
func (s *Service) invalidate(ctx context.Context, patterns ...string) {
	_, _ = s.cache.Invalidate(ctx, patterns...)
}
