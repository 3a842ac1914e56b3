package users

import (
	"context"

	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"
	"Bookstore_API/internal/store"
)

// Service implements the UserService interface
type Service struct {
	users  store.UserRepository
	cache  *cache.Manager
	logger logger.Service
}

// NewService creates a new user service
func NewService(users store.UserRepository, cache *cache.Manager, logger logger.Service) UserService {
	return &Service{
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) ListUsers(ctx context.Context, params models.ListParams) (*models.Page[models.User], error) {
	key := cache.BuildKey("users:list", params.CacheParams())

	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.Page[models.User], error) {
		users, total, err := s.users.List(ctx, params)
		if err != nil {
			s.logger.LogError(ctx, logger.OpListUsers, "", "Failed to list users", err, models.LogSeverityMedium, nil)
			return nil, err
		}
		if users == nil {
			users = []models.User{}
		}
		return &models.Page[models.User]{
			Data:       users,
			Pagination: models.NewPagination(params.Page, params.Limit, total),
		}, nil
	})
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	key := cache.BuildKey("users:detail", map[string]interface{}{"id": id})

	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (*models.User, error) {
		return s.users.GetByID(ctx, id)
	})
}

// UpdateUser edits a profile. User counts and recent-order emails feed the
// dashboard, so it is purged along with the users family.
func (s *Service) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		s.logger.LogError(ctx, logger.OpUpdateUser, id, "Failed to update user", err, models.LogSeverityMedium, nil)
		return nil, err
	}

	_, _ = s.cache.Invalidate(ctx, cache.FamilyUsers+":*", cache.FamilyDashboard+":*")

	s.logger.LogSuccess(ctx, logger.OpUpdateUser, id, "Updated user", map[string]interface{}{
		"role": user.Role,
	})
	return user, nil
}
