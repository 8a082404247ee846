package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/apperr"
	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/repository"
)

// CategoryCache caches a user's category list. A nil cache disables caching.
// Only categories are cached: account balances move underneath the engine
// and must always come from the store.
type CategoryCache interface {
	Get(ctx context.Context, key string) ([]domain.Category, bool)
	Set(ctx context.Context, key string, v []domain.Category)
	Delete(ctx context.Context, key string)
}

// CategoryService handles category CRUD with read-through list caching.
type CategoryService struct {
	categories repository.CategoryRepository
	cache      CategoryCache
	log        zerolog.Logger
}

// NewCategoryService creates the category service; cache may be nil.
func NewCategoryService(categories repository.CategoryRepository, cache CategoryCache, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, cache: cache, log: log}
}

func categoryListKey(userID string) string {
	return "categories:" + userID
}

// List returns all of the user's categories, served from cache when warm.
func (s *CategoryService) List(ctx context.Context, userID string) ([]domain.Category, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, categoryListKey(userID)); ok {
			return cached, nil
		}
	}
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, categoryListKey(userID), categories)
	}
	return categories, nil
}

// Get returns one category or NotFound.
func (s *CategoryService) Get(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	category, err := s.categories.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	return category, nil
}

// Create stores a new category and invalidates the cached list.
func (s *CategoryService) Create(ctx context.Context, userID string, in repository.CreateCategoryInput) (*domain.Category, error) {
	if !in.Type.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, "unknown category type %q", in.Type)
	}
	category, err := s.categories.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return category, nil
}

// Update merges the provided fields after verifying ownership.
func (s *CategoryService) Update(ctx context.Context, userID, categoryID string, upd repository.CategoryUpdate) (*domain.Category, error) {
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, apperr.Newf(apperr.InvalidInput, "unknown category type %q", *upd.Type)
	}
	if _, err := s.Get(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	category, err := s.categories.Update(ctx, userID, categoryID, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return category, nil
}

// Delete removes a category after verifying ownership.
// TODO: block deletion while transactions still reference the category.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	if _, err := s.Get(ctx, userID, categoryID); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, userID, categoryID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Delete(ctx, categoryListKey(userID))
	}
}
