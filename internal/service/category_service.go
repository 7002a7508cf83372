package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Get returns the category or nil when no category has this id
func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Create stores a new category after checking the name is free.
// The check and the insert are separate statements, so concurrent creates of
// the same name can both succeed.
func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	if err := s.ensureNameAvailable(ctx, name); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// Update renames a category. The duplicate check does not exempt the category
// itself, so renaming to the current name is rejected.
func (s *categoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	if err := s.ensureNameAvailable(ctx, name); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Update(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *categoryService) ensureNameAvailable(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrRequiredFields
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return ErrCategoryAlreadyExists
	}
	return nil
}
