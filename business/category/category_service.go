package category

import (
	"context"
	"fmt"
	"strings"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/serrors"
)

// CategoryRepository contract interface
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to find all categories", "error", err)
		return nil, err
	}

	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uint) (domain.Category, error) {
	if id == 0 {
		return domain.Category{}, serrors.With(serrors.ErrBadRequest, "invalid category id")
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find category", "id", id, "error", err)
		return domain.Category{}, err
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "category name is required")
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.Error("failed to create category", "error", err)
		return nil, err
	}

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category.ID == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "category id is required")
	}

	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "category name is required")
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		logger.Error("failed to update category", "id", category.ID, "error", err)
		return nil, err
	}

	updated, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if id == 0 {
		return serrors.With(serrors.ErrBadRequest, "invalid category id")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete category", "id", id, "error", err)
		return err
	}

	return nil
}
