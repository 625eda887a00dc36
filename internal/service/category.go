package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/catalog-api/internal/domain/models"
	"github.com/linemk/catalog-api/internal/storage"
)

// CategoryUpdate — частичное обновление, nil-поля не меняются
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// CategoryService определяет CRUD-операции над категориями.
type CategoryService interface {
	CreateCategory(ctx context.Context, name, description string) (*models.Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, upd CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	log          *slog.Logger
	categoryRepo storage.CategoryStorage
}

func NewCategoryService(log *slog.Logger, categoryRepo storage.CategoryStorage) CategoryService {
	return &categoryService{log: log, categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	const op = "service.CategoryService.CreateCategory"

	category, err := s.categoryRepo.CreateCategory(ctx, &models.Category{Name: name, Description: description})
	if err != nil {
		s.log.Error("failed to create category", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create category: %w", op, err)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	const op = "service.CategoryService.ListCategories"

	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPagination)
	}

	categories, err := s.categoryRepo.ListCategories(ctx, limit, offset)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list categories: %w", op, err)
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, upd CategoryUpdate) (*models.Category, error) {
	const op = "service.CategoryService.UpdateCategory"
	logger := s.log.With(slog.String("op", op), slog.Int64("categoryID", id))

	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		logger.Warn("failed to get category", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name != nil {
		category.Name = *upd.Name
	}
	if upd.Description != nil {
		category.Description = *upd.Description
	}

	if err := s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		logger.Error("failed to update category", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update category: %w", op, err)
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	const op = "service.CategoryService.DeleteCategory"

	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		s.log.Warn("failed to delete category", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
