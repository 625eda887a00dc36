package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/catalog-api/internal/domain/models"
	"github.com/linemk/catalog-api/internal/storage"
)

// ProductInput — данные для создания товара
type ProductInput struct {
	Name        string
	Description string
	Price       int
	CategoryID  int64
	SupplierID  int64
	Quantity    int
	PhotoPath   *string
}

// ProductUpdate — частичное обновление, nil-поля не меняются.
// Quantity здесь — прямая правка остатка через CRUD каталога (restock),
// а не резервирование
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *int
	CategoryID  *int64
	SupplierID  *int64
	Quantity    *int
	PhotoPath   *string
}

// ProductService определяет CRUD-операции над товарами.
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewProductService(log *slog.Logger, productRepo storage.ProductStorage) ProductService {
	return &productService{log: log, productRepo: productRepo}
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	const op = "service.ProductService.CreateProduct"

	if input.Quantity < 0 || input.Price < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	product, err := s.productRepo.CreateProduct(ctx, &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		SupplierID:  input.SupplierID,
		Quantity:    input.Quantity,
		PhotoPath:   input.PhotoPath,
	})
	if err != nil {
		s.log.Error("failed to create product", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.ProductService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		s.log.Warn("failed to get product", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	const op = "service.ProductService.ListProducts"

	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPagination)
	}

	products, err := s.productRepo.ListProducts(ctx, limit, offset)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) (*models.Product, error) {
	const op = "service.ProductService.UpdateProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		logger.Warn("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.CategoryID != nil {
		product.CategoryID = *upd.CategoryID
	}
	if upd.SupplierID != nil {
		product.SupplierID = *upd.SupplierID
	}
	if upd.Quantity != nil {
		if *upd.Quantity < 0 {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
		}
		product.Quantity = *upd.Quantity
	}
	if upd.PhotoPath != nil {
		product.PhotoPath = upd.PhotoPath
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		logger.Error("failed to update product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update product: %w", op, err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "service.ProductService.DeleteProduct"

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		s.log.Warn("failed to delete product", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
