package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/catalog-api/internal/domain/models"
	"github.com/linemk/catalog-api/internal/storage"
)

var (
	ErrInvalidDate     = errors.New("invalid date format, should be YYYY-MM-DD")
	ErrNoProductsFound = errors.New("no products found matching the criteria")
)

// SearchQuery — параметры поиска товаров, пустые строки не фильтруют
type SearchQuery struct {
	ProductName      string
	CategoryName     string
	SupplierName     string
	MinPrice         *int
	MaxPrice         *int
	CreationDateFrom string // YYYY-MM-DD
	CreationDateTo   string // YYYY-MM-DD
}

// SearchResponse — страница результатов поиска
type SearchResponse struct {
	Products      []*models.Product `json:"products"`
	TotalProducts int               `json:"total_products"`
	TotalPages    int               `json:"total_pages"`
	CurrentPage   int               `json:"current_page"`
	Limit         int               `json:"limit"`
}

// SearchService определяет поиск по каталогу товаров.
type SearchService interface {
	SearchProducts(ctx context.Context, query SearchQuery, limit, offset int) (*SearchResponse, error)
}

type searchService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewSearchService(log *slog.Logger, productRepo storage.ProductStorage) SearchService {
	return &searchService{log: log, productRepo: productRepo}
}

// SearchProducts транслирует запрос в фильтр хранилища и строит страницу
// результатов. Пустой результат считается ошибкой not found
func (s *searchService) SearchProducts(ctx context.Context, query SearchQuery, limit, offset int) (*SearchResponse, error) {
	const op = "service.SearchService.SearchProducts"
	logger := s.log.With(slog.String("op", op))

	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPagination)
	}

	filter := storage.ProductFilter{
		Name:         query.ProductName,
		CategoryName: query.CategoryName,
		SupplierName: query.SupplierName,
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
	}

	if query.CreationDateFrom != "" {
		from, err := time.Parse("2006-01-02", query.CreationDateFrom)
		if err != nil {
			return nil, fmt.Errorf("%s: creation_date_from: %w", op, ErrInvalidDate)
		}
		filter.CreatedFrom = &from
	}
	if query.CreationDateTo != "" {
		to, err := time.Parse("2006-01-02", query.CreationDateTo)
		if err != nil {
			return nil, fmt.Errorf("%s: creation_date_to: %w", op, ErrInvalidDate)
		}
		filter.CreatedTo = &to
	}

	products, total, err := s.productRepo.SearchProducts(ctx, filter, limit, offset)
	if err != nil {
		logger.Error("failed to search products", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to search products: %w", op, err)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoProductsFound)
	}

	return &SearchResponse{
		Products:      products,
		TotalProducts: total,
		TotalPages:    (total + limit - 1) / limit,
		CurrentPage:   offset/limit + 1,
		Limit:         limit,
	}, nil
}
