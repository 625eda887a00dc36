package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/catalog-api/internal/service"
)

// ProductRequest — тело запроса на создание товара
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       int     `json:"price" validate:"required,gt=0"`
	CategoryID  int64   `json:"category_id" validate:"required"`
	SupplierID  int64   `json:"supplier_id" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	PhotoPath   *string `json:"photo_path,omitempty"`
}

// ProductUpdateRequest — тело запроса на частичное обновление товара
type ProductUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int    `json:"price,omitempty" validate:"omitempty,gt=0"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	SupplierID  *int64  `json:"supplier_id,omitempty"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	PhotoPath   *string `json:"photo_path,omitempty"`
}

// CreateProductHandler обрабатывает POST /api/products (только для администраторов)
func CreateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "validation error"})
			return
		}

		product, err := productService.CreateProduct(r.Context(), service.ProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			SupplierID:  req.SupplierID,
			Quantity:    req.Quantity,
			PhotoPath:   req.PhotoPath,
		})
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, product)
	}
}

// GetProductHandler обрабатывает GET /api/products/{id}
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		product, err := productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("failed to get product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, product)
	}
}

// ListProductsHandler обрабатывает GET /api/products
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		limit, offset, err := parsePagination(r)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		products, err := productService.ListProducts(r.Context(), limit, offset)
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, products)
	}
}

// UpdateProductHandler обрабатывает PUT /api/products/{id} (только для администраторов)
func UpdateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		var req ProductUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "validation error"})
			return
		}

		product, err := productService.UpdateProduct(r.Context(), id, service.ProductUpdate{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			SupplierID:  req.SupplierID,
			Quantity:    req.Quantity,
			PhotoPath:   req.PhotoPath,
		})
		if err != nil {
			logger.Warn("failed to update product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, product)
	}
}

// DeleteProductHandler обрабатывает DELETE /api/products/{id} (только для администраторов)
func DeleteProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		if err := productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Warn("failed to delete product", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
