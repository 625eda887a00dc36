package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/catalog-api/internal/service"
)

// CategoryRequest — тело запроса на создание категории
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CategoryUpdateRequest — тело запроса на частичное обновление категории
type CategoryUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateCategoryHandler обрабатывает POST /api/categories (только для администраторов)
func CreateCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateCategoryHandler"
		logger := log.With(slog.String("op", op))

		var req CategoryRequest
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

		category, err := categoryService.CreateCategory(r.Context(), req.Name, req.Description)
		if err != nil {
			logger.Error("failed to create category", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, category)
	}
}

// ListCategoriesHandler обрабатывает GET /api/categories
func ListCategoriesHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCategoriesHandler"
		logger := log.With(slog.String("op", op))

		limit, offset, err := parsePagination(r)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		categories, err := categoryService.ListCategories(r.Context(), limit, offset)
		if err != nil {
			logger.Error("failed to list categories", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, categories)
	}
}

// UpdateCategoryHandler обрабатывает PUT /api/categories/{id} (только для администраторов)
func UpdateCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		var req CategoryUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		category, err := categoryService.UpdateCategory(r.Context(), id, service.CategoryUpdate{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			logger.Warn("failed to update category", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, category)
	}
}

// DeleteCategoryHandler обрабатывает DELETE /api/categories/{id} (только для администраторов)
func DeleteCategoryHandler(log *slog.Logger, categoryService service.CategoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteCategoryHandler"
		logger := log.With(slog.String("op", op))

		id, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		if err := categoryService.DeleteCategory(r.Context(), id); err != nil {
			logger.Warn("failed to delete category", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
