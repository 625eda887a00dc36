package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/linemk/catalog-api/internal/domain/models"
	"github.com/linemk/catalog-api/internal/service"
	"github.com/linemk/catalog-api/internal/storage"
)

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError переводит ошибку сервисного слоя в HTTP-статус и JSON-тело.
// Наружу уходит только каноничное сообщение ошибки, без внутренних префиксов
func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var stockErr *storage.InsufficientStockError

	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.As(err, &stockErr):
		status, msg = http.StatusBadRequest, stockErr.Error()
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPagination),
		errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, storage.ErrUserExists):
		status, msg = http.StatusBadRequest, unwrapMessage(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, storage.ErrOrderNotFound),
		errors.Is(err, storage.ErrProductNotFound),
		errors.Is(err, storage.ErrCategoryNotFound),
		errors.Is(err, storage.ErrSupplierNotFound),
		errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, service.ErrNoProductsFound):
		status, msg = http.StatusNotFound, unwrapMessage(err)
	}

	if status == http.StatusInternalServerError {
		logger.Error("internal error", slog.Any("error", err))
	}
	writeJSON(logger, w, status, errorResponse{Error: msg})
}

// unwrapMessage достаёт сообщение базовой ошибки без операционных префиксов
func unwrapMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

// parsePagination читает limit/offset из query-параметров с дефолтами 10/0
func parsePagination(r *http.Request) (int, int, error) {
	limit := 10
	offset := 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, service.ErrInvalidPagination
		}
		limit = parsed
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, service.ErrInvalidPagination
		}
		offset = parsed
	}
	return limit, offset, nil
}

// parseIDParam читает числовой идентификатор из path-параметра
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return id, nil
}
