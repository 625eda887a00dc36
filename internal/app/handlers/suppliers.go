package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/catalog-api/internal/service"
)

// SupplierRequest — тело запроса на создание поставщика
type SupplierRequest struct {
	Name         string `json:"name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	PhoneNumber  string `json:"phone_number" validate:"required"`
}

// SupplierUpdateRequest — тело запроса на частичное обновление поставщика
type SupplierUpdateRequest struct {
	Name         *string `json:"name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
}

// CreateSupplierHandler обрабатывает POST /api/suppliers (только для администраторов)
func CreateSupplierHandler(log *slog.Logger, supplierService service.SupplierService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateSupplierHandler"
		logger := log.With(slog.String("op", op))

		var req SupplierRequest
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

		supplier, err := supplierService.CreateSupplier(r.Context(), req.Name, req.ContactEmail, req.PhoneNumber)
		if err != nil {
			logger.Error("failed to create supplier", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, supplier)
	}
}

// ListSuppliersHandler обрабатывает GET /api/suppliers
func ListSuppliersHandler(log *slog.Logger, supplierService service.SupplierService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListSuppliersHandler"
		logger := log.With(slog.String("op", op))

		limit, offset, err := parsePagination(r)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		suppliers, err := supplierService.ListSuppliers(r.Context(), limit, offset)
		if err != nil {
			logger.Error("failed to list suppliers", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, suppliers)
	}
}

// UpdateSupplierHandler обрабатывает PUT /api/suppliers/{id} (только для администраторов)
func UpdateSupplierHandler(log *slog.Logger, supplierService service.SupplierService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateSupplierHandler"
		logger := log.With(slog.String("op", op))

		id, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		var req SupplierUpdateRequest
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

		supplier, err := supplierService.UpdateSupplier(r.Context(), id, service.SupplierUpdate{
			Name:         req.Name,
			ContactEmail: req.ContactEmail,
			PhoneNumber:  req.PhoneNumber,
		})
		if err != nil {
			logger.Warn("failed to update supplier", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, supplier)
	}
}

// DeleteSupplierHandler обрабатывает DELETE /api/suppliers/{id} (только для администраторов)
func DeleteSupplierHandler(log *slog.Logger, supplierService service.SupplierService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteSupplierHandler"
		logger := log.With(slog.String("op", op))

		id, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		if err := supplierService.DeleteSupplier(r.Context(), id); err != nil {
			logger.Warn("failed to delete supplier", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
