package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/catalog-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/catalog-api/internal/service"
)

// PlaceOrderRequest — тело запроса на оформление заказа
type PlaceOrderRequest struct {
	Products []service.OrderLineInput `json:"products" validate:"required,min=1,dive"`
}

// PlaceOrderHandler обрабатывает POST /api/orders
func PlaceOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PlaceOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeJSON(logger, w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		var req PlaceOrderRequest
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

		order, err := orderService.PlaceOrder(r.Context(), userID, req.Products)
		if err != nil {
			logger.Warn("failed to place order", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, order)
	}
}

// MyOrdersHandler обрабатывает GET /api/orders/my-orders
func MyOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeJSON(logger, w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		limit, offset, err := parsePagination(r)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		status := r.URL.Query().Get("status")

		resp, err := orderService.ListMyOrders(r.Context(), userID, status, limit, offset)
		if err != nil {
			logger.Warn("failed to list orders", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, resp)
	}
}

// AllOrdersHandler обрабатывает GET /api/orders (только для администраторов)
func AllOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AllOrdersHandler"
		logger := log.With(slog.String("op", op))

		limit, offset, err := parsePagination(r)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		orders, err := orderService.ListAllOrders(r.Context(), limit, offset)
		if err != nil {
			logger.Error("failed to list all orders", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, orders)
	}
}

// UpdateOrderRequest — тело запроса на смену статуса заказа
type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderHandler обрабатывает PUT /api/orders/{id} (только для администраторов)
func UpdateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		var req UpdateOrderRequest
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

		order, err := orderService.UpdateStatus(r.Context(), orderID, req.Status)
		if err != nil {
			logger.Warn("failed to update order", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, order)
	}
}

// CancelOrderHandler обрабатывает POST /api/orders/{id}/cancel
// (только для администраторов): отмена с возвратом остатков на склад
func CancelOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CancelOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		order, err := orderService.CancelOrder(r.Context(), orderID)
		if err != nil {
			logger.Warn("failed to cancel order", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, order)
	}
}

// DeleteOrderHandler обрабатывает DELETE /api/orders/{id} (только для
// администраторов). Остатки товаров при удалении не восстанавливаются
func DeleteOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := parseIDParam(r, "id")
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		if err := orderService.DeleteOrder(r.Context(), orderID); err != nil {
			logger.Warn("failed to delete order", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
