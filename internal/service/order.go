package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/catalog-api/internal/domain/models"
	"github.com/linemk/catalog-api/internal/storage"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one product")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// OrderLineInput — запрошенная позиция заказа
type OrderLineInput struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// OrderProduct — позиция заказа в ответе, количество — снимок на момент оформления
type OrderProduct struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderResponse — заказ вместе со всеми позициями, как он отдаётся клиенту
type OrderResponse struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	OrderDate string         `json:"order_date"` // ISO-8601
	Status    string         `json:"status"`
	Products  []OrderProduct `json:"products"`
}

// OrderListResponse — страница собственных заказов пользователя
type OrderListResponse struct {
	CurrentPage int              `json:"current_page"`
	TotalPages  int              `json:"total_pages"`
	Orders      []*OrderResponse `json:"orders"`
}

// OrderService определяет операции над заказами.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64, lines []OrderLineInput) (*OrderResponse, error)
	ListMyOrders(ctx context.Context, userID int64, status string, limit, offset int) (*OrderListResponse, error)
	ListAllOrders(ctx context.Context, limit, offset int) ([]*OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID int64, newStatus string) (*OrderResponse, error)
	CancelOrder(ctx context.Context, orderID int64) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	orderRepo   storage.OrderStorage
	productRepo storage.ProductStorage
}

func NewOrderService(log *slog.Logger, db *sql.DB, orderRepo storage.OrderStorage, productRepo storage.ProductStorage) OrderService {
	return &orderService{
		log:         log,
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// PlaceOrder оформляет заказ: шапка, резервирование остатков и позиции
// создаются в одной транзакции. Любая ошибка на любой позиции откатывает
// всё целиком — частично оформленный заказ не может стать видимым
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, lines []OrderLineInput) (*OrderResponse, error) {
	const op = "service.OrderService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("starting order placement", slog.Int("lines", len(lines)))

	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%s: product %d: %w", op, line.ProductID, ErrInvalidQuantity)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Создаем шапку заказа, чтобы позиции могли на неё ссылаться
	order, err := s.orderRepo.CreateOrderTx(ctx, tx, userID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// Позиции обрабатываются строго в порядке запроса: после первой ошибки
	// дальнейшие резервирования не выполняются
	for _, line := range lines {
		if err := s.productRepo.ReserveStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Warn("failed to reserve stock",
				slog.Int64("productID", line.ProductID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if err := s.orderRepo.AddOrderLineTx(ctx, tx, order.ID, line.ProductID, line.Quantity); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to add order line", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	// Перечитываем сохранённые позиции перед коммитом
	savedLines, err := s.orderRepo.GetOrderLinesTx(ctx, tx, order.ID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to read order lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to read order lines: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order placed successfully", slog.Int64("orderID", order.ID))
	return buildOrderResponse(order, savedLines), nil
}

// ListMyOrders возвращает страницу заказов пользователя с опциональным
// фильтром по статусу
func (s *orderService) ListMyOrders(ctx context.Context, userID int64, status string, limit, offset int) (*OrderListResponse, error) {
	const op = "service.OrderService.ListMyOrders"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPagination)
	}

	var statusFilter *models.OrderStatus
	if status != "" {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		statusFilter = &parsed
	}

	total, err := s.orderRepo.CountOrdersByUser(ctx, userID, statusFilter)
	if err != nil {
		logger.Error("failed to count orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to count orders: %w", op, err)
	}

	orders, err := s.orderRepo.ListOrdersByUser(ctx, userID, statusFilter, limit, offset)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}

	responses, err := s.buildOrderResponses(ctx, orders)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &OrderListResponse{
		CurrentPage: offset/limit + 1,
		TotalPages:  (total + limit - 1) / limit,
		Orders:      responses,
	}, nil
}

// ListAllOrders возвращает заказы всех пользователей (только для администраторов)
func (s *orderService) ListAllOrders(ctx context.Context, limit, offset int) ([]*OrderResponse, error) {
	const op = "service.OrderService.ListAllOrders"

	if limit < 1 || offset < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPagination)
	}

	orders, err := s.orderRepo.ListAllOrders(ctx, limit, offset)
	if err != nil {
		s.log.Error("failed to list all orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}

	responses, err := s.buildOrderResponses(ctx, orders)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return responses, nil
}

// UpdateStatus переводит заказ в новый статус. Метка должна входить в
// закрытый набор, а переход — в таблицу допустимых переходов
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, newStatus string) (*OrderResponse, error) {
	const op = "service.OrderService.UpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	parsed, err := models.ParseOrderStatus(newStatus)
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, newStatus, err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		logger.Warn("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !order.Status.CanTransition(parsed) {
		logger.Warn("illegal status transition",
			slog.String("from", string(order.Status)), slog.String("to", string(parsed)))
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, order.Status, parsed, ErrIllegalTransition)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, parsed); err != nil {
		logger.Error("failed to update status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update status: %w", op, err)
	}
	order.Status = parsed

	lines, err := s.orderRepo.GetOrderLines(ctx, orderID)
	if err != nil {
		logger.Error("failed to get order lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order lines: %w", op, err)
	}

	logger.Info("order status updated", slog.String("status", string(parsed)))
	return buildOrderResponse(order, lines), nil
}

// CancelOrder отменяет заказ и возвращает зарезервированные количества на
// склад — в отличие от удаления, которое остатки не трогает
func (s *orderService) CancelOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	const op = "service.OrderService.CancelOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))
	logger.Info("starting order cancellation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order, err := s.orderRepo.GetOrderForUpdateTx(ctx, tx, orderID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !order.Status.CanTransition(models.StatusCancelled) {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("order cannot be cancelled", slog.String("status", string(order.Status)))
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, order.Status, models.StatusCancelled, ErrIllegalTransition)
	}

	lines, err := s.orderRepo.GetOrderLinesTx(ctx, tx, orderID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to get order lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order lines: %w", op, err)
	}

	// Возвращаем каждую позицию на склад
	for _, line := range lines {
		if err := s.productRepo.RestockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to restock product",
				slog.Int64("productID", line.ProductID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to restock product: %w", op, err)
		}
	}

	if err := s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, models.StatusCancelled); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to update status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update status: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	order.Status = models.StatusCancelled
	logger.Info("order cancelled successfully")
	return buildOrderResponse(order, lines), nil
}

// DeleteOrder удаляет заказ вместе с позициями. Остатки товаров намеренно
// не восстанавливаются — для этого есть CancelOrder
func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	const op = "service.OrderService.DeleteOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	if err := s.orderRepo.DeleteOrder(ctx, orderID); err != nil {
		logger.Warn("failed to delete order", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order deleted")
	return nil
}

func (s *orderService) buildOrderResponses(ctx context.Context, orders []*models.Order) ([]*OrderResponse, error) {
	responses := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		lines, err := s.orderRepo.GetOrderLines(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get order lines: %w", err)
		}
		responses = append(responses, buildOrderResponse(order, lines))
	}
	return responses, nil
}

func buildOrderResponse(order *models.Order, lines []*models.OrderLine) *OrderResponse {
	products := make([]OrderProduct, 0, len(lines))
	for _, line := range lines {
		products = append(products, OrderProduct{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return &OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		OrderDate: order.OrderDate.Format(time.RFC3339),
		Status:    string(order.Status),
		Products:  products,
	}
}
