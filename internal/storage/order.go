package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/catalog-api/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами и их позициями.
// Методы с суффиксом Tx участвуют в транзакции оформления/отмены заказа.
type OrderStorage interface {
	// CreateOrderTx вставляет шапку заказа и возвращает её с серверными id и датой.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64) (*models.Order, error)
	// AddOrderLineTx добавляет позицию заказа с зафиксированным количеством.
	AddOrderLineTx(ctx context.Context, tx *sql.Tx, orderID, productID int64, quantity int) error
	// GetOrderLinesTx перечитывает позиции заказа внутри транзакции.
	GetOrderLinesTx(ctx context.Context, tx *sql.Tx, orderID int64) ([]*models.OrderLine, error)
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	// GetOrderForUpdateTx блокирует заказ на время смены статуса/отмены.
	GetOrderForUpdateTx(ctx context.Context, tx *sql.Tx, orderID int64) (*models.Order, error)
	GetOrderLines(ctx context.Context, orderID int64) ([]*models.OrderLine, error)
	CountOrdersByUser(ctx context.Context, userID int64, status *models.OrderStatus) (int, error)
	ListOrdersByUser(ctx context.Context, userID int64, status *models.OrderStatus, limit, offset int) ([]*models.Order, error)
	ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
	UpdateOrderStatusTx(ctx context.Context, tx *sql.Tx, orderID int64, status models.OrderStatus) error
	// DeleteOrder удаляет заказ, позиции удаляются каскадно (FK ON DELETE CASCADE).
	DeleteOrder(ctx context.Context, orderID int64) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64) (*models.Order, error) {
	order := &models.Order{UserID: userID, Status: models.StatusPending}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, status, order_date) VALUES ($1, $2, NOW())
		 RETURNING id, order_date`,
		userID, models.StatusPending,
	).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) AddOrderLineTx(ctx context.Context, tx *sql.Tx, orderID, productID int64, quantity int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_products (order_id, product_id, quantity) VALUES ($1, $2, $3)`,
		orderID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add order line: %w", err)
	}
	return nil
}

const orderLinesQuery = "SELECT order_id, product_id, quantity FROM order_products WHERE order_id = $1"

func scanOrderLines(rows *sql.Rows) ([]*models.OrderLine, error) {
	defer rows.Close()

	var lines []*models.OrderLine
	for rows.Next() {
		line := &models.OrderLine{}
		if err := rows.Scan(&line.OrderID, &line.ProductID, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *orderRepository) GetOrderLinesTx(ctx context.Context, tx *sql.Tx, orderID int64) ([]*models.OrderLine, error) {
	rows, err := tx.QueryContext(ctx, orderLinesQuery, orderID)
	if err != nil {
		return nil, err
	}
	return scanOrderLines(rows)
}

func (r *orderRepository) GetOrderLines(ctx context.Context, orderID int64) ([]*models.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, orderLinesQuery, orderID)
	if err != nil {
		return nil, err
	}
	return scanOrderLines(rows)
}

func (r *orderRepository) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, order_date, status FROM orders WHERE id = $1", orderID)
	if err := row.Scan(&order.ID, &order.UserID, &order.OrderDate, &order.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderForUpdateTx(ctx context.Context, tx *sql.Tx, orderID int64) (*models.Order, error) {
	order := &models.Order{}
	row := tx.QueryRowContext(ctx,
		"SELECT id, user_id, order_date, status FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if err := row.Scan(&order.ID, &order.UserID, &order.OrderDate, &order.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) CountOrdersByUser(ctx context.Context, userID int64, status *models.OrderStatus) (int, error) {
	var total int
	var err error
	if status != nil {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = $2", userID, *status).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM orders WHERE user_id = $1", userID).Scan(&total)
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

func scanOrders(rows *sql.Rows) ([]*models.Order, error) {
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.OrderDate, &order.Status); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID int64, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	var rows *sql.Rows
	var err error
	if status != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, user_id, order_date, status FROM orders
			 WHERE user_id = $1 AND status = $2 ORDER BY id LIMIT $3 OFFSET $4`,
			userID, *status, limit, offset)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, user_id, order_date, status FROM orders
			 WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
			userID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *orderRepository) ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, order_date, status FROM orders ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderStatusTx(ctx context.Context, tx *sql.Tx, orderID int64, status models.OrderStatus) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
