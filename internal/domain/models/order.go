package models

import (
	"errors"
	"time"
)

// OrderStatus — статус заказа, закрытый набор значений
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var ErrUnknownStatus = errors.New("unknown order status")

// ParseOrderStatus проверяет, что строка является известным статусом заказа
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrUnknownStatus
}

// statusTransitions описывает допустимые переходы между статусами:
// delivered и cancelled — терминальные состояния
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped: {StatusDelivered, StatusCancelled},
}

// CanTransition сообщает, допустим ли переход из текущего статуса в to
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order представляет шапку заказа. OrderDate выставляется сервером при
// создании и далее не меняется; Status — единственное изменяемое поле
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	OrderDate time.Time   `json:"order_date"`
	Status    OrderStatus `json:"status"`
}

// OrderLine — позиция заказа: товар и количество на момент оформления.
// Количество — снимок, последующие изменения товара его не затрагивают
type OrderLine struct {
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
