package models

import "time"

// Product представляет товар каталога.
// Quantity — доступный остаток на складе, изменяется только при резервировании
// во время оформления заказа, при отмене заказа и через CRUD каталога.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int       `json:"price"` // цена в минимальных единицах валюты
	CreatedAt   time.Time `json:"created_at"`
	CategoryID  int64     `json:"category_id"`
	SupplierID  int64     `json:"supplier_id"`
	Quantity    int       `json:"quantity"`
	PhotoPath   *string   `json:"photo_path,omitempty"`
}
