package models

// Supplier представляет поставщика товаров
type Supplier struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	PhoneNumber  string `json:"phone_number"`
}
