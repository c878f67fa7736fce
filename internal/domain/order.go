package domain

import "time"

// OrderItem is one purchased line inside a past order.
type OrderItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	Amount         int    `json:"amount"`
	Color          string `json:"color,omitempty"`
	Size           string `json:"size,omitempty"`
	SelectedOption string `json:"selected_option,omitempty"`
}

// Order is a past order as reported by the tenant backend.
type Order struct {
	ID           string      `json:"id"`
	Items        []OrderItem `json:"items"`
	Total        int64       `json:"total"`
	DeliveryCost int64       `json:"delivery_cost"`
	Courier      string      `json:"courier,omitempty"`
	Status       string      `json:"status"`
	PaymentMode  string      `json:"payment_mode,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
