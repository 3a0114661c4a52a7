package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a shop_products row. Price is in centi-ZC.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderStatus tracks shop order fulfilment.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderFulfilled OrderStatus = "fulfilled"
	OrderCancelled OrderStatus = "cancelled"
)

// Order represents a shop_orders row. The redemption debit and the order row
// are written in one database transaction.
type Order struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	ProductID     uuid.UUID   `json:"product_id"`
	Price         int64       `json:"price"` // centi-ZC at redemption time
	Status        OrderStatus `json:"status"`
	TransactionID uuid.UUID   `json:"transaction_id"`
	CreatedAt     time.Time   `json:"created_at"`
}
