package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	BrandID       *int64          `json:"brand_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	StockStatus   string          `json:"stock_status"`
	ImageURL      string          `json:"image_url,omitempty"`
	Specs         json.RawMessage `json:"specs,omitempty"`
	Reviews       json.RawMessage `json:"reviews,omitempty"`
	IsDeleted     bool            `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	UserID      *int64          `json:"user_id,omitempty"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	KDV         decimal.Decimal `json:"kdv"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItem     `json:"items,omitempty"`
	Address     *DeliveryAddress `json:"delivery_address,omitempty"`
	Payment     *PaymentInfo    `json:"payment_info,omitempty"`
	User        *User           `json:"user,omitempty"`
}

// OrderItem snapshots the product at purchase time; ProductID is a weak
// back-reference and may be nil once the product is gone.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   *int64          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type DeliveryAddress struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	District   string    `json:"district"`
	PostalCode string    `json:"postal_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PaymentInfo holds only the payment status. Card data is validated at
// checkout and never persisted.
type PaymentInfo struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderStatusHistory rows are append-only; nothing updates or deletes them.
type OrderStatusHistory struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderStatusInfo is a row of the seeded status catalog.
type OrderStatusInfo struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	SortOrder   int    `json:"sort_order"`
	Color       string `json:"color"`
}

// OrderListItem is the flattened shape returned by order listings.
type OrderListItem struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	UserEmail   string          `json:"user_email,omitempty"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Status      string          `json:"status"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderSummary aggregates counts and revenue across all orders.
type OrderSummary struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
}

const (
	StatusOrderReceived = "order_received"
	StatusPreparing     = "preparing"
	StatusShipped       = "shipped"
	StatusReturned      = "returned"
	StatusCancelled     = "cancelled"
	StatusCompleted     = "completed"
)

const (
	StockInStock    = "in_stock"
	StockLowStock   = "low_stock"
	StockOutOfStock = "out_of_stock"
)

const (
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
)
