package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock_quantity"`
}

type Order struct {
	ID        int64       `json:"id"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem freezes the product price at reservation time. Catalog price
// changes after the order is created never touch it.
type OrderItem struct {
	ID               int64           `json:"-"`
	OrderID          int64           `json:"-"`
	ProductID        int64           `json:"product_id"`
	QuantityOrdered  int64           `json:"quantity_ordered"`
	PriceAtOrderTime decimal.Decimal `json:"price_at_time_of_order"`
}

// Line is one (product, quantity) pair of a create-order request.
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	TotalItems  int64     `json:"total_items"`
	TotalPages  int64     `json:"total_pages"`
	CurrentPage int64     `json:"current_page"`
	Items       []Product `json:"items"`
}
