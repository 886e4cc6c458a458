// Package model defines domain types shared across the service.
package model

// Product is one immutable catalog entry. Price is an integer count of
// minor currency units (cents), so totals never touch floating point.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int64  `json:"stock"`
}

// CartLine records the chosen quantity for one product.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// Summary holds the derived cart totals. Both figures are computed from
// the same line snapshot and are only ever published together.
type Summary struct {
	TotalQuantity int64 `json:"total_quantity"`
	TotalPrice    int64 `json:"total_price"`
}
