package model

// CreateProductRequest represents the request payload for creating a product.
// The constructor form is chosen by which optional fields are present.
type CreateProductRequest struct {
	ID            *int     `json:"id,omitempty"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price,omitempty"`
	StockQuantity int      `json:"stockQuantity"`
}

// ChangePriceRequest represents the request payload for a price change.
type ChangePriceRequest struct {
	Price float64 `json:"price"`
}

// UpdateStockRequest represents the request payload for a stock update.
type UpdateStockRequest struct {
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation"`
}

// QuantityRequest represents the request payload for restock and sale.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}
