package service

import (
	"context"

	"stock-keeper/internal/model"
)

// ProductService defines operations for product management.
// Every mutation runs in its own transaction with the product row locked, so
// concurrent callers never interleave on the same product.
type ProductService interface {
	// Create builds a product from the request and stores it.
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]*model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int) (*model.Product, error)

	// ChangePrice applies Product.ChangePrice to a stored product.
	ChangePrice(ctx context.Context, id int, price float64) (*model.Product, error)

	// UpdateStock applies Product.UpdateStock to a stored product.
	UpdateStock(ctx context.Context, id, quantity int, op model.StockOperation) (*model.Product, error)

	// Restock applies Product.Restock to a stored product.
	Restock(ctx context.Context, id, quantity int) (*model.Product, error)

	// Sell applies Product.Sell to a stored product.
	Sell(ctx context.Context, id, quantity int) (*model.Product, error)

	// Movements retrieves the most recent stock movements of a product.
	Movements(ctx context.Context, id, limit int) ([]model.StockMovement, error)
}
