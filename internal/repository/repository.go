package repository

import (
	"context"

	"stock-keeper/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
// Products are always rebuilt through the validating model constructors.
type ProductRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new product. A product without an id receives one
	// from the product id sequence.
	Create(ctx context.Context, product *model.Product) error

	// GetAll retrieves products ordered by id with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]*model.Product, error)

	// GetByID retrieves a single product by its ID. It returns nil, nil when
	// no product matches.
	GetByID(ctx context.Context, id int) (*model.Product, error)

	// GetForUpdate retrieves a product and locks its row until tx ends.
	// It returns nil, nil when no product matches.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Product, error)

	// Update writes the product's price and stock within the provided transaction.
	Update(ctx context.Context, tx pgx.Tx, product *model.Product) error
}

// MovementRepository defines the interface for the stock movement ledger.
type MovementRepository interface {
	// Create inserts a movement within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, movement *model.StockMovement) error

	// ListByProduct retrieves the most recent movements of a product, newest first.
	ListByProduct(ctx context.Context, productID int, limit int) ([]model.StockMovement, error)
}
