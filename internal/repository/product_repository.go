package repository

import (
	"context"
	"errors"
	"fmt"

	"stock-keeper/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *productRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	if !product.HasID() {
		var id int
		if err := r.pool.QueryRow(ctx, `SELECT nextval('product_id_seq')`).Scan(&id); err != nil {
			r.logger.Error().Err(err).Msg("failed to allocate product id")
			return fmt.Errorf("failed to allocate product id: %w", err)
		}
		if err := product.AssignID(id); err != nil {
			return err
		}
		r.logger.Debug().Int("product_id", id).Msg("product id allocated from sequence")
	}

	query := `
		INSERT INTO products (id, name, price, stock_quantity)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, product.ID(), product.Name(), product.Price(), product.StockQuantity())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			r.logger.Warn().Int("product_id", product.ID()).Msg("duplicate product id")
			return model.ErrDuplicateProductID
		}
		r.logger.Error().Err(err).Int("product_id", product.ID()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Int("product_id", product.ID()).Msg("product created successfully")

	return nil
}

// GetAll retrieves products ordered by id with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]*model.Product, error) {
	query := `
		SELECT id, name, price, stock_quantity
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int) (*model.Product, error) {
	query := `
		SELECT id, name, price, stock_quantity
		FROM products
		WHERE id = $1
	`

	return r.getOne(r.pool.QueryRow(ctx, query, id), id)
}

// GetForUpdate retrieves a product and locks its row until tx ends.
func (r *productRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Product, error) {
	query := `
		SELECT id, name, price, stock_quantity
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	return r.getOne(tx.QueryRow(ctx, query, id), id)
}

func (r *productRepository) getOne(row pgx.Row, id int) (*model.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// Update writes the product's price and stock within the provided transaction.
func (r *productRepository) Update(ctx context.Context, tx pgx.Tx, product *model.Product) error {
	query := `
		UPDATE products
		SET price = $2, stock_quantity = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, product.ID(), product.Price(), product.StockQuantity())
	if err != nil {
		r.logger.Error().Err(err).Int("product_id", product.ID()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// scanProduct reads one row and rebuilds the product through the validating
// constructor, so a row that breaks an invariant surfaces as an error.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var v model.ProductView
	if err := row.Scan(&v.ID, &v.Name, &v.Price, &v.StockQuantity); err != nil {
		return nil, err
	}

	p, err := model.NewProduct(v.ID, v.Name, v.Price, v.StockQuantity)
	if err != nil {
		return nil, fmt.Errorf("stored product %d is invalid: %v", v.ID, err)
	}
	return p, nil
}
