package repository

import (
	"context"
	"fmt"

	"stock-keeper/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// movementRepository implements the MovementRepository interface using PostgreSQL.
type movementRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMovementRepository creates a new PostgreSQL-backed stock movement repository.
func NewMovementRepository(pool *pgxpool.Pool, logger zerolog.Logger) MovementRepository {
	return &movementRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "movement").Logger(),
	}
}

// Create inserts a movement within the provided transaction.
func (r *movementRepository) Create(ctx context.Context, tx pgx.Tx, movement *model.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, kind, operation, quantity, stock_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		movement.ID,
		movement.ProductID,
		string(movement.Kind),
		movement.Operation.String(),
		movement.Quantity,
		movement.StockAfter,
		movement.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("movement_id", movement.ID.String()).
			Int("product_id", movement.ProductID).
			Msg("failed to create stock movement")
		return fmt.Errorf("failed to create stock movement: %w", err)
	}

	r.logger.Debug().
		Str("movement_id", movement.ID.String()).
		Int("product_id", movement.ProductID).
		Str("kind", string(movement.Kind)).
		Msg("stock movement created successfully")

	return nil
}

// ListByProduct retrieves the most recent movements of a product, newest first.
func (r *movementRepository) ListByProduct(ctx context.Context, productID int, limit int) ([]model.StockMovement, error) {
	query := `
		SELECT id, product_id, kind, operation, quantity, stock_after, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, productID, limit)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int("product_id", productID).
			Msg("failed to query stock movements")
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	movements := []model.StockMovement{}
	for rows.Next() {
		var (
			m    model.StockMovement
			kind string
			op   string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &kind, &op, &m.Quantity, &m.StockAfter, &m.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan stock movement row")
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}

		m.Kind = model.MovementKind(kind)
		m.Operation, err = model.ParseStockOperation(op)
		if err != nil {
			return nil, fmt.Errorf("stored movement %s has operation %q: %w", m.ID, op, err)
		}
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating stock movement rows")
		return nil, fmt.Errorf("error iterating stock movements: %w", err)
	}

	return movements, nil
}
