package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-keeper/internal/config"
	"stock-keeper/internal/model"
	"stock-keeper/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	metrics      *Metrics
	cfg          config.InventoryConfig
	logger       zerolog.Logger
	now          func() time.Time
}

// NewProductService creates a new product service. metrics may be nil.
func NewProductService(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	metrics *Metrics,
	cfg config.InventoryConfig,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		metrics:      metrics,
		cfg:          cfg,
		logger:       logger.With().Str("service", "product").Logger(),
		now:          time.Now,
	}
}

// Create builds a product from the request and stores it. The request's
// optional fields select the constructor: id present uses the full form,
// only price present omits the id, neither present keeps name and stock.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, fmt.Errorf("create request is nil")
	}

	product, err := s.build(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("name", req.Name).Msg("product rejected")
		s.metrics.observe("create", err)
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.metrics.observe("create", err)
		if model.KindOf(err) != 0 {
			return nil, err
		}
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.metrics.observe("create", nil)
	s.logger.Info().
		Int("product_id", product.ID()).
		Str("name", product.Name()).
		Msg("product created successfully")

	return product, nil
}

func (s *productService) build(req *model.CreateProductRequest) (*model.Product, error) {
	var opts []model.Option
	if s.cfg.AllowUnassignedID {
		opts = append(opts, model.AllowUnassignedID())
	}

	switch {
	case req.ID != nil:
		if s.cfg.AllowUnassignedID && *req.ID >= model.FirstAssignedID {
			return nil, model.ErrReservedID
		}
		var price float64
		if req.Price != nil {
			price = *req.Price
		}
		return model.NewProduct(*req.ID, req.Name, price, req.StockQuantity, opts...)
	case req.Price != nil:
		return model.NewProductWithoutID(req.Name, *req.Price, req.StockQuantity, opts...)
	default:
		return model.NewProductWithStock(req.Name, req.StockQuantity, opts...)
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]*model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int) (*model.Product, error) {
	if id <= 0 {
		return nil, model.ErrInvalidID
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// ChangePrice applies Product.ChangePrice to a stored product.
func (s *productService) ChangePrice(ctx context.Context, id int, price float64) (*model.Product, error) {
	return s.mutate(ctx, id, "change_price", func(p *model.Product) (*model.StockMovement, error) {
		return nil, p.ChangePrice(price)
	})
}

// UpdateStock applies Product.UpdateStock to a stored product.
func (s *productService) UpdateStock(ctx context.Context, id, quantity int, op model.StockOperation) (*model.Product, error) {
	return s.mutate(ctx, id, "update_stock", func(p *model.Product) (*model.StockMovement, error) {
		if err := p.UpdateStock(quantity, op); err != nil {
			return nil, err
		}
		return &model.StockMovement{Kind: model.MovementUpdate, Operation: op, Quantity: quantity}, nil
	})
}

// Restock applies Product.Restock to a stored product.
func (s *productService) Restock(ctx context.Context, id, quantity int) (*model.Product, error) {
	return s.mutate(ctx, id, "restock", func(p *model.Product) (*model.StockMovement, error) {
		if err := p.Restock(quantity); err != nil {
			return nil, err
		}
		return &model.StockMovement{Kind: model.MovementRestock, Operation: model.StockAdd, Quantity: quantity}, nil
	})
}

// Sell applies Product.Sell to a stored product.
func (s *productService) Sell(ctx context.Context, id, quantity int) (*model.Product, error) {
	return s.mutate(ctx, id, "sell", func(p *model.Product) (*model.StockMovement, error) {
		if err := p.Sell(quantity); err != nil {
			return nil, err
		}
		return &model.StockMovement{Kind: model.MovementSale, Operation: model.StockSubtract, Quantity: quantity}, nil
	})
}

// Movements retrieves the most recent stock movements of a product.
func (s *productService) Movements(ctx context.Context, id, limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = s.cfg.PageLimit()
	}
	if limit > s.cfg.PageMax() {
		limit = s.cfg.PageMax()
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.ListByProduct(ctx, id, limit)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", id).Msg("failed to get stock movements")
		return nil, fmt.Errorf("failed to get stock movements: %w", err)
	}

	return movements, nil
}

// mutate loads the product with its row locked, applies fn and persists the
// result together with the movement fn returns, if any. A rejected operation
// rolls the transaction back and leaves the stored product unchanged.
func (s *productService) mutate(
	ctx context.Context,
	id int,
	operation string,
	fn func(p *model.Product) (*model.StockMovement, error),
) (*model.Product, error) {
	if id <= 0 {
		s.metrics.observe(operation, model.ErrInvalidID)
		return nil, model.ErrInvalidID
	}

	var (
		result   *model.Product
		movement *model.StockMovement
	)

	err := repository.WithTx(ctx, s.productRepo, s.logger, func(tx pgx.Tx) error {
		product, err := s.productRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to load product: %w", err)
		}
		if product == nil {
			return model.ErrProductNotFound
		}

		movement, err = fn(product)
		if err != nil {
			return err
		}

		if err := s.productRepo.Update(ctx, tx, product); err != nil {
			return err
		}

		if movement != nil {
			movement.ID = uuid.New()
			movement.ProductID = product.ID()
			movement.StockAfter = product.StockQuantity()
			movement.CreatedAt = s.now().UTC()
			if err := s.movementRepo.Create(ctx, tx, movement); err != nil {
				return err
			}
		}

		result = product
		return nil
	})

	s.metrics.observe(operation, err)

	if err != nil {
		var de *model.DomainError
		if errors.As(err, &de) {
			s.logger.Warn().
				Int("product_id", id).
				Str("operation", operation).
				Str("code", de.Code).
				Msg("product operation rejected")
			return nil, err
		}
		s.logger.Error().Err(err).Int("product_id", id).Str("operation", operation).Msg("product operation failed")
		return nil, fmt.Errorf("failed to %s: %w", operation, err)
	}

	if movement != nil {
		s.metrics.moved(movement.Operation, movement.Quantity)
	}

	s.logger.Info().
		Int("product_id", id).
		Str("operation", operation).
		Float64("price", result.Price()).
		Int("stock_quantity", result.StockQuantity()).
		Msg("product operation applied")

	return result, nil
}
