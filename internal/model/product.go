package model

import (
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// MinNameLength is the minimum number of characters in a product name.
	MinNameLength = 4

	// MaxPriceFactor bounds a single price change: a new price at or above
	// the current price times this factor is rejected.
	MaxPriceFactor = 100

	// FirstAssignedID is the first id handed out by the store's id sequence.
	// Explicit ids at or above it are refused while unassigned ids are enabled.
	FirstAssignedID = 1000
)

// Product is a single inventory item whose fields are validated on every write.
//
// A Product is not safe for concurrent mutation. Callers sharing one value
// across goroutines must serialise ChangePrice, UpdateStock, Restock and Sell
// themselves; the service package does so with a row lock per product.
type Product struct {
	id            int
	name          string
	price         float64
	stockQuantity int

	allowUnassignedID bool
}

// ProductView is a read-only copy of a Product's fields, used for JSON
// responses and storage.
type ProductView struct {
	ID            int     `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Price         float64 `json:"price" db:"price"`
	StockQuantity int     `json:"stockQuantity" db:"stock_quantity"`
}

// Option configures product construction.
type Option func(*Product)

// AllowUnassignedID treats id 0 as "not yet assigned" instead of rejecting it.
// The id can then be set once with AssignID. Any other non-positive id is
// still rejected.
func AllowUnassignedID() Option {
	return func(p *Product) {
		p.allowUnassignedID = true
	}
}

// NewProduct creates a product from all four fields.
func NewProduct(id int, name string, price float64, stockQuantity int, opts ...Option) (*Product, error) {
	p := &Product{}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.assign(id, name, price, stockQuantity); err != nil {
		return nil, err
	}

	return p, nil
}

// NewProductWithoutID creates a product with id 0. Without AllowUnassignedID
// this always fails with ErrInvalidID.
func NewProductWithoutID(name string, price float64, stockQuantity int, opts ...Option) (*Product, error) {
	return NewProduct(0, name, price, stockQuantity, opts...)
}

// NewProductWithStock creates a product with id 0 and price 0. Without
// AllowUnassignedID this always fails with ErrInvalidID.
func NewProductWithStock(name string, stockQuantity int, opts ...Option) (*Product, error) {
	return NewProduct(0, name, 0, stockQuantity, opts...)
}

// assign validates and sets every field in order: id, name, price, stock.
// Nothing is written unless all four values pass.
func (p *Product) assign(id int, name string, price float64, stockQuantity int) error {
	if !(id == 0 && p.allowUnassignedID) {
		if err := validateID(id); err != nil {
			return err
		}
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if err := validateStock(stockQuantity); err != nil {
		return err
	}

	p.id = id
	p.name = name
	p.price = price
	p.stockQuantity = stockQuantity
	return nil
}

func validateID(id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) < MinNameLength {
		return ErrNameTooShort
	}
	return nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrInvalidPrice
	}
	if price < 0 {
		return ErrNegativePrice
	}
	return nil
}

func validateStock(stockQuantity int) error {
	if stockQuantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// ID returns the product identifier, 0 while unassigned.
func (p *Product) ID() int { return p.id }

// Name returns the product name.
func (p *Product) Name() string { return p.name }

// Price returns the unit price.
func (p *Product) Price() float64 { return p.price }

// StockQuantity returns the units in stock.
func (p *Product) StockQuantity() int { return p.stockQuantity }

// HasID reports whether the product has a positive identifier.
func (p *Product) HasID() bool { return p.id > 0 }

// Snapshot returns a copy of the current field values.
func (p *Product) Snapshot() ProductView {
	return ProductView{
		ID:            p.id,
		Name:          p.name,
		Price:         p.price,
		StockQuantity: p.stockQuantity,
	}
}

// MarshalJSON encodes the product as its ProductView.
func (p *Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Snapshot())
}

// AssignID sets the identifier of a product built with AllowUnassignedID.
// It fails with ErrIDAlreadyAssigned once an id is set.
func (p *Product) AssignID(id int) error {
	if p.HasID() {
		return ErrIDAlreadyAssigned
	}
	if err := validateID(id); err != nil {
		return err
	}
	p.id = id
	return nil
}

// ChangePrice replaces the unit price. A new price at or above MaxPriceFactor
// times the current one is rejected with ErrPriceJump, so a product priced 0
// cannot be repriced through this method.
func (p *Product) ChangePrice(newPrice float64) error {
	if err := validatePrice(newPrice); err != nil {
		return err
	}
	if p.price*MaxPriceFactor <= newPrice {
		return ErrPriceJump
	}
	p.price = newPrice
	return nil
}

// UpdateStock adds or subtracts quantity units. Subtracting below zero fails
// with ErrNegativeStock and leaves the stock unchanged.
func (p *Product) UpdateStock(quantity int, op StockOperation) error {
	if !op.Valid() {
		return ErrUnknownStockOperation
	}
	if quantity < 0 {
		return ErrNegativeQuantity
	}

	next := p.stockQuantity
	switch op {
	case StockAdd:
		next += quantity
		if next < p.stockQuantity {
			// overflow
			return ErrNegativeStock
		}
	case StockSubtract:
		next -= quantity
	}

	if err := validateStock(next); err != nil {
		return err
	}
	p.stockQuantity = next
	return nil
}

// Restock adds quantity units; quantity must be positive.
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	return p.UpdateStock(quantity, StockAdd)
}

// Sell removes quantity units. It fails with ErrNonPositiveQuantity for a
// quantity of zero or less and with ErrInsufficientStock when the quantity
// exceeds the stock.
func (p *Product) Sell(quantity int) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if quantity > p.stockQuantity {
		return ErrInsufficientStock
	}
	p.stockQuantity -= quantity
	return nil
}
