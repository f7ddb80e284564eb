package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StockOperation is the direction of a stock update.
type StockOperation rune

// Recognised stock operations.
const (
	StockAdd      StockOperation = '+'
	StockSubtract StockOperation = '-'
)

// Valid reports whether op is StockAdd or StockSubtract.
func (op StockOperation) Valid() bool {
	return op == StockAdd || op == StockSubtract
}

func (op StockOperation) String() string {
	return string(rune(op))
}

// ParseStockOperation converts "+" or "-" to a StockOperation.
func ParseStockOperation(s string) (StockOperation, error) {
	switch s {
	case "+":
		return StockAdd, nil
	case "-":
		return StockSubtract, nil
	default:
		return 0, ErrUnknownStockOperation
	}
}

// MarshalJSON encodes the operation as "+" or "-".
func (op StockOperation) MarshalJSON() ([]byte, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("marshal stock operation %q: %w", rune(op), ErrUnknownStockOperation)
	}
	return json.Marshal(op.String())
}

// UnmarshalJSON decodes "+" or "-".
func (op *StockOperation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseStockOperation(s)
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

// MovementKind names the operation that produced a stock movement.
type MovementKind string

const (
	MovementUpdate  MovementKind = "update"
	MovementRestock MovementKind = "restock"
	MovementSale    MovementKind = "sale"
)

// StockMovement records one applied stock change.
type StockMovement struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	ProductID  int            `json:"productId" db:"product_id"`
	Kind       MovementKind   `json:"kind" db:"kind"`
	Operation  StockOperation `json:"operation" db:"operation"`
	Quantity   int            `json:"quantity" db:"quantity"`
	StockAfter int            `json:"stockAfter" db:"stock_after"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
}
