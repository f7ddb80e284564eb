package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeInvalidQuery          = "INVALID_QUERY"
	ErrCodeMethodNotAllowed      = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidID             = "INVALID_ID"
	ErrCodeIDAlreadyAssigned     = "ID_ALREADY_ASSIGNED"
	ErrCodeNameTooShort          = "NAME_TOO_SHORT"
	ErrCodeNegativePrice         = "NEGATIVE_PRICE"
	ErrCodeInvalidPrice          = "INVALID_PRICE"
	ErrCodeReservedID            = "RESERVED_ID"
	ErrCodeRouteNotFound         = "NOT_FOUND"
	ErrCodeNegativeStock         = "NEGATIVE_STOCK"
	ErrCodePriceJump             = "PRICE_JUMP"
	ErrCodeUnknownStockOperation = "UNKNOWN_STOCK_OPERATION"
	ErrCodeNegativeQuantity      = "NEGATIVE_QUANTITY"
	ErrCodeNonPositiveQuantity   = "NON_POSITIVE_QUANTITY"
	ErrCodeInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeDuplicateProductID    = "DUPLICATE_PRODUCT_ID"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// ErrorKind separates malformed arguments from business rule violations.
type ErrorKind int

const (
	// KindInvalidArgument marks a value that is structurally wrong for the
	// receiving operation, such as a non-positive id.
	KindInvalidArgument ErrorKind = iota + 1
	// KindValidation marks a well-formed value that breaks a business rule.
	KindValidation
	// KindNotFound marks a lookup that matched nothing.
	KindNotFound
	// KindConflict marks a write that collides with stored state.
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindValidation:
		return "validation failure"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Kind sentinels. errors.Is(err, ErrValidation) holds for every DomainError
// of KindValidation, and likewise for the others.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("validation failure")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Domain errors for business logic
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the kind sentinel so callers can classify with errors.Is.
func (e *DomainError) Unwrap() error {
	switch e.Kind {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	default:
		return nil
	}
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// KindOf returns the kind of the first DomainError in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// Common domain errors
var (
	ErrInvalidID             = NewDomainError(KindInvalidArgument, ErrCodeInvalidID, "product id must be greater than zero")
	ErrIDAlreadyAssigned     = NewDomainError(KindInvalidArgument, ErrCodeIDAlreadyAssigned, "product id is already assigned")
	ErrUnknownStockOperation = NewDomainError(KindInvalidArgument, ErrCodeUnknownStockOperation, "stock operation must be '+' or '-'")
	ErrNegativeQuantity      = NewDomainError(KindInvalidArgument, ErrCodeNegativeQuantity, "quantity must not be negative")
	ErrReservedID            = NewDomainError(KindInvalidArgument, ErrCodeReservedID, "product ids from 1000 upwards are assigned by the store")

	ErrNameTooShort        = NewDomainError(KindValidation, ErrCodeNameTooShort, "product name must have at least 4 characters")
	ErrNegativePrice       = NewDomainError(KindValidation, ErrCodeNegativePrice, "product price must not be negative")
	ErrInvalidPrice        = NewDomainError(KindValidation, ErrCodeInvalidPrice, "product price must be a finite number")
	ErrNegativeStock       = NewDomainError(KindValidation, ErrCodeNegativeStock, "stock quantity must not be negative")
	ErrPriceJump           = NewDomainError(KindValidation, ErrCodePriceJump, "new price must be less than 100 times the current price")
	ErrNonPositiveQuantity = NewDomainError(KindValidation, ErrCodeNonPositiveQuantity, "quantity must be greater than zero")
	ErrInsufficientStock   = NewDomainError(KindValidation, ErrCodeInsufficientStock, "insufficient stock")

	ErrProductNotFound    = NewDomainError(KindNotFound, ErrCodeProductNotFound, "product not found")
	ErrDuplicateProductID = NewDomainError(KindConflict, ErrCodeDuplicateProductID, "a product with this id already exists")
)
