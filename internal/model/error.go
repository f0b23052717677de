package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeCartEmpty         = "CART_EMPTY"
	ErrCodeEmptySelection    = "EMPTY_SELECTION"
	ErrCodeMalformedSnapshot = "MALFORMED_SNAPSHOT"
	ErrCodeCheckoutInFlight  = "CHECKOUT_IN_FLIGHT"
	ErrCodeCheckoutDeclined  = "CHECKOUT_DECLINED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrCartEmpty         = NewDomainError(ErrCodeCartEmpty, "Shopping cart is empty")
	ErrEmptySelection    = NewDomainError(ErrCodeEmptySelection, "Please select items to checkout")
	ErrMalformedSnapshot = NewDomainError(ErrCodeMalformedSnapshot, "Cart response is missing total or items")
	ErrCheckoutInFlight  = NewDomainError(ErrCodeCheckoutInFlight, "A checkout is already in progress")
	ErrCheckoutDeclined  = NewDomainError(ErrCodeCheckoutDeclined, "Checkout cancelled")
)
