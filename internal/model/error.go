package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeNameRequired  = "NAME_REQUIRED"
	ErrCodeInvalidExpiry = "INVALID_EXPIRY"
	ErrCodeInvalidRating = "INVALID_RATING"
	ErrCodeItemNotFound  = "ITEM_NOT_FOUND"
	ErrCodeUnauthorised  = "UNAUTHORIZED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation surfaced to the caller.
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

// Common domain errors. Only the add-item preconditions and rating bounds are
// ever surfaced; storage and remote failures are logged and swallowed.
var (
	ErrNameRequired  = NewDomainError(ErrCodeNameRequired, "Item name must not be empty")
	ErrInvalidExpiry = NewDomainError(ErrCodeInvalidExpiry, "Days until expiry must be a positive integer")
	ErrInvalidRating = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
)
