package apperr

import (
	"errors"
	"fmt"
)

// Not-found errors. Surfaced to callers as client errors, never retried.
var (
	ErrCustomerNotFound = errors.New("no customer exists with the provided ID")
	ErrOrderNotFound    = errors.New("no order found with the provided ID")
	ErrProductNotFound  = errors.New("product not found with the provided ID")

	// ErrProductsNotFound is returned when at least one product in a
	// reservation batch has no matching record. The batch is rejected as
	// a whole, without detail on which id is missing.
	ErrProductsNotFound = errors.New("one or more products does not exist")
)

// Business-rule violations
var (
	ErrDuplicateProduct     = errors.New("duplicate product in purchase request")
	ErrEmptyPurchase        = errors.New("purchase request must contain at least one product")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidQuantity      = errors.New("purchase quantity must be positive")

	// ErrDuplicateReference is returned by the order store when an insert
	// collides with an already persisted order reference.
	ErrDuplicateReference = errors.New("an order with this reference already exists")
)

// InsufficientStockError reports the first product in a reservation batch
// whose available quantity cannot cover the requested quantity.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock quantity for product with ID %d", e.ProductID)
}

// PaymentError wraps a failure from the payment service. It aborts the
// surrounding order transaction.
type PaymentError struct {
	OrderReference string
	Err            error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed for order %s: %v", e.OrderReference, e.Err)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// RemoteCallError wraps a transport failure talking to a collaborator
// service (unreachable host, timeout, unexpected status).
type RemoteCallError struct {
	Service string
	Err     error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s service call failed: %v", e.Service, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err belongs to the not-found category.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrProductsNotFound)
}

// IsBusiness reports whether err belongs to the business-error category
// (rule violations and remote failures the caller is expected to react to).
func IsBusiness(err error) bool {
	var stockErr *InsufficientStockError
	var payErr *PaymentError
	var remoteErr *RemoteCallError
	return errors.Is(err, ErrDuplicateProduct) ||
		errors.Is(err, ErrEmptyPurchase) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrDuplicateReference) ||
		errors.As(err, &stockErr) ||
		errors.As(err, &payErr) ||
		errors.As(err, &remoteErr)
}
