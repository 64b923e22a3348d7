package service

import (
	"context"
	"time"

	"ecommerce-core/internal/models"
)

// CustomerLookup resolves customers from the customer service.
type CustomerLookup interface {
	// FindCustomerByID returns the customer snapshot or apperr.ErrCustomerNotFound.
	FindCustomerByID(ctx context.Context, customerID string) (*models.Customer, error)
}

// PaymentInitiator requests payment for a persisted order from the
// payment service. Returns the provider transaction identifier.
type PaymentInitiator interface {
	RequestOrderPayment(ctx context.Context, request models.PaymentRequest) (string, error)
}

// ConfirmationPublisher emits the order confirmation event. Delivery is
// fire-and-forget from the orchestrator's point of view.
type ConfirmationPublisher interface {
	PublishOrderConfirmation(ctx context.Context, confirmation *models.OrderConfirmation) error
}

// ProductPurchaser reserves stock for a batch of purchases atomically.
// Implemented by ProductService.
type ProductPurchaser interface {
	PurchaseProducts(ctx context.Context, requests []models.PurchaseRequest) ([]models.PurchaseResult, error)
}

// IdempotencyCache is the fast path for duplicate order references: a hit
// resolves the previously created order id without a store query on every
// request. A cache failure is not fatal; the order store's reference
// lookup (and its unique constraint) stays authoritative.
type IdempotencyCache interface {
	Lookup(ctx context.Context, reference string) (orderID int64, hit bool, err error)
	Remember(ctx context.Context, reference string, orderID int64, ttl time.Duration) error
}
