package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"
	"ecommerce-core/internal/store"
	"ecommerce-core/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// How long a processed order reference is remembered in the cache.
const referenceTTL = 24 * time.Hour

// OrderService orchestrates the order-creation workflow: customer
// validation, inventory reservation, order persistence, payment
// initiation and confirmation publication.
type OrderService struct {
	store     store.OrderStore
	products  ProductPurchaser
	customers CustomerLookup
	payments  PaymentInitiator
	publisher ConfirmationPublisher
	idem      IdempotencyCache
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderStore store.OrderStore,
	products ProductPurchaser,
	customers CustomerLookup,
	payments PaymentInitiator,
	publisher ConfirmationPublisher,
	idem IdempotencyCache,
) *OrderService {
	return &OrderService{
		store:     orderStore,
		products:  products,
		customers: customers,
		payments:  payments,
		publisher: publisher,
		idem:      idem,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	Reference     string                   `json:"reference"`
	CustomerID    string                   `json:"customer_id" binding:"required"`
	Amount        float64                  `json:"amount" binding:"required,gt=0"`
	PaymentMethod models.PaymentMethod     `json:"payment_method" binding:"required"`
	Products      []models.PurchaseRequest `json:"products" binding:"required,min=1,dive"`
}

// CreateOrder creates a new order. It either returns the id of a fully
// persisted order with payment initiated, or fails with no order stored.
//
// The order and its lines are written under one explicit transaction;
// a payment failure rolls that transaction back. The inventory decrement
// from the reservation step lives in the product store's own transaction
// and is NOT compensated on later failures. That gap is inherited from
// the original system design and kept on purpose.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (int64, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if !req.PaymentMethod.Valid() {
		util.OrdersFailedTotal.WithLabelValues("invalid_payment_method").Inc()
		return 0, fmt.Errorf("%w: %s", apperr.ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	if req.Reference == "" {
		req.Reference = uuid.New().String()
	}

	// Fast path: a cache hit resolves the existing order without the store
	// lookup every request would otherwise pay. The hit is confirmed
	// against the store before it is trusted; a cache outage degrades to
	// the store lookup alone. A clean miss proceeds directly, leaving the
	// orders.reference unique constraint to catch evicted entries.
	cachedID, hit, err := s.idem.Lookup(ctx, req.Reference)
	if err != nil {
		s.logger.Warn("Idempotency cache lookup failed, falling back to store",
			zap.String("reference", req.Reference), zap.Error(err))
		existing, lookupErr := s.store.GetOrderByReference(ctx, req.Reference)
		if lookupErr != nil {
			return 0, fmt.Errorf("failed to check order reference: %w", lookupErr)
		}
		if existing != nil {
			return existing.ID, nil
		}
	} else if hit {
		existing, lookupErr := s.store.GetOrderByReference(ctx, req.Reference)
		if lookupErr != nil {
			return 0, fmt.Errorf("failed to check order reference: %w", lookupErr)
		}
		if existing != nil {
			s.logger.Info("Duplicate order reference, returning existing order",
				zap.String("reference", req.Reference),
				zap.Int64("order_id", existing.ID))
			return existing.ID, nil
		}
		s.logger.Warn("Stale idempotency cache entry",
			zap.String("reference", req.Reference),
			zap.Int64("cached_order_id", cachedID))
	}

	customer, err := s.customers.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("customer_not_found").Inc()
		return 0, fmt.Errorf("cannot create order: %w", err)
	}

	purchased, err := s.products.PurchaseProducts(ctx, req.Products)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("reservation_failed").Inc()
		return 0, err
	}

	tx, err := s.store.BeginOrderTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	order := &models.Order{
		Reference:     req.Reference,
		CustomerID:    req.CustomerID,
		TotalAmount:   req.Amount,
		PaymentMethod: req.PaymentMethod,
	}

	if err := tx.InsertOrder(ctx, order); err != nil {
		if errors.Is(err, apperr.ErrDuplicateReference) {
			// Reference was persisted by an earlier submission the cache no
			// longer remembers. Abandon this attempt and return that order.
			tx.Rollback()
			existing, lookupErr := s.store.GetOrderByReference(ctx, req.Reference)
			if lookupErr == nil && existing != nil {
				s.logger.Warn("Order reference already persisted, returning existing order",
					zap.String("reference", req.Reference),
					zap.Int64("order_id", existing.ID))
				return existing.ID, nil
			}
			return 0, fmt.Errorf("failed to resolve duplicate reference: %w", err)
		}
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("failed to persist order: %w", err)
	}

	for _, purchase := range req.Products {
		line := &models.OrderLine{
			OrderID:   order.ID,
			ProductID: purchase.ProductID,
			Quantity:  purchase.Quantity,
		}
		if err := tx.InsertOrderLine(ctx, line); err != nil {
			util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
			return 0, fmt.Errorf("failed to persist order line: %w", err)
		}
	}

	paymentReq := models.PaymentRequest{
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		OrderID:        order.ID,
		OrderReference: order.Reference,
		Customer:       *customer,
	}

	txID, err := s.initiatePayment(ctx, paymentReq)
	if err != nil {
		// The deferred rollback discards the order and its lines. The
		// stock reserved above stays decremented.
		util.OrdersFailedTotal.WithLabelValues("payment_failed").Inc()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("reference", order.Reference),
		zap.String("payment_tx", txID))

	if err := s.idem.Remember(ctx, order.Reference, order.ID, referenceTTL); err != nil {
		s.logger.Warn("Failed to remember order reference",
			zap.String("reference", order.Reference), zap.Error(err))
	}

	confirmation := &models.OrderConfirmation{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmation,
			Timestamp: time.Now(),
		},
		OrderReference: order.Reference,
		TotalAmount:    req.Amount,
		PaymentMethod:  req.PaymentMethod,
		Customer:       *customer,
		Products:       purchased,
	}

	if err := s.publisher.PublishOrderConfirmation(ctx, confirmation); err != nil {
		// Fire-and-forget: publication failure never unwinds the order.
		util.ConfirmationPublishFailures.Inc()
		s.logger.Error("Failed to publish order confirmation",
			zap.String("reference", order.Reference), zap.Error(err))
	}

	return order.ID, nil
}

func (s *OrderService) initiatePayment(ctx context.Context, req models.PaymentRequest) (string, error) {
	util.PaymentRequestsTotal.Inc()
	start := time.Now()
	defer func() {
		util.PaymentRequestLatency.Observe(time.Since(start).Seconds())
	}()

	txID, err := s.payments.RequestOrderPayment(ctx, req)
	if err != nil {
		util.PaymentFailedTotal.Inc()
		return "", &apperr.PaymentError{OrderReference: req.OrderReference, Err: err}
	}
	return txID, nil
}

// GetOrder retrieves an order and its lines by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderLine, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.store.GetOrderLines(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, lines, nil
}

// ListOrders retrieves all orders
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}
