package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"

	"github.com/lib/pq"
)

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", apperr.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByReference retrieves an order by its opaque reference.
// Returns (nil, nil) when absent so callers can use it as an existence check.
func (s *Store) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE reference = $1", reference)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves all orders
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// GetOrderLines retrieves all lines for an order
func (s *Store) GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	lines := []models.OrderLine{}
	err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM order_lines WHERE order_id = $1 ORDER BY id", orderID)
	return lines, err
}

// InsertOrder persists a new order within the transaction. A collision
// on the orders.reference unique constraint maps to ErrDuplicateReference.
func (t *Tx) InsertOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (reference, customer_id, total_amount, payment_method)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := t.tx.GetContext(ctx, order, query,
		order.Reference, order.CustomerID, order.TotalAmount, order.PaymentMethod)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", apperr.ErrDuplicateReference, order.Reference)
	}
	return err
}

// InsertOrderLine persists a new order line within the transaction
func (t *Tx) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`

	return t.tx.GetContext(ctx, &line.ID, query,
		line.OrderID, line.ProductID, line.Quantity)
}
