package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ProductStore is the storage contract for the product catalog and its stock.
type ProductStore interface {
	// BeginProductTx opens the transaction scope for one reservation batch.
	// All reads and decrements of the batch happen inside it.
	BeginProductTx(ctx context.Context) (ProductTx, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
}

// ProductTx is the scoped transaction handle for a reservation batch.
type ProductTx interface {
	// GetProductsForUpdate fetches the products matching ids ordered by id,
	// row-locked for the life of the transaction.
	GetProductsForUpdate(ctx context.Context, ids []int64) ([]models.Product, error)
	UpdateProductQuantity(ctx context.Context, productID int64, available float64) error
	Commit() error
	Rollback() error
}

// OrderStore is the storage contract for orders and their lines.
type OrderStore interface {
	// BeginOrderTx opens the transaction scope covering order and
	// order-line persistence for one order-creation attempt.
	BeginOrderTx(ctx context.Context) (OrderTx, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	// GetOrderByReference returns (nil, nil) when no order carries the reference.
	GetOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
}

// OrderTx is the scoped transaction handle for order persistence.
type OrderTx interface {
	// InsertOrder returns apperr.ErrDuplicateReference when the order's
	// reference is already persisted.
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderLine(ctx context.Context, line *models.OrderLine) error
	Commit() error
	Rollback() error
}

// Store is the Postgres-backed implementation of ProductStore and OrderStore.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", apperr.ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves all products
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// CreateProduct creates a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, available_quantity, price, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.GetContext(ctx, &product.ID, query,
		product.Name, product.Description, product.AvailableQuantity, product.Price, product.CategoryID)
}

// BeginProductTx starts a transaction for a reservation batch
func (s *Store) BeginProductTx(ctx context.Context) (ProductTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// BeginOrderTx starts a transaction for order persistence
func (s *Store) BeginOrderTx(ctx context.Context) (OrderTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction
type Tx struct {
	tx *sqlx.Tx
}

// GetProductsForUpdate fetches products by ids in id order, locking the rows.
// Ordering by id keeps concurrent batches acquiring locks in the same
// sequence, so two batches touching the same products cannot deadlock.
func (t *Tx) GetProductsForUpdate(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?) ORDER BY id FOR UPDATE", ids)
	if err != nil {
		return nil, err
	}
	query = t.tx.Rebind(query)

	var products []models.Product
	err = t.tx.SelectContext(ctx, &products, query, args...)
	return products, err
}

// UpdateProductQuantity persists a new available quantity for a product
func (t *Tx) UpdateProductQuantity(ctx context.Context, productID int64, available float64) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE products SET available_quantity = $1 WHERE id = $2",
		available, productID)
	return err
}

// Commit commits the transaction
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction. Safe to defer after Commit.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}
