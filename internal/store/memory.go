package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"
)

// Memory is an in-memory implementation of ProductStore and OrderStore.
// Used for development and tests; it mirrors the SQL implementation's
// transactional contract, including holding the product lock for the
// whole life of a reservation transaction.
type Memory struct {
	productMu sync.Mutex
	products  map[int64]models.Product
	nextProd  int64

	mu        sync.RWMutex
	orders    map[int64]models.Order
	lines     map[int64][]models.OrderLine
	nextOrder int64
	nextLine  int64
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		products: make(map[int64]models.Product),
		orders:   make(map[int64]models.Order),
		lines:    make(map[int64][]models.OrderLine),
	}
}

// CreateProduct stores a product, assigning an id when none is set
func (m *Memory) CreateProduct(ctx context.Context, product *models.Product) error {
	m.productMu.Lock()
	defer m.productMu.Unlock()

	if product.ID == 0 {
		m.nextProd++
		product.ID = m.nextProd
	} else if product.ID > m.nextProd {
		m.nextProd = product.ID
	}
	m.products[product.ID] = *product
	return nil
}

// GetProductByID retrieves a product by ID
func (m *Memory) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	m.productMu.Lock()
	defer m.productMu.Unlock()

	product, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", apperr.ErrProductNotFound, id)
	}
	return &product, nil
}

// ListProducts retrieves all products ordered by id
func (m *Memory) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.productMu.Lock()
	defer m.productMu.Unlock()

	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// BeginProductTx acquires the product lock until Commit or Rollback,
// serializing concurrent reservation batches the way row locks do.
func (m *Memory) BeginProductTx(ctx context.Context) (ProductTx, error) {
	m.productMu.Lock()
	return &memProductTx{store: m, staged: make(map[int64]float64)}, nil
}

type memProductTx struct {
	store  *Memory
	staged map[int64]float64
	done   bool
}

func (t *memProductTx) GetProductsForUpdate(ctx context.Context, ids []int64) ([]models.Product, error) {
	seen := make(map[int64]bool, len(ids))
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := t.store.products[id]; ok {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (t *memProductTx) UpdateProductQuantity(ctx context.Context, productID int64, available float64) error {
	t.staged[productID] = available
	return nil
}

func (t *memProductTx) Commit() error {
	if t.done {
		return nil
	}
	for id, available := range t.staged {
		p := t.store.products[id]
		p.AvailableQuantity = available
		t.store.products[id] = p
	}
	t.done = true
	t.store.productMu.Unlock()
	return nil
}

func (t *memProductTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.productMu.Unlock()
	return nil
}

// BeginOrderTx starts an order transaction with staged writes
func (m *Memory) BeginOrderTx(ctx context.Context) (OrderTx, error) {
	return &memOrderTx{store: m}, nil
}

type memOrderTx struct {
	store  *Memory
	orders []models.Order
	lines  []models.OrderLine
	done   bool
}

func (t *memOrderTx) InsertOrder(ctx context.Context, order *models.Order) error {
	t.store.mu.RLock()
	for _, o := range t.store.orders {
		if o.Reference == order.Reference {
			t.store.mu.RUnlock()
			return fmt.Errorf("%w: %s", apperr.ErrDuplicateReference, order.Reference)
		}
	}
	t.store.mu.RUnlock()

	for _, o := range t.orders {
		if o.Reference == order.Reference {
			return fmt.Errorf("%w: %s", apperr.ErrDuplicateReference, order.Reference)
		}
	}

	order.ID = atomic.AddInt64(&t.store.nextOrder, 1)
	order.CreatedAt = time.Now()
	t.orders = append(t.orders, *order)
	return nil
}

func (t *memOrderTx) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	line.ID = atomic.AddInt64(&t.store.nextLine, 1)
	t.lines = append(t.lines, *line)
	return nil
}

func (t *memOrderTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, o := range t.orders {
		t.store.orders[o.ID] = o
	}
	for _, l := range t.lines {
		t.store.lines[l.OrderID] = append(t.store.lines[l.OrderID], l)
	}
	return nil
}

func (t *memOrderTx) Rollback() error {
	t.done = true
	t.orders = nil
	t.lines = nil
	return nil
}

// GetOrderByID retrieves an order by ID
func (m *Memory) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", apperr.ErrOrderNotFound, id)
	}
	return &order, nil
}

// GetOrderByReference retrieves an order by reference, (nil, nil) when absent
func (m *Memory) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, order := range m.orders {
		if order.Reference == reference {
			o := order
			return &o, nil
		}
	}
	return nil, nil
}

// ListOrders retrieves all orders ordered by id
func (m *Memory) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// GetOrderLines retrieves all lines for an order
func (m *Memory) GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines := make([]models.OrderLine, len(m.lines[orderID]))
	copy(lines, m.lines[orderID])
	return lines, nil
}
