package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"
	"ecommerce-core/internal/store"
	"ecommerce-core/internal/util"

	"go.uber.org/zap"
)

// ProductService handles product catalog operations and atomic stock
// reservation for purchase batches.
type ProductService struct {
	store  store.ProductStore
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productStore store.ProductStore) *ProductService {
	return &ProductService{
		store:  productStore,
		logger: util.GetLogger(),
	}
}

// PurchaseProducts reserves stock for every product in the batch or leaves
// all stock untouched. The whole batch runs in one transaction: either
// every decrement lands or none does.
//
// Batches with duplicate product ids are rejected up front; letting them
// through would pair quantities against a single fetched record and make
// the outcome depend on request ordering.
func (s *ProductService) PurchaseProducts(ctx context.Context, requests []models.PurchaseRequest) ([]models.PurchaseResult, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.PurchaseProducts")
	defer span.End()

	start := time.Now()
	defer func() {
		util.InventoryReserveLatency.Observe(time.Since(start).Seconds())
	}()

	if len(requests) == 0 {
		return nil, apperr.ErrEmptyPurchase
	}

	productIDs := make([]int64, 0, len(requests))
	seen := make(map[int64]bool, len(requests))
	for _, request := range requests {
		if request.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", apperr.ErrInvalidQuantity, request.ProductID)
		}
		if seen[request.ProductID] {
			util.InventoryReservationsFailed.WithLabelValues("duplicate_product").Inc()
			return nil, fmt.Errorf("%w: %d", apperr.ErrDuplicateProduct, request.ProductID)
		}
		seen[request.ProductID] = true
		productIDs = append(productIDs, request.ProductID)
	}

	tx, err := s.store.BeginProductTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reservation transaction: %w", err)
	}
	defer tx.Rollback()

	storedProducts, err := tx.GetProductsForUpdate(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	if len(storedProducts) != len(requests) {
		util.InventoryReservationsFailed.WithLabelValues("not_found").Inc()
		return nil, apperr.ErrProductsNotFound
	}

	// Requests sorted by product id line up positionally with the fetch order.
	sortedRequests := make([]models.PurchaseRequest, len(requests))
	copy(sortedRequests, requests)
	sort.Slice(sortedRequests, func(i, j int) bool {
		return sortedRequests[i].ProductID < sortedRequests[j].ProductID
	})

	purchased := make([]models.PurchaseResult, 0, len(sortedRequests))
	for i := range storedProducts {
		product := storedProducts[i]
		request := sortedRequests[i]

		if product.AvailableQuantity < request.Quantity {
			util.InventoryReservationsFailed.WithLabelValues("insufficient_stock").Inc()
			return nil, &apperr.InsufficientStockError{ProductID: request.ProductID}
		}

		product.AvailableQuantity -= request.Quantity
		if err := tx.UpdateProductQuantity(ctx, product.ID, product.AvailableQuantity); err != nil {
			return nil, fmt.Errorf("failed to update stock for product %d: %w", product.ID, err)
		}

		purchased = append(purchased, models.PurchaseResult{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  request.Quantity,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	s.logger.Info("Reserved stock for purchase batch",
		zap.Int("products", len(purchased)))

	return purchased, nil
}

// CreateProduct adds a new product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (int64, error) {
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return product.ID, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, productID)
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}
