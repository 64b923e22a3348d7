package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"
	"ecommerce-core/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts(t *testing.T, products ...models.Product) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	for i := range products {
		require.NoError(t, mem.CreateProduct(context.Background(), &products[i]))
	}
	return mem
}

func availableQuantity(t *testing.T, mem *store.Memory, productID int64) float64 {
	t.Helper()
	product, err := mem.GetProductByID(context.Background(), productID)
	require.NoError(t, err)
	return product.AvailableQuantity
}

func TestPurchaseProductsSuccess(t *testing.T) {
	mem := seedProducts(t,
		models.Product{ID: 1, Name: "Keyboard", AvailableQuantity: 10, Price: 49.90},
		models.Product{ID: 2, Name: "Mouse", AvailableQuantity: 5, Price: 19.90},
		models.Product{ID: 3, Name: "Monitor", AvailableQuantity: 7, Price: 199.00},
	)
	svc := NewProductService(mem)

	// Deliberately unsorted input: results come back paired by ascending id.
	purchased, err := svc.PurchaseProducts(context.Background(), []models.PurchaseRequest{
		{ProductID: 2, Quantity: 3},
		{ProductID: 1, Quantity: 4},
	})
	require.NoError(t, err)
	require.Len(t, purchased, 2)

	assert.Equal(t, int64(1), purchased[0].ProductID)
	assert.Equal(t, "Keyboard", purchased[0].Name)
	assert.Equal(t, 49.90, purchased[0].Price)
	assert.Equal(t, 4.0, purchased[0].Quantity)
	assert.Equal(t, int64(2), purchased[1].ProductID)
	assert.Equal(t, 3.0, purchased[1].Quantity)

	assert.Equal(t, 6.0, availableQuantity(t, mem, 1))
	assert.Equal(t, 2.0, availableQuantity(t, mem, 2))
	assert.Equal(t, 7.0, availableQuantity(t, mem, 3), "untouched product must keep its stock")
}

func TestPurchaseProductsExactStockAllowed(t *testing.T) {
	mem := seedProducts(t, models.Product{ID: 1, Name: "Webcam", AvailableQuantity: 3, Price: 80})
	svc := NewProductService(mem)

	purchased, err := svc.PurchaseProducts(context.Background(), []models.PurchaseRequest{
		{ProductID: 1, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, purchased, 1)
	assert.Equal(t, 0.0, availableQuantity(t, mem, 1))
}

func TestPurchaseProductsUnknownProduct(t *testing.T) {
	mem := seedProducts(t, models.Product{ID: 2, Name: "Mouse", AvailableQuantity: 5, Price: 19.90})
	svc := NewProductService(mem)

	_, err := svc.PurchaseProducts(context.Background(), []models.PurchaseRequest{
		{ProductID: 1, Quantity: 2},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrProductsNotFound)

	assert.Equal(t, 5.0, availableQuantity(t, mem, 2), "store must be unchanged")
}

func TestPurchaseProductsInsufficientStockRollsBackBatch(t *testing.T) {
	mem := seedProducts(t,
		models.Product{ID: 1, Name: "A", AvailableQuantity: 10, Price: 1},
		models.Product{ID: 2, Name: "B", AvailableQuantity: 3, Price: 1},
	)
	svc := NewProductService(mem)

	_, err := svc.PurchaseProducts(context.Background(), []models.PurchaseRequest{
		{ProductID: 1, Quantity: 5},
		{ProductID: 2, Quantity: 5},
	})
	require.Error(t, err)

	var stockErr *apperr.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(2), stockErr.ProductID)

	// Product 1 would individually have succeeded; its decrement must not land.
	assert.Equal(t, 10.0, availableQuantity(t, mem, 1))
	assert.Equal(t, 3.0, availableQuantity(t, mem, 2))
}

func TestPurchaseProductsDuplicateProductRejected(t *testing.T) {
	mem := seedProducts(t, models.Product{ID: 1, Name: "A", AvailableQuantity: 10, Price: 1})
	svc := NewProductService(mem)

	_, err := svc.PurchaseProducts(context.Background(), []models.PurchaseRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 3},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDuplicateProduct)
	assert.Equal(t, 10.0, availableQuantity(t, mem, 1))
}

func TestPurchaseProductsEmptyBatch(t *testing.T) {
	svc := NewProductService(store.NewMemory())

	_, err := svc.PurchaseProducts(context.Background(), nil)
	assert.ErrorIs(t, err, apperr.ErrEmptyPurchase)
}

func TestPurchaseProductsNonPositiveQuantity(t *testing.T) {
	mem := seedProducts(t, models.Product{ID: 1, Name: "A", AvailableQuantity: 10, Price: 1})
	svc := NewProductService(mem)

	_, err := svc.PurchaseProducts(context.Background(), []models.PurchaseRequest{
		{ProductID: 1, Quantity: -2},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
	assert.Equal(t, 10.0, availableQuantity(t, mem, 1))
}

func TestPurchaseProductsConcurrentNeverOversells(t *testing.T) {
	mem := seedProducts(t, models.Product{ID: 1, Name: "A", AvailableQuantity: 10, Price: 1})
	svc := NewProductService(mem)

	const callers = 8
	const perCall = 3.0

	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PurchaseProducts(context.Background(), []models.PurchaseRequest{
				{ProductID: 1, Quantity: perCall},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var stockErr *apperr.InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
	}

	// floor(10/3) reservations fit; the rest must fail cleanly.
	assert.Equal(t, 3, successes)

	remaining := availableQuantity(t, mem, 1)
	assert.Equal(t, 10-float64(successes)*perCall, remaining)
	assert.GreaterOrEqual(t, remaining, 0.0)
}
