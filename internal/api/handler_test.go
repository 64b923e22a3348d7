package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"
	"ecommerce-core/internal/service"
	"ecommerce-core/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCustomers struct{}

func (stubCustomers) FindCustomerByID(ctx context.Context, customerID string) (*models.Customer, error) {
	if customerID != "cust-1" {
		return nil, fmt.Errorf("%w: %s", apperr.ErrCustomerNotFound, customerID)
	}
	return &models.Customer{ID: "cust-1", FirstName: "Ada", Email: "ada@example.com"}, nil
}

type stubPayments struct{}

func (stubPayments) RequestOrderPayment(ctx context.Context, request models.PaymentRequest) (string, error) {
	return "TXN-test", nil
}

type stubPublisher struct{}

func (stubPublisher) PublishOrderConfirmation(ctx context.Context, confirmation *models.OrderConfirmation) error {
	return nil
}

type stubIdemCache struct{}

func (stubIdemCache) Lookup(ctx context.Context, reference string) (int64, bool, error) {
	return 0, false, nil
}
func (stubIdemCache) Remember(ctx context.Context, reference string, orderID int64, ttl time.Duration) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	for _, p := range []models.Product{
		{ID: 1, Name: "Keyboard", AvailableQuantity: 10, Price: 49.90},
		{ID: 2, Name: "Mouse", AvailableQuantity: 5, Price: 19.90},
	} {
		product := p
		require.NoError(t, mem.CreateProduct(context.Background(), &product))
	}

	productService := service.NewProductService(mem)
	orderService := service.NewOrderService(mem, productService, stubCustomers{}, stubPayments{}, stubPublisher{}, stubIdemCache{})

	router := gin.New()
	NewHandler(orderService, productService).SetupRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"reference": "ord-1",
		"customer_id": "cust-1",
		"amount": 119.70,
		"payment_method": "VISA",
		"products": [{"product_id": 1, "quantity": 2}]
	}`

	rec := doRequest(router, http.MethodPost, "/api/v1/orders", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order_id"`)
}

func TestCreateOrderEndpointUnknownCustomer(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"customer_id": "ghost",
		"amount": 10,
		"payment_method": "PAYPAL",
		"products": [{"product_id": 1, "quantity": 1}]
	}`

	rec := doRequest(router, http.MethodPost, "/api/v1/orders", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"not_found"`)
}

type downCustomers struct{}

func (downCustomers) FindCustomerByID(ctx context.Context, customerID string) (*models.Customer, error) {
	return nil, &apperr.RemoteCallError{Service: "customer", Err: errors.New("connection refused")}
}

func TestCreateOrderEndpointCustomerServiceDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	productService := service.NewProductService(mem)
	orderService := service.NewOrderService(mem, productService, downCustomers{}, stubPayments{}, stubPublisher{}, stubIdemCache{})

	router := gin.New()
	NewHandler(orderService, productService).SetupRoutes(router)

	body := `{
		"customer_id": "cust-1",
		"amount": 10,
		"payment_method": "PAYPAL",
		"products": [{"product_id": 1, "quantity": 1}]
	}`

	rec := doRequest(router, http.MethodPost, "/api/v1/orders", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"business"`)
}

func TestCreateOrderEndpointInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/orders", `{"customer_id": "cust-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurchaseEndpointInsufficientStock(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/products/purchase",
		`[{"product_id": 2, "quantity": 50}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"business"`)
}

func TestPurchaseEndpointSuccess(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/products/purchase",
		`[{"product_id": 1, "quantity": 3}]`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Keyboard"`)
}

func TestGetOrderEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/orders/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersEndpointEmpty(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/orders", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orders":[]`)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
