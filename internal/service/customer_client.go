package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ecommerce-core/internal/apperr"
	"ecommerce-core/internal/models"
	"ecommerce-core/internal/util"

	"go.uber.org/zap"
)

// HTTPCustomerLookup resolves customers over the customer service's REST API.
type HTTPCustomerLookup struct {
	baseURL *url.URL
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPCustomerLookup creates a customer lookup client. Each call is
// bounded by timeout; a timeout counts as a lookup failure.
func NewHTTPCustomerLookup(baseURL string, timeout time.Duration) (*HTTPCustomerLookup, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid customer service url %q: %w", baseURL, err)
	}
	return &HTTPCustomerLookup{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
		logger:  util.GetLogger(),
	}, nil
}

// FindCustomerByID fetches the customer snapshot by identifier
func (cl *HTTPCustomerLookup) FindCustomerByID(ctx context.Context, customerID string) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerLookup.FindCustomerByID")
	defer span.End()

	u := cl.baseURL.ResolveReference(&url.URL{Path: "/api/v1/customers/" + customerID})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := cl.client.Do(req)
	if err != nil {
		return nil, &apperr.RemoteCallError{Service: "customer", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", apperr.ErrCustomerNotFound, customerID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.RemoteCallError{
			Service: "customer",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var customer models.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, &apperr.RemoteCallError{
			Service: "customer",
			Err:     fmt.Errorf("malformed response: %w", err),
		}
	}

	return &customer, nil
}
