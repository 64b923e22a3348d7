package service

import (
	"bytes"
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

// HTTPPaymentInitiator requests payments over the payment service's REST API.
type HTTPPaymentInitiator struct {
	baseURL *url.URL
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPPaymentInitiator creates a payment client. Each call is bounded
// by timeout; a timed-out payment request is treated as a failed one.
func NewHTTPPaymentInitiator(baseURL string, timeout time.Duration) (*HTTPPaymentInitiator, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid payment service url %q: %w", baseURL, err)
	}
	return &HTTPPaymentInitiator{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
		logger:  util.GetLogger(),
	}, nil
}

type paymentResponse struct {
	TransactionID string `json:"transaction_id"`
}

// RequestOrderPayment submits the payment request and returns the
// provider transaction identifier.
func (pc *HTTPPaymentInitiator) RequestOrderPayment(ctx context.Context, request models.PaymentRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "PaymentInitiator.RequestOrderPayment")
	defer span.End()

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment request: %w", err)
	}

	u := pc.baseURL.ResolveReference(&url.URL{Path: "/api/v1/payments"})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := pc.client.Do(req)
	if err != nil {
		return "", &apperr.RemoteCallError{Service: "payment", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &apperr.RemoteCallError{
			Service: "payment",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var payment paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return "", &apperr.RemoteCallError{
			Service: "payment",
			Err:     fmt.Errorf("malformed response: %w", err),
		}
	}

	pc.logger.Info("Payment initiated",
		zap.String("order_reference", request.OrderReference),
		zap.String("tx_id", payment.TransactionID))

	return payment.TransactionID, nil
}
