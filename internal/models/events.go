package models

import "time"

// Event types
const (
	EventTypeOrderConfirmation = "ORDER_CONFIRMATION"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderConfirmation announces a completed order to downstream services
// (notifications, shipping, analytics). Published exactly once per
// successful order, fire-and-forget.
type OrderConfirmation struct {
	BaseEvent
	OrderReference string           `json:"order_reference"`
	TotalAmount    float64          `json:"total_amount"`
	PaymentMethod  PaymentMethod    `json:"payment_method"`
	Customer       Customer         `json:"customer"`
	Products       []PurchaseResult `json:"products"`
}
