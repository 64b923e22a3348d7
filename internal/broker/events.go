package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"ecommerce-core/internal/models"
	"ecommerce-core/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConfirmationPublisher publishes order confirmation events
type ConfirmationPublisher struct {
	producer *Producer
}

// NewConfirmationPublisher creates a new confirmation publisher
func NewConfirmationPublisher(producer *Producer) *ConfirmationPublisher {
	return &ConfirmationPublisher{producer: producer}
}

// PublishOrderConfirmation publishes the OrderConfirmation event keyed by
// order reference
func (cp *ConfirmationPublisher) PublishOrderConfirmation(ctx context.Context, confirmation *models.OrderConfirmation) error {
	key := fmt.Sprintf("order-%s", confirmation.OrderReference)
	if err := cp.producer.PublishEvent(ctx, key, models.EventTypeOrderConfirmation, confirmation); err != nil {
		return err
	}
	util.ConfirmationsPublishedTotal.Inc()
	return nil
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onOrderConfirmation func(context.Context, *models.OrderConfirmation) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderConfirmation registers a handler for OrderConfirmation events
func (eh *EventHandler) OnOrderConfirmation(handler func(context.Context, *models.OrderConfirmation) error) {
	eh.onOrderConfirmation = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderConfirmation:
		if eh.onOrderConfirmation != nil {
			var event models.OrderConfirmation
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderConfirmation event: %w", err)
			}
			return eh.onOrderConfirmation(ctx, &event)
		}

	default:
		util.GetLogger().Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
