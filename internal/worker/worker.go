package worker

import (
	"context"
	"log"

	"ecommerce-core/internal/broker"
	"ecommerce-core/internal/models"
	"ecommerce-core/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes order confirmation events and notifies the
// customer. Consumption is decoupled from order creation: a slow or
// failing notification never affects the order workflow.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderConfirmation(w.handleOrderConfirmation)
	w.eventHandler = eventHandler

	return w
}

func (w *NotificationWorker) handleOrderConfirmation(ctx context.Context, event *models.OrderConfirmation) error {
	w.logger.Info("Order confirmation received",
		zap.String("reference", event.OrderReference),
		zap.String("customer_email", event.Customer.Email),
		zap.Float64("total_amount", event.TotalAmount),
		zap.Int("products", len(event.Products)))

	// Notification delivery is simulated with a log line; a real deployment
	// would hand off to an email or push provider here.
	util.NotificationsConsumedTotal.Inc()
	return nil
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}
