package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	InventoryReserveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_reserve_latency_seconds",
		Help:    "Latency of inventory reservation batches",
		Buckets: prometheus.DefBuckets,
	})

	InventoryReservationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservations_failed_total",
		Help: "Total number of failed inventory reservations",
	}, []string{"reason"})

	PaymentRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_requests_total",
		Help: "Total number of payment initiation attempts",
	})

	PaymentFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_failed_total",
		Help: "Total number of failed payment initiations",
	})

	PaymentRequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_request_latency_seconds",
		Help:    "Latency of payment initiation calls",
		Buckets: prometheus.DefBuckets,
	})

	ConfirmationsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_confirmations_published_total",
		Help: "Total number of order confirmation events published",
	})

	ConfirmationPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_confirmation_publish_failures_total",
		Help: "Total number of order confirmation publish failures",
	})

	NotificationsConsumedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_consumed_total",
		Help: "Total number of order confirmations consumed by the notification worker",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
