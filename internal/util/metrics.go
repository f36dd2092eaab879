package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_orders_placed_total",
		Help: "Total number of rental orders created at checkout",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_checkouts_failed_total",
		Help: "Total number of rejected checkouts",
	}, []string{"reason"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rental_checkout_latency_seconds",
		Help:    "Latency of checkout processing",
		Buckets: prometheus.DefBuckets,
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_order_transitions_total",
		Help: "Total number of applied order status transitions",
	}, []string{"action", "to"})

	OrderTransitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_order_transitions_rejected_total",
		Help: "Total number of refused order status transitions",
	}, []string{"action"})

	StockRestoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_stock_restored_units_total",
		Help: "Total units of stock given back by cancellations and returns",
	})

	DepositsRefundedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_deposits_refunded_total",
		Help: "Total number of security deposits refunded",
	})

	PaymentAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_payment_attempts_total",
		Help: "Total number of payment attempts by method and outcome",
	}, []string{"method", "status"})

	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_emails_sent_total",
		Help: "Total number of emails rendered by the mailer",
	}, []string{"kind"})

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
