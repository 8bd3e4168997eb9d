// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifyhub_notifications_received_total",
		Help: "Total notifications accepted into the store, labelled by severity.",
	}, []string{"severity"})

	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifyhub_validation_failures_total",
		Help: "Total ingestion requests rejected by validation.",
	})

	ForwardOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifyhub_forward_outcomes_total",
		Help: "Total forwarding decisions, labelled by outcome tag.",
	}, []string{"outcome"})

	ForwardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notifyhub_forward_duration_ms",
		Help:    "Webhook delivery latency in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	StoreSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notifyhub_store_size",
		Help: "Number of notifications currently held in memory.",
	})

	AuditWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifyhub_audit_writes_total",
		Help: "Total fallback audit log entries written.",
	})
)
