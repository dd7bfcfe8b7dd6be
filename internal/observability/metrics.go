// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawhaven_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ActiveWebSockets is the gauge of currently open realtime channels.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pawhaven_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawhaven_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})

	// RealtimeEventsTotal counts realtime events emitted per event name.
	RealtimeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawhaven_realtime_events_total",
		Help: "Total realtime events emitted by event name",
	}, []string{"event"})

	// EmailSendFailures counts best-effort email sends that failed.
	EmailSendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawhaven_email_send_failures_total",
		Help: "Total number of failed email delivery attempts",
	})
)
