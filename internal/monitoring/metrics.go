package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mindcare"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	StoreChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_changes_total",
		Help:      "Applied store mutations by collection and operation.",
	}, []string{"collection", "op"})

	AssistantReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assistant_replies_total",
		Help:      "Support assistant replies by outcome.",
	}, []string{"outcome"})

	ReminderEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "elapsed_session_reminders_total",
		Help:      "Reminders raised for confirmed sessions whose start time passed.",
	})
)

// RegisterClientGauge exposes the number of connected websocket clients.
// Call it once per process.
func RegisterClientGauge(count func() int) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Connected websocket clients.",
	}, func() float64 { return float64(count()) }))
}
