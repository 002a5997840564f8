package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	Envelopes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "envelopes_total", Help: "Response envelopes by embedded code."},
		[]string{"route", "code"},
	)
	DBStatements = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "db_statements_total", Help: "SQL statements executed."},
		[]string{"op", "outcome"}, // op: query|exec
	)
	DBLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog", Name: "db_statement_duration_seconds",
			Help:    "SQL statement duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	ChangeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "change_events_total", Help: "Published change events."},
		[]string{"sink", "outcome"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, Envelopes, DBStatements, DBLatency, ChangeEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveEnvelope(route string, code int) {
	Envelopes.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func ObserveQuery(op, outcome string, dur time.Duration) {
	DBStatements.WithLabelValues(op, outcome).Inc()
	DBLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func ObserveEvent(sink string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ChangeEvents.WithLabelValues(sink, outcome).Inc()
}
