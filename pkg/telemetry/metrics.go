package telemetry

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine counters. Kept package-level so core packages can increment them
// without holding a registry reference.
var (
	ThreadsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redline_threads_created_total",
		Help: "Threads created.",
	})
	MessagesAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redline_messages_appended_total",
		Help: "User messages appended to threads.",
	})
	MappingOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redline_mapping_outcomes_total",
		Help: "Revision mapping decisions by outcome.",
	}, []string{"outcome"})
	AdvisorFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redline_advisor_failures_total",
		Help: "Advisory scoring calls that failed and were degraded.",
	})
	Promotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redline_promotions_total",
		Help: "Threads promoted to external records by kind.",
	}, []string{"kind"})
	Exports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redline_audit_exports_total",
		Help: "Audit exports produced.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redline_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Handler exposes the default prometheus registry, mounted at /metrics.
func Handler() http.Handler { return promhttp.Handler() }

// Middleware records request latency per method and route template. It must
// be registered with mux.Router.Use so route matching has already happened.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		requestDuration.WithLabelValues(r.Method, routeTemplate(r)).Observe(time.Since(start).Seconds())
	})
}

// routeTemplate uses the matched route's template ("/v1/threads/{id}") so
// per-thread ids do not blow up label cardinality.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
