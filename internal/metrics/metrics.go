// Package metrics provides Prometheus instrumentation for the portfolio
// service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TransactionsImported counts stored transactions, partitioned by
	// whether the row was new or a content-hash duplicate.
	TransactionsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nestegg_transactions_imported_total",
		Help: "Imported transaction rows",
	}, []string{"outcome"})

	// ImportRowErrors counts rows the parser dropped, by reason.
	ImportRowErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nestegg_import_row_errors_total",
		Help: "Rows skipped during import",
	}, []string{"reason"})

	// SnapshotDuration tracks how long a full aggregation takes.
	SnapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nestegg_snapshot_duration_seconds",
		Help:    "Portfolio aggregation duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nestegg_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nestegg_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps an HTTP handler with request counting and latency
// observation. The pattern label keeps cardinality bounded; do not pass
// raw URLs.
func Instrument(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
