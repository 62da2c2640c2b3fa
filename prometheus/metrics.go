package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_register_total",
			Help: "Total number of user registrations",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // e.g. "invalid_password", "missing_token"
	)

	// List loads by collection and paging direction
	ListLoadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_list_loads_total",
			Help: "Total number of list view loads",
		},
		[]string{"collection", "direction"},
	)

	// Create/update/delete operations by collection
	MutationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_mutations_total",
			Help: "Total number of collection mutations",
		},
		[]string{"collection", "operation"},
	)

	ExportCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_exports_total",
			Help: "Total number of collection exports",
		},
		[]string{"collection"},
	)

	StoreErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_store_errors_total",
			Help: "Total number of document store failures",
		},
		[]string{"collection"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gym_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gym_info",
			Help: "Information about the gym service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(ListLoadCounter)
	prometheus.MustRegister(MutationCounter)
	prometheus.MustRegister(ExportCounter)
	prometheus.MustRegister(StoreErrorCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware captures request count and duration for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordListLoad records one list view load
func RecordListLoad(collection, direction string) {
	ListLoadCounter.With(prometheus.Labels{"collection": collection, "direction": direction}).Inc()
}

// RecordMutation records a create/update/delete against a collection
func RecordMutation(collection, operation string) {
	MutationCounter.With(prometheus.Labels{"collection": collection, "operation": operation}).Inc()
}

// RecordExport records a collection export
func RecordExport(collection string) {
	ExportCounter.With(prometheus.Labels{"collection": collection}).Inc()
}

// RecordStoreError records a document store failure
func RecordStoreError(collection string) {
	StoreErrorCounter.With(prometheus.Labels{"collection": collection}).Inc()
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens decrements the active tokens gauge
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}
