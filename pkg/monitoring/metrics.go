package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code", "service"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	// Database metrics
	dbConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
		[]string{"database", "service"},
	)

	dbQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"query_type", "service"},
	)

	// Telemetry metrics
	readingsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_readings_ingested_total",
			Help: "Total number of health readings ingested",
		},
		[]string{"source", "service"},
	)

	alertsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_alerts_created_total",
			Help: "Total number of health alerts created",
		},
		[]string{"alert_type", "severity", "service"},
	)

	// Meal reminder metrics
	remindersDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_reminders_dispatched_total",
			Help: "Total number of meal reminder dispatch attempts",
		},
		[]string{"status", "service"},
	)

	// Background loop metrics
	backgroundTickDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "background_tick_duration_seconds",
			Help:    "Duration of background loop ticks in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0, 30.0},
		},
		[]string{"loop", "service"},
	)

	// Outbound notification metrics
	notificationsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of outbound notifications",
		},
		[]string{"channel", "status", "service"},
	)

	// System metrics
	systemErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "system_errors_total",
			Help: "Total number of system errors",
		},
		[]string{"error_type", "service", "component"},
	)
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	serviceName string
	logger      *logger.Logger
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(serviceName string, log *logger.Logger) *MetricsCollector {
	// Register metrics
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		dbConnectionsActive,
		dbQueryDuration,
		readingsIngestedTotal,
		alertsCreatedTotal,
		remindersDispatchedTotal,
		backgroundTickDuration,
		notificationsSentTotal,
		systemErrors,
	)

	return &MetricsCollector{
		serviceName: serviceName,
		logger:      log,
	}
}

// RecordHTTPRequest records HTTP request metrics
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode, m.serviceName).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, m.serviceName).Observe(duration.Seconds())
}

// RecordDBConnection records database connection metrics
func (m *MetricsCollector) RecordDBConnection(database string, activeConnections int) {
	dbConnectionsActive.WithLabelValues(database, m.serviceName).Set(float64(activeConnections))
}

// RecordDBQuery records database query metrics
func (m *MetricsCollector) RecordDBQuery(queryType string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(queryType, m.serviceName).Observe(duration.Seconds())
}

// RecordReadingIngested records a persisted health reading by source
func (m *MetricsCollector) RecordReadingIngested(source string) {
	readingsIngestedTotal.WithLabelValues(source, m.serviceName).Inc()
}

// RecordAlertCreated records a created health alert
func (m *MetricsCollector) RecordAlertCreated(alertType, severity string) {
	alertsCreatedTotal.WithLabelValues(alertType, severity, m.serviceName).Inc()
}

// RecordReminderDispatch records a meal reminder dispatch attempt
func (m *MetricsCollector) RecordReminderDispatch(status string) {
	remindersDispatchedTotal.WithLabelValues(status, m.serviceName).Inc()
}

// RecordBackgroundTick records one execution of a periodic background loop
func (m *MetricsCollector) RecordBackgroundTick(loop string, duration time.Duration) {
	backgroundTickDuration.WithLabelValues(loop, m.serviceName).Observe(duration.Seconds())
}

// RecordNotificationSent records an outbound notification attempt
func (m *MetricsCollector) RecordNotificationSent(channel, status string) {
	notificationsSentTotal.WithLabelValues(channel, status, m.serviceName).Inc()
}

// RecordSystemError records system error metrics
func (m *MetricsCollector) RecordSystemError(errorType, component string) {
	systemErrors.WithLabelValues(errorType, m.serviceName, component).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware creates middleware for HTTP request metrics
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		statusCode := strconv.Itoa(wrapper.statusCode)

		m.RecordHTTPRequest(r.Method, r.URL.Path, statusCode, duration)
		if m.logger != nil {
			m.logger.HTTPRequest(r.Method, r.URL.Path, wrapper.statusCode, duration.Milliseconds())
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
