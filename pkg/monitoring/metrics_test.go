package monitoring

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
)

// Collectors are built directly so tests do not re-register the
// package-level Prometheus metrics.
func testCollector(log *logger.Logger) *MetricsCollector {
	return &MetricsCollector{serviceName: "test", logger: log}
}

func TestHTTPMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("debug")
	log.SetOutput(&buf)

	handler := testCollector(log).HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/api/v1/health-data", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"http_request":true`)
	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, `"path":"/api/v1/health-data"`)
	assert.Contains(t, out, `"status_code":201`)
}

func TestHTTPMiddleware_WarnsOnErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("debug")
	log.SetOutput(&buf)

	handler := testCollector(log).HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/api/v1/meal-plans/missing", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, `"status_code":404`)
	assert.Contains(t, out, `"level":"warning"`)
}

func TestHTTPMiddleware_NilLogger(t *testing.T) {
	handler := testCollector(nil).HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
