package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/prometheus"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

func TestRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
		msg    string
	}{
		{http.StatusOK, "info", "request completed"},
		{http.StatusNotFound, "warn", "request rejected"},
		{http.StatusInternalServerError, "error", "request failed"},
	}
	for _, tt := range tests {
		core, logs := observer.New(zap.DebugLevel)
		handler := RequestLogging(logging.NewLoggerFromCore(core), DefaultLoggingConfig())(statusHandler(tt.status))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, tt.msg, entry.Message)
		assert.Equal(t, tt.level, entry.Level.String())
		assert.EqualValues(t, tt.status, entry.ContextMap()["status"])
		assert.Equal(t, "/api/v1/menu", entry.ContextMap()["path"])
	}
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	handler := RequestLogging(logging.NewLoggerFromCore(core), DefaultLoggingConfig())(okHandler())

	for _, p := range []string{"/healthz", "/readyz", "/metrics"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	assert.Equal(t, 0, logs.Len())
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "orderbot"}, nil)
	require.NoError(t, err)
	m := prometheus.NewHTTPMetrics(collector)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/v1/orders/{orderID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil))

	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `orderbot_http_requests_total{method="GET",route="/api/v1/orders/{orderID}",status_code="404"} 1`)
}
