package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testRouter(mws ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(mws...)
	r.Get("/api/Product/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "0" {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		w.Write([]byte(`{}`))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := testRouter(Logger(zap.New(core)))

	for _, path := range []string{"/api/Product/1", "/api/Product/0", "/boom"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "/api/Product/1", entries[0].ContextMap()["path"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	h := testRouter(m.Handler)

	for _, path := range []string{"/api/Product/1", "/api/Product/2", "/api/Product/0", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP product_api_http_requests_total Total number of HTTP requests.
# TYPE product_api_http_requests_total counter
product_api_http_requests_total{method="GET",route="/api/Product/{id}",status="200"} 2
product_api_http_requests_total{method="GET",route="/api/Product/{id}",status="404"} 1
product_api_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "product_api_http_requests_total")
	assert.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}
