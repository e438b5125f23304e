package http_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/rogerio-castellano/product-api/internal/http"
	"github.com/rogerio-castellano/product-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-api/internal/repo"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func init() {
	handlers.SetProductRepo(repo.NewInMemoryProductRepository())
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSwaggerOnlyInDevelopment(t *testing.T) {
	prod := api.NewRouter(api.RouterOptions{})
	assert.Equal(t, http.StatusNotFound, get(prod, "/swagger/index.html").Code)
	assert.Equal(t, http.StatusNotFound, get(prod, "/swagger/doc.json").Code)

	dev := api.NewRouter(api.RouterOptions{Swagger: true})
	assert.Equal(t, http.StatusOK, get(dev, "/swagger/index.html").Code)

	w := get(dev, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/Product/{id}"`)
}

func TestProductsPathWithAndWithoutSlash(t *testing.T) {
	r := api.NewRouter(api.RouterOptions{})

	for _, path := range []string{"/api/Product", "/api/Product/"} {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"), path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(api.NewRouter(api.RouterOptions{}), "/metrics").Code)

	r := api.NewRouter(api.RouterOptions{Registry: prometheus.NewRegistry()})
	get(r, "/api/Product/")

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `product_api_http_requests_total{method="GET",route="/api/Product`), body)
	assert.True(t, strings.Contains(body, `status="200"} 1`), body)
}

func TestHealth(t *testing.T) {
	r := api.NewRouter(api.RouterOptions{})

	t.Cleanup(func() { handlers.SetPinger(nil) })

	handlers.SetPinger(pingerFunc(func(context.Context) error { return nil }))
	w := get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	handlers.SetPinger(pingerFunc(func(context.Context) error { return errors.New("disk gone") }))
	w = get(r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"unreachable"`)
}

func TestCORS(t *testing.T) {
	r := api.NewRouter(api.RouterOptions{AllowedOrigins: []string{"https://shop.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/Product/", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterOnlyOnProducts(t *testing.T) {
	r := api.NewRouter(api.RouterOptions{RateLimiter: rl.New(0.001, 1)})

	assert.Equal(t, http.StatusOK, get(r, "/api/Product/").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/Product/").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
}

func getFrom(h http.Handler, path, peer, forwarded string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = peer
	req.Header.Set("X-Forwarded-For", forwarded)
	req.Header.Set("X-Real-IP", forwarded)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiterIgnoresForwardedHeaders(t *testing.T) {
	r := api.NewRouter(api.RouterOptions{RateLimiter: rl.New(0.001, 1)})

	require.Equal(t, http.StatusOK, getFrom(r, "/api/Product/", "203.0.113.7:5555", "10.0.0.1").Code)
	for i := 2; i <= 20; i++ {
		w := getFrom(r, "/api/Product/", "203.0.113.7:5555", fmt.Sprintf("10.0.0.%d", i))
		assert.Equal(t, http.StatusTooManyRequests, w.Code, "request %d", i)
	}
}

func TestRateLimiterTrustsProxyWhenEnabled(t *testing.T) {
	r := api.NewRouter(api.RouterOptions{RateLimiter: rl.New(0.001, 1), TrustProxy: true})

	assert.Equal(t, http.StatusOK, getFrom(r, "/api/Product/", "198.51.100.1:80", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, getFrom(r, "/api/Product/", "198.51.100.1:80", "10.0.0.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, getFrom(r, "/api/Product/", "198.51.100.1:80", "10.0.0.1").Code)
}
