package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/rogerio-castellano/product-api/docs" // register the OpenAPI document
	"github.com/rogerio-castellano/product-api/internal/http/handlers"
	mw "github.com/rogerio-castellano/product-api/internal/http/middleware"
	rl "github.com/rogerio-castellano/product-api/internal/http/rate_limiter"
)

// RouterOptions configure NewRouter. The zero value serves the product API only.
type RouterOptions struct {
	Logger *zap.Logger

	// Swagger mounts the interactive API documentation under /swagger/.
	Swagger bool

	// Registry receives request metrics and is exposed on /metrics; nil disables both.
	Registry *prometheus.Registry

	// RateLimiter throttles requests per client when set.
	RateLimiter *rl.RateLimiter

	AllowedOrigins []string

	// TrustProxy rewrites the client address from X-Forwarded-For / X-Real-IP.
	// Off by default so clients cannot pick their own rate limit bucket.
	TrustProxy bool
}

func NewRouter(opts RouterOptions) http.Handler {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(mw.Logger(l.Named("http")))
	r.Use(chimiddleware.Recoverer)

	if opts.Registry != nil {
		r.Use(mw.NewMetrics(opts.Registry).Handler)
	}

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"Location"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", handlers.HealthHandler)

	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
			Timeout:       10 * time.Second,
		}))
	}

	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route(handlers.ProductsPath, func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Get("/", handlers.GetProductsHandler)
		r.Post("/", handlers.CreateProductHandler)
		r.Get("/{id}", handlers.GetProductByIDHandler)
		r.Put("/{id}", handlers.UpdateProductHandler)
		r.Delete("/{id}", handlers.DeleteProductHandler)
	})

	return r
}
