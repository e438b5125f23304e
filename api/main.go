package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-api/internal/config"
	"github.com/rogerio-castellano/product-api/internal/db"
	api "github.com/rogerio-castellano/product-api/internal/http"
	"github.com/rogerio-castellano/product-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-api/internal/logging"
)

// The cli struct represents all command-line commands, fields and flags.
var cli struct {
	ConfigDir   string `default:"."  help:"Directory with appsettings.json, appsettings.{Environment}.json and .env." type:"path"`
	Environment string `default:""   help:"Environment name; Development enables /swagger/."`
	ListenAddr  string `default:""   help:"Listen TCP address, overrides Server.Addr."`
	LogLevel    string `default:""   help:"Log level: 'debug', 'info', 'warn', 'error'."`

	Serve   struct{} `cmd:"" default:"1" help:"Run the HTTP server (default)."`
	Migrate struct{} `cmd:""             help:"Create the database schema and exit."`
}

// @title Product API
// @version 1.0
// @description CRUD API over the Product table.
// @BasePath /
func main() {
	kongCtx := kong.Parse(&cli,
		kong.Name("product-api"),
		kong.Description("HTTP CRUD API over a single Product table."),
		kong.DefaultEnvars(config.EnvPrefix),
	)

	cfg, err := config.Load(config.Options{
		ConfigDir:   cli.ConfigDir,
		Environment: cli.Environment,
		ListenAddr:  cli.ListenAddr,
		LogLevel:    cli.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	if _, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf)); err != nil {
		logger.Sugar().Warnf("Failed to set GOMAXPROCS: %s.", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch kongCtx.Command() {
	case "migrate":
		err = migrate(ctx, cfg, logger)
	default:
		err = serve(ctx, cfg, logger)
	}

	if err != nil {
		logger.Error("Exiting with error.", zap.Error(err))
		os.Exit(1)
	}
}

func migrate(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := db.OpenStore(ctx, cfg.Database.Driver, cfg.ConnectionStrings.DefaultConnection, logger.Named("db"))
	if err != nil {
		return err
	}
	return store.Close()
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting product API.",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.Server.Addr),
		zap.String("driver", cfg.Database.Driver),
	)

	store, err := db.OpenStore(ctx, cfg.Database.Driver, cfg.ConnectionStrings.DefaultConnection, logger.Named("db"))
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer store.Close()

	handlers.SetProductRepo(store.Products)
	handlers.SetPinger(store)
	handlers.SetLogger(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sqlDB := store.DB(); sqlDB != nil {
		registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "products"))
	}

	opts := api.RouterOptions{
		Logger:         logger,
		Swagger:        cfg.IsDevelopment(),
		Registry:       registry,
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		TrustProxy:     cfg.Server.TrustProxyHeaders,
	}

	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter := rl.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.StartVisitorCleanupLoop(ctx, time.Minute)
		opts.RateLimiter = limiter
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening.", zap.String("addr", cfg.Server.Addr), zap.Bool("swagger", opts.Swagger))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully.")
	return nil
}
