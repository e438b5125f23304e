// Package config loads the service configuration from appsettings files,
// a .env file, PRODUCTAPI_* environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rogerio-castellano/product-api/internal/repo"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PRODUCTAPI"

// Environment names.
const (
	Development = "Development"
	Production  = "Production"
)

// Config holds all configuration for the application.
type Config struct {
	Environment       string                  `mapstructure:"environment"`
	Server            ServerConfig            `mapstructure:"server"`
	ConnectionStrings ConnectionStringsConfig `mapstructure:"connectionstrings"`
	Database          DatabaseConfig          `mapstructure:"database"`
	Log               LogConfig               `mapstructure:"log"`
	RateLimit         RateLimitConfig         `mapstructure:"ratelimit"`
	Cors              CorsConfig              `mapstructure:"cors"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"readtimeout"`
	WriteTimeout    time.Duration `mapstructure:"writetimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdowntimeout"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a reverse proxy that overwrites those headers.
	TrustProxyHeaders bool `mapstructure:"trustproxyheaders"`
}

type ConnectionStringsConfig struct {
	DefaultConnection string `mapstructure:"defaultconnection"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig configures the per-client limiter; zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requestspersecond"`
	Burst             int     `mapstructure:"burst"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedorigins"`
}

// Options are command-line overrides applied on top of files and environment.
type Options struct {
	ConfigDir   string
	Environment string
	ListenAddr  string
	LogLevel    string
}

var defaults = map[string]any{
	"environment":                         Production,
	"server.addr":                         ":8080",
	"server.readtimeout":                  15 * time.Second,
	"server.writetimeout":                 15 * time.Second,
	"server.shutdowntimeout":              30 * time.Second,
	"server.trustproxyheaders":            false,
	"connectionstrings.defaultconnection": "file:data/products.db",
	"database.driver":                     repo.DriverSQLite,
	"log.level":                           "info",
	"log.format":                          "console",
	"ratelimit.requestspersecond":         0,
	"ratelimit.burst":                     3,
	"cors.allowedorigins":                 []string{"*"},
}

// Load reads configuration in increasing precedence: defaults, appsettings.json,
// appsettings.{Environment}.json, .env, environment variables, opts.
func Load(opts Options) (*Config, error) {
	dir := opts.ConfigDir
	if dir == "" {
		dir = "."
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetConfigName("appsettings")
	if err := readConfig(v.ReadInConfig); err != nil {
		return nil, err
	}

	env := opts.Environment
	if env == "" {
		env = v.GetString("environment")
	}

	v.SetConfigName("appsettings." + env)
	if err := readConfig(v.MergeInConfig); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.Environment = env
	if opts.ListenAddr != "" {
		cfg.Server.Addr = opts.ListenAddr
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// readConfig runs read and ignores a missing file.
func readConfig(read func() error) error {
	err := read()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to read configuration: %w", err)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("Server.Addr is required")
	}

	switch c.Database.Driver {
	case repo.DriverSQLite, repo.DriverPostgres, repo.DriverGorm, repo.DriverMemory:
	default:
		return fmt.Errorf("invalid database driver: %q (must be sqlite, postgres, gorm or memory)", c.Database.Driver)
	}

	if c.Database.Driver != repo.DriverMemory && strings.TrimSpace(c.ConnectionStrings.DefaultConnection) == "" {
		return errors.New("ConnectionStrings.DefaultConnection is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Log.Format)
	}

	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate limit values cannot be negative")
	}

	return nil
}

// IsDevelopment reports whether the service runs in the Development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, Development)
}
