// Package db opens and prepares the product database.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register "pgx" database/sql driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // register "sqlite" database/sql driver

	"github.com/rogerio-castellano/product-api/internal/repo"
)

// pingTimeout bounds the connectivity check done by Open.
const pingTimeout = 5 * time.Second

// sqlDriverNames maps configured drivers to registered database/sql driver names.
var sqlDriverNames = map[string]string{
	repo.DriverSQLite:   "sqlite",
	repo.DriverGorm:     "sqlite",
	repo.DriverPostgres: "pgx",
}

// Open opens a database for driver using the connection string dsn and checks it is reachable.
func Open(ctx context.Context, driver, dsn string, l *zap.Logger) (*sql.DB, error) {
	name, ok := sqlDriverNames[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if name == "sqlite" {
		var err error
		if dsn, err = prepareSQLite(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer, and every connection to an in-memory
	// database sees its own empty database
	if name == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	l.Debug("Database opened.", zap.String("driver", driver), zap.String("dsn", redact(driver, dsn)))

	return db, nil
}

// prepareSQLite converts dsn into a SQLite URI and creates the directory holding the database file.
func prepareSQLite(dsn string) (string, error) {
	dsn = NormalizeSQLiteDSN(dsn)
	if IsMemorySQLite(dsn) {
		return dsn, nil
	}

	dir := filepath.Dir(SQLiteFile(dsn))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create database directory %q: %w", dir, err)
	}
	return dsn, nil
}

// NormalizeSQLiteDSN accepts both SQLite URIs ("file:data/products.db") and
// "Data Source=products.db" style connection strings, and returns a URI with a busy timeout.
func NormalizeSQLiteDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)

	for _, part := range strings.Split(dsn, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "data source", "datasource", "filename":
			dsn = "file:" + strings.TrimSpace(value)
		}
	}

	if dsn == ":memory:" {
		dsn = "file::memory:"
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if !strings.Contains(dsn, "busy_timeout") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)"
	}
	return dsn
}

// SQLiteFile returns the file path of a SQLite URI.
func SQLiteFile(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	path, _, _ = strings.Cut(path, "?")
	return path
}

// IsMemorySQLite reports whether the SQLite URI names an in-memory database.
func IsMemorySQLite(dsn string) bool {
	return SQLiteFile(dsn) == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// passwordKV matches the password of a keyword/value DSN, quoted or bare.
var passwordKV = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// redact hides credentials of network database DSNs in URL or keyword/value form.
func redact(driver, dsn string) string {
	if driver != repo.DriverPostgres {
		return dsn
	}

	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		if q := u.Query(); q.Has("password") {
			q.Set("password", "xxxxx")
			u.RawQuery = q.Encode()
		}
		return u.Redacted()
	}

	return passwordKV.ReplaceAllString(dsn, "${1}xxxxx")
}
