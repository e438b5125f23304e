package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-api/internal/repo"
)

var schema = map[string]string{
	repo.DriverSQLite: `CREATE TABLE IF NOT EXISTS "Product" (
	"Id"          INTEGER PRIMARY KEY AUTOINCREMENT,
	"Name"        TEXT NULL,
	"Description" TEXT NULL,
	"Quantity"    INTEGER NOT NULL
)`,
	repo.DriverPostgres: `CREATE TABLE IF NOT EXISTS "Product" (
	"Id"          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	"Name"        TEXT NULL,
	"Description" TEXT NULL,
	"Quantity"    BIGINT NOT NULL
)`,
}

func init() {
	schema[repo.DriverGorm] = schema[repo.DriverSQLite]
}

// Migrate creates the Product table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver string, l *zap.Logger) error {
	ddl, ok := schema[driver]
	if !ok {
		return fmt.Errorf("no schema for database driver %q", driver)
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create Product table: %w", err)
	}

	l.Info("Database schema is up to date.", zap.String("driver", driver))
	return nil
}
