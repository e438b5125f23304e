package db

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-api/internal/repo"
)

// Store is an opened product repository together with the resources backing it.
type Store struct {
	Products repo.ProductRepository

	sqlDB *sql.DB
}

// OpenStore opens the database for driver, applies the schema and builds the matching repository.
func OpenStore(ctx context.Context, driver, dsn string, l *zap.Logger) (*Store, error) {
	if driver == repo.DriverMemory {
		l.Warn("Using in-memory product repository; data is lost on exit.")
		return &Store{Products: repo.NewInMemoryProductRepository()}, nil
	}

	sqlDB, err := Open(ctx, driver, dsn, l)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, sqlDB, driver, l); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s := &Store{sqlDB: sqlDB}

	switch driver {
	case repo.DriverPostgres:
		s.Products = repo.NewPostgresProductRepository(sqlDB)
	case repo.DriverGorm:
		gdb, err := OpenGorm(sqlDB, l)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		s.Products = repo.NewGormProductRepository(gdb)
	default:
		s.Products = repo.NewSQLiteProductRepository(sqlDB)
	}

	return s, nil
}

// DB returns the underlying database, or nil for the in-memory store.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

// Ping checks the database is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.PingContext(ctx)
}

// Close releases the database.
func (s *Store) Close() error {
	if s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
