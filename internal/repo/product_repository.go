package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/product-api/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
}

// ErrProductNotFound is returned when no row matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// Drivers accepted by the repository constructors.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
	DriverMemory   = "memory"
)

// exactlyOne maps an affected row count to ErrProductNotFound unless a single row changed.
func exactlyOne(rowsAffected int64) error {
	if rowsAffected != 1 {
		return ErrProductNotFound
	}
	return nil
}
