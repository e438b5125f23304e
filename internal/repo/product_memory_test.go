package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/product-api/internal/models"
)

func TestInMemoryProductRepositoryIsolation(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	name := "Widget"
	created, err := r.Create(ctx, models.Product{Name: &name})
	require.NoError(t, err)

	name = "Changed by caller"

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", *got.Name)

	*got.Name = "Changed again"
	again, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", *again.Name)
}

func TestInMemoryProductRepositoryClear(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, models.Product{Quantity: 1})
	require.NoError(t, err)

	r.Clear()

	products, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	created, err := r.Create(ctx, models.Product{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestExactlyOne(t *testing.T) {
	assert.NoError(t, exactlyOne(1))
	assert.ErrorIs(t, exactlyOne(0), ErrProductNotFound)
	assert.ErrorIs(t, exactlyOne(2), ErrProductNotFound)
}

func TestSQLProductRepositoryBind(t *testing.T) {
	query := `UPDATE "Product" SET "Name" = ?, "Quantity" = ? WHERE "Id" = ?`

	assert.Equal(t, query, NewSQLiteProductRepository(nil).bind(query))
	assert.Equal(t,
		`UPDATE "Product" SET "Name" = $1, "Quantity" = $2 WHERE "Id" = $3`,
		NewPostgresProductRepository(nil).bind(query),
	)
}
