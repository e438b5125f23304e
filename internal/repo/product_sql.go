package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/product-api/internal/models"
)

// SQLProductRepository implements ProductRepository on top of database/sql.
// The same queries serve SQLite and PostgreSQL; only the placeholder style differs.
type SQLProductRepository struct {
	db          *sql.DB
	placeholder func(n int) string
}

// NewSQLiteProductRepository returns a repository for a database opened with the sqlite driver.
func NewSQLiteProductRepository(db *sql.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db, placeholder: func(int) string { return "?" }}
}

// NewPostgresProductRepository returns a repository for a database opened with the pgx driver.
func NewPostgresProductRepository(db *sql.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db, placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
}

// bind replaces each "?" in query with the dialect placeholder.
func (r *SQLProductRepository) bind(query string) string {
	var sb strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			sb.WriteString(r.placeholder(n))
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

func (r *SQLProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := r.bind(`INSERT INTO "Product" ("Name", "Description", "Quantity") VALUES (?, ?, ?) RETURNING "Id"`)

	if err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Quantity).Scan(&p.ID); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *SQLProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT "Id", "Name", "Description", "Quantity" FROM "Product" ORDER BY "Id"`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *SQLProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := r.bind(`SELECT "Id", "Name", "Description", "Quantity" FROM "Product" WHERE "Id" = ?`)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *SQLProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := r.bind(`UPDATE "Product" SET "Name" = ?, "Description" = ?, "Quantity" = ? WHERE "Id" = ?`)

	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Quantity, p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if err := exactlyOne(rowsAffected); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *SQLProductRepository) Delete(ctx context.Context, id int) error {
	query := r.bind(`DELETE FROM "Product" WHERE "Id" = ?`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return exactlyOne(rowsAffected)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p           models.Product
		name        sql.NullString
		description sql.NullString
	)
	if err := row.Scan(&p.ID, &name, &description, &p.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, err
		}
		return models.Product{}, fmt.Errorf("scan product: %w", err)
	}
	if name.Valid {
		p.Name = &name.String
	}
	if description.Valid {
		p.Description = &description.String
	}
	return p, nil
}
