package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rogerio-castellano/product-api/internal/models"
)

// GormProductRepository implements ProductRepository with the GORM query builder.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = 0
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *GormProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "Id"}}).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return products, nil
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: id}).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("query product %d: %w", id, err)
	}
	return p, nil
}

func (r *GormProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: p.ID}).
		Updates(map[string]any{
			"Name":        p.Name,
			"Description": p.Description,
			"Quantity":    p.Quantity,
		})
	if res.Error != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", p.ID, res.Error)
	}
	if err := exactlyOne(res.RowsAffected); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: id}).
		Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	return exactlyOne(res.RowsAffected)
}
