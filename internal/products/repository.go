package product

import (
	"context"

	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists catalog entries in the products table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetByID loads one product or returns a not found error.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}

// Upsert inserts the product or replaces every column of the existing row,
// reading the stored row back inside the same transaction.
func (r *Repository) Upsert(ctx context.Context, product *models.Product) (*models.Product, error) {
	var saved *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "price", "original_price", "images", "metal_types",
				"diamond_sizes", "is_lab_grown", "attributes", "updated_at",
			}),
		}).Create(product).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product")
		}
		saved, err = r.WithTx(tx).GetByID(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// List returns products ordered by id starting after the given cursor.
func (r *Repository) List(ctx context.Context, after string, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("id ASC").Limit(pagination.NormalizeLimit(limit))
	if after != "" {
		query = query.Where("id > ?", after)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}
