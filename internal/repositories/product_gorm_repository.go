package repositories

import (
	"context"
	"errors"
	"fmt"

	"inventory/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// filterScope narrows a product query to the rows matching filter.
func filterScope(filter models.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Keyword != "" {
			pattern := "%" + filter.Keyword + "%"
			db = db.Where("(name LIKE ? OR description LIKE ?)", pattern, pattern)
		}
		if filter.Category != nil {
			db = db.Where("category = ?", *filter.Category)
		}
		if filter.MinPrice != nil {
			db = db.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			db = db.Where("price <= ?", *filter.MaxPrice)
		}
		return db
	}
}

// List retrieves the products matching filter, ordered by id.
func (r *GORMProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Scopes(filterScope(filter)).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewProductNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database. The database assigns the ID.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces every column of an existing product in one transaction.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save inserts when no row matches, so the row must be known to exist first.
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		if count == 0 {
			return models.NewProductNotFoundError(product.ID)
		}
		if err := tx.Save(product).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
}

// Delete permanently removes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewProductNotFoundError(id)
	}
	return nil
}

// Count returns the number of stored products.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
