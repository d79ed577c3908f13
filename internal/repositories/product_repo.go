package repositories

import (
	"context"

	"inventory/internal/models"
)

// ProductRepository defines the interface for product data access.
// Implementations trust their callers: status transitions are validated before Update is called.
type ProductRepository interface {
	// List returns the products matching filter ordered by ascending id.
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	// GetByID returns a *models.ProductNotFoundError when the id does not exist.
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// Create assigns the product's id.
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
