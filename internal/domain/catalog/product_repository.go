package catalog

import (
	"context"

	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	CategoryID string
	Featured   *bool
	// IncludeInactive exposes hidden products; customer reads never set it
	IncludeInactive bool
}

// DefaultProductFilter returns a filter for active products with default paging.
// OrderBy is left empty so listings put featured products first.
func DefaultProductFilter() ProductFilter {
	f := shared.DefaultFilter()
	f.OrderBy = ""
	return ProductFilter{Filter: f}
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID regardless of active flag
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs regardless of active flag
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
