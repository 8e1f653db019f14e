package order

import (
	"context"

	"github.com/giftshop/backend/internal/domain/shared"
)

// Filter narrows order listings
type Filter struct {
	shared.Filter
	Status Status
}

// Repository defines the interface for order persistence
type Repository interface {
	// Create inserts a new order in a single statement.
	// Returns ErrDuplicateCode when the order code is already taken.
	Create(ctx context.Context, o *Order) error

	// FindByCode finds an order by its public code
	FindByCode(ctx context.Context, code string) (*Order, error)

	// LatestCodeWithPrefix returns the code with the highest sequence among
	// codes starting with prefix, or "" when there is none
	LatestCodeWithPrefix(ctx context.Context, prefix string) (string, error)

	// UpdateStatus persists a status change guarded by the aggregate version.
	// Returns shared.ErrConcurrencyConflict when the stored version moved on.
	UpdateStatus(ctx context.Context, o *Order) error

	// FindAll finds orders matching the filter, newest first
	FindAll(ctx context.Context, filter Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)
}
