package promotion

import "context"

// PromoCodeRepository defines the interface for promo code persistence
type PromoCodeRepository interface {
	// FindByCode finds a promo code by its normalized code, active or not
	FindByCode(ctx context.Context, code string) (*PromoCode, error)

	// Save creates or updates a promo code
	Save(ctx context.Context, promo *PromoCode) error

	// ExistsByCode checks whether a code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
