package promotion

import (
	"errors"
	"strings"
	"time"

	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
)

// Promo rejection reasons. Each carries its own code so clients can
// render a precise message.
var (
	ErrPromoNotFound     = shared.NewDomainError("PROMO_NOT_FOUND", "Promo code not found")
	ErrPromoBelowMinimum = shared.NewDomainError("PROMO_BELOW_MINIMUM", "Order subtotal is below the promo code minimum")
	ErrPromoExpired      = shared.NewDomainError("PROMO_EXPIRED", "Promo code has expired")
	ErrInvalidPromoCode  = shared.NewDomainError("INVALID_PROMO_CODE", "Promo code must be 3-32 letters, digits, hyphens or underscores")
	ErrInvalidDiscount   = shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 1 and 100")
	ErrInvalidMinOrder   = shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order cannot be negative")
)

// IsRejection reports whether err is one of the customer-facing promo rejections
func IsRejection(err error) bool {
	return errors.Is(err, ErrPromoNotFound) ||
		errors.Is(err, ErrPromoBelowMinimum) ||
		errors.Is(err, ErrPromoExpired)
}

// PromoCode is a server-held percentage discount rule.
// Checkout only reads it; nothing in the order flow mutates it.
type PromoCode struct {
	shared.BaseAggregateRoot
	Code            string
	DiscountPercent int
	MinOrder        int64 // whole taka
	Active          bool
	ExpiresAt       *time.Time
}

// NewPromoCode creates a new active promo code
func NewPromoCode(code string, discountPercent int, minOrder int64, expiresAt *time.Time) (*PromoCode, error) {
	normalized := NormalizeCode(code)
	if err := validateCode(normalized); err != nil {
		return nil, err
	}
	if discountPercent < 1 || discountPercent > 100 {
		return nil, ErrInvalidDiscount
	}
	if minOrder < 0 {
		return nil, ErrInvalidMinOrder
	}

	return &PromoCode{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              normalized,
		DiscountPercent:   discountPercent,
		MinOrder:          minOrder,
		Active:            true,
		ExpiresAt:         expiresAt,
	}, nil
}

// NormalizeCode trims and upper-cases a customer-entered code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsExpired reports whether the code has an expiry that is not after now
func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// Validate checks the code against a subtotal and returns the discount percent to apply.
// Inactive codes behave as if they did not exist.
func (p *PromoCode) Validate(subtotal valueobject.Money, now time.Time) (int, error) {
	if !p.Active {
		return 0, ErrPromoNotFound
	}
	if subtotal.Amount().LessThan(valueobject.TakaFromInt(p.MinOrder).Amount()) {
		return 0, ErrPromoBelowMinimum
	}
	if p.IsExpired(now) {
		return 0, ErrPromoExpired
	}
	return p.DiscountPercent, nil
}

// Deactivate withdraws the code
func (p *PromoCode) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateCode(code string) error {
	if len(code) < 3 || len(code) > 32 {
		return ErrInvalidPromoCode
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return ErrInvalidPromoCode
		}
	}
	return nil
}
