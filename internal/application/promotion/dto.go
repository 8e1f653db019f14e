package promotion

import (
	"time"

	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/shopspring/decimal"
)

// CreatePromoCodeRequest represents a request to create a promo code
type CreatePromoCodeRequest struct {
	Code            string     `json:"code" binding:"required,min=3,max=32"`
	DiscountPercent int        `json:"discountPercent" binding:"required,min=1,max=100"`
	MinOrder        int64      `json:"minOrder" binding:"min=0"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

// ValidatePromoCodeRequest carries the subtotal a code is checked against
type ValidatePromoCodeRequest struct {
	Subtotal decimal.Decimal `json:"subtotal" swaggertype:"string" example:"1100"`
}

// PromoCodeResponse represents a promo code in API responses
type PromoCodeResponse struct {
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discountPercent"`
	MinOrder        int64      `json:"minOrder"`
	Active          bool       `json:"active"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

// PromoCheckResponse is the result of an accepted promo validation
type PromoCheckResponse struct {
	Code            string          `json:"code"`
	DiscountPercent int             `json:"discountPercent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
}

// ToPromoCodeResponse converts a domain PromoCode
func ToPromoCodeResponse(p *promotion.PromoCode) PromoCodeResponse {
	return PromoCodeResponse{
		Code:            p.Code,
		DiscountPercent: p.DiscountPercent,
		MinOrder:        p.MinOrder,
		Active:          p.Active,
		ExpiresAt:       p.ExpiresAt,
	}
}
