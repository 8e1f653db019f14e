package cart

import (
	"github.com/giftshop/backend/internal/domain/cart"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput is one submitted cart line. Name and Price are client hints only;
// the catalog is authoritative.
type LineInput struct {
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
	Name      string            `json:"name,omitempty"`
	Price     *decimal.Decimal  `json:"price,omitempty" swaggertype:"string"`
}

// QuoteRequest asks for a price breakdown of a cart
type QuoteRequest struct {
	Items            []LineInput `json:"items"`
	DeliveryLocation string      `json:"deliveryLocation"`
	PromoCode        string      `json:"promoCode"`
}

// LineResponse is a priced cart line
type LineResponse struct {
	ProductID uuid.UUID         `json:"productId"`
	Name      string            `json:"name"`
	NameEn    string            `json:"nameEn"`
	NameBn    string            `json:"nameBn"`
	UnitPrice decimal.Decimal   `json:"unitPrice"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
	LineTotal decimal.Decimal   `json:"lineTotal"`
}

// QuoteResponse is the cart price breakdown. PromoError carries the rejection
// code when the submitted promo could not be applied.
type QuoteResponse struct {
	Items            []LineResponse  `json:"items"`
	ItemCount        int             `json:"itemCount"`
	DeliveryLocation string          `json:"deliveryLocation,omitempty"`
	PromoCode        string          `json:"promoCode,omitempty"`
	DiscountPercent  int             `json:"discountPercent"`
	PromoError       string          `json:"promoError,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DeliveryFee      decimal.Decimal `json:"deliveryFee"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Currency         string          `json:"currency"`
}

// DeliveryZoneResponse is one configured delivery zone
type DeliveryZoneResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameEn string `json:"nameEn"`
	NameBn string `json:"nameBn"`
	Fee    int64  `json:"fee"`
}

// ToQuoteResponse converts a priced cart
func ToQuoteResponse(c *cart.Cart, lang string) QuoteResponse {
	lines := c.Lines()
	items := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, LineResponse{
			ProductID: l.ProductID,
			Name:      l.Name.In(lang),
			NameEn:    l.Name.En,
			NameBn:    l.Name.Bn,
			UnitPrice: l.UnitPrice.Amount(),
			Quantity:  l.Quantity,
			Variant:   l.Variant,
			LineTotal: l.Total().Amount(),
		})
	}

	b := c.Breakdown()
	return QuoteResponse{
		Items:            items,
		ItemCount:        b.ItemCount,
		DeliveryLocation: c.DeliveryZone(),
		PromoCode:        b.PromoCode,
		DiscountPercent:  b.PromoPercent,
		Subtotal:         b.Subtotal.Amount(),
		DeliveryFee:      b.DeliveryFee.Amount(),
		DiscountAmount:   b.Discount.Amount(),
		TotalAmount:      b.Total.Amount(),
		Currency:         string(valueobject.DefaultCurrency),
	}
}

// ToDeliveryZoneResponse converts a configured zone
func ToDeliveryZoneResponse(z cart.DeliveryZone, lang string) DeliveryZoneResponse {
	return DeliveryZoneResponse{
		ID:     z.ID,
		Name:   z.Name.In(lang),
		NameEn: z.Name.En,
		NameBn: z.Name.Bn,
		Fee:    z.Fee,
	}
}
