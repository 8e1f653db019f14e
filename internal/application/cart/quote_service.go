package cart

import (
	"context"
	"errors"

	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/giftshop/backend/internal/infrastructure/telemetry"
)

// PromoValidator checks a promo code against a subtotal and returns the percent to apply
type PromoValidator interface {
	Validate(ctx context.Context, code string, subtotal valueobject.Money) (int, error)
}

// QuoteService prices carts for display before checkout
type QuoteService struct {
	pricer *Pricer
	promos PromoValidator
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(pricer *Pricer, promos PromoValidator) *QuoteService {
	return &QuoteService{pricer: pricer, promos: promos}
}

// Quote rebuilds the cart from req and returns its breakdown. A rejected
// promo does not fail the quote: the breakdown is returned without discount
// and PromoError names the reason.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest, lang string) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "quote",
		telemetry.SpanAttrItemCount, len(req.Items),
		telemetry.SpanAttrDeliveryZone, req.DeliveryLocation,
	)
	defer span.End()

	verr := &shared.ValidationError{}
	c, err := s.pricer.Build(ctx, req.Items, req.DeliveryLocation, verr)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	var promoError string
	if code := promotion.NormalizeCode(req.PromoCode); code != "" {
		percent, err := s.promos.Validate(ctx, code, c.Subtotal())
		switch {
		case err == nil:
			if err := c.ApplyPromo(code, percent); err != nil {
				return nil, err
			}
		case promotion.IsRejection(err):
			promoError = rejectionCode(err)
			telemetry.AddEvent(span, "promo_rejected", "reason", promoError)
		default:
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	resp := ToQuoteResponse(c, lang)
	resp.PromoError = promoError
	return &resp, nil
}

// Zones lists the configured delivery zones
func (s *QuoteService) Zones(lang string) []DeliveryZoneResponse {
	zones := s.pricer.Zones().All()
	out := make([]DeliveryZoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, ToDeliveryZoneResponse(z, lang))
	}
	return out
}

// rejectionCode returns the code of the DomainError in err's chain
func rejectionCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
