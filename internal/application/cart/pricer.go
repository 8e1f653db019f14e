// Package cart prices submitted carts against the live catalog and the
// configured delivery zones.
package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/giftshop/backend/internal/domain/cart"
	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxLines caps the number of submitted cart lines
const MaxLines = 100

// MaxQuantity caps a single line's quantity
const MaxQuantity = 999

// Pricer rebuilds a cart from submitted lines using catalog prices
type Pricer struct {
	products catalog.ProductRepository
	zones    cart.DeliveryZones
	logger   *zap.Logger
}

// NewPricer creates a new Pricer
func NewPricer(products catalog.ProductRepository, zones cart.DeliveryZones, logger *zap.Logger) *Pricer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pricer{products: products, zones: zones, logger: logger}
}

// Zones returns the configured delivery zone table
func (p *Pricer) Zones() cart.DeliveryZones {
	return p.zones
}

// Build prices lines and selects zone. Input problems are appended to verr
// using JSON field names; the returned cart is only usable when verr has no
// errors. The returned error is reserved for infrastructure failures.
func (p *Pricer) Build(ctx context.Context, lines []LineInput, zone string, verr *shared.ValidationError) (*cart.Cart, error) {
	c := cart.New(p.zones)

	zone = strings.TrimSpace(zone)
	if zone != "" {
		if err := c.SetDeliveryZone(zone); err != nil {
			verr.AddDomainError("deliveryLocation", cart.ErrUnknownZone)
		}
	}

	if len(lines) == 0 {
		verr.Add("items", "at least one item is required")
		return c, nil
	}
	if len(lines) > MaxLines {
		verr.Add("items", fmt.Sprintf("at most %d items are allowed", MaxLines))
		return c, nil
	}

	ids := make([]uuid.UUID, len(lines))
	valid := make([]bool, len(lines))
	for i, l := range lines {
		field := fmt.Sprintf("items[%d]", i)
		ok := true
		id, err := uuid.Parse(strings.TrimSpace(l.ProductID))
		if err != nil {
			verr.Add(field+".productId", "must be a valid product id")
			ok = false
		}
		if l.Quantity < 1 {
			verr.Add(field+".quantity", "must be at least 1")
			ok = false
		} else if l.Quantity > MaxQuantity {
			verr.Add(field+".quantity", fmt.Sprintf("must be at most %d", MaxQuantity))
			ok = false
		}
		if l.Price != nil && l.Price.IsNegative() {
			verr.Add(field+".price", "must not be negative")
			ok = false
		}
		ids[i], valid[i] = id, ok
	}

	found, err := p.products.FindByIDs(ctx, uniqueIDs(ids, valid))
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	for i, l := range lines {
		if !valid[i] {
			continue
		}
		product, ok := byID[ids[i]]
		if !ok || !product.IsAvailable() {
			verr.Add(fmt.Sprintf("items[%d].productId", i), "product is not available")
			continue
		}
		unitPrice := product.PriceMoney()
		if l.Price != nil && !l.Price.Equal(unitPrice.Amount()) {
			p.logger.Warn("Submitted item price differs from catalog",
				zap.String("product_id", product.ID.String()),
				zap.String("submitted", l.Price.String()),
				zap.String("catalog", unitPrice.String()),
			)
		}
		if err := c.AddItem(cart.Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: unitPrice,
			Quantity:  l.Quantity,
			Variant:   cart.Variant(l.Variant),
		}); err != nil {
			verr.Add(fmt.Sprintf("items[%d]", i), err.Error())
		}
	}

	return c, nil
}

func uniqueIDs(ids []uuid.UUID, valid []bool) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for i, id := range ids {
		if !valid[i] {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
