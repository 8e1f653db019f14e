package cart

import (
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Cart errors
var (
	ErrLineNotFound    = shared.NewDomainError("CART_LINE_NOT_FOUND", "Item is not in the cart")
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrInvalidPrice    = shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	ErrInvalidPercent  = shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
)

// Line is one product+variant selection in the cart
type Line struct {
	ProductID uuid.UUID
	Name      valueobject.LocalizedText
	UnitPrice valueobject.Money
	Quantity  int
	Variant   Variant
}

// Total returns unit price times quantity
func (l Line) Total() valueobject.Money {
	return l.UnitPrice.MultiplyByInt(int64(l.Quantity))
}

func (l Line) matches(productID uuid.UUID, variant Variant) bool {
	return l.ProductID == productID && l.Variant.Equal(variant)
}

// Cart holds the working set of selected items and derives the price breakdown.
// It is not safe for concurrent use; each request or session owns its own cart.
type Cart struct {
	lines        []Line
	zones        DeliveryZones
	zone         string
	promoCode    string
	promoPercent int
}

// New creates an empty cart priced against the given zone table
func New(zones DeliveryZones) *Cart {
	return &Cart{zones: zones}
}

// AddItem merges into an existing line with the same product and variant,
// or appends a new line.
func (c *Cart) AddItem(line Line) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if line.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	for i := range c.lines {
		if c.lines[i].matches(line.ProductID, line.Variant) {
			c.lines[i].Quantity += line.Quantity
			return nil
		}
	}
	line.Variant = line.Variant.Clone()
	c.lines = append(c.lines, line)
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line
func (c *Cart) UpdateQuantity(productID uuid.UUID, variant Variant, quantity int) error {
	for i := range c.lines {
		if !c.lines[i].matches(productID, variant) {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
		c.lines[i].Quantity = quantity
		return nil
	}
	return ErrLineNotFound
}

// RemoveItem drops the line for a product and variant
func (c *Cart) RemoveItem(productID uuid.UUID, variant Variant) error {
	return c.UpdateQuantity(productID, variant, 0)
}

// Clear empties the cart and drops any applied promo. The delivery zone is kept.
func (c *Cart) Clear() {
	c.lines = nil
	c.RemovePromo()
}

// Lines returns a copy of the cart lines
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the total quantity across lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// SetDeliveryZone selects the delivery zone
func (c *Cart) SetDeliveryZone(zone string) error {
	if !c.zones.Has(zone) {
		return ErrUnknownZone
	}
	c.zone = zone
	return nil
}

// DeliveryZone returns the selected zone id, empty if none
func (c *Cart) DeliveryZone() string {
	return c.zone
}

// ApplyPromo records an already validated promo code and its percent
func (c *Cart) ApplyPromo(code string, percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidPercent
	}
	c.promoCode = code
	c.promoPercent = percent
	return nil
}

// RemovePromo resets the discount to zero
func (c *Cart) RemovePromo() {
	c.promoCode = ""
	c.promoPercent = 0
}

// PromoCode returns the applied promo code, empty if none
func (c *Cart) PromoCode() string {
	return c.promoCode
}

// PromoPercent returns the applied discount percent, 0 if none
func (c *Cart) PromoPercent() int {
	return c.promoPercent
}

// Subtotal returns the sum of unit price times quantity over all lines
func (c *Cart) Subtotal() valueobject.Money {
	total := valueobject.Zero(valueobject.DefaultCurrency)
	for _, l := range c.lines {
		total = total.MustAdd(l.Total())
	}
	return total
}

// DeliveryFee returns the fee for the selected zone, zero when none is selected
func (c *Cart) DeliveryFee() valueobject.Money {
	if c.zone == "" {
		return valueobject.Zero(valueobject.DefaultCurrency)
	}
	fee, err := c.zones.Fee(c.zone)
	if err != nil {
		return valueobject.Zero(valueobject.DefaultCurrency)
	}
	return fee
}

// Discount returns subtotal times the promo percent over 100
func (c *Cart) Discount() valueobject.Money {
	return c.Subtotal().Percent(c.promoPercent)
}

// Total returns subtotal + delivery fee - discount
func (c *Cart) Total() valueobject.Money {
	return c.Subtotal().MustAdd(c.DeliveryFee()).MustSubtract(c.Discount())
}

// Breakdown is a snapshot of the cart's derived amounts
type Breakdown struct {
	Subtotal     valueobject.Money
	DeliveryFee  valueobject.Money
	Discount     valueobject.Money
	Total        valueobject.Money
	PromoCode    string
	PromoPercent int
	ItemCount    int
}

// Breakdown computes all derived amounts at once
func (c *Cart) Breakdown() Breakdown {
	return Breakdown{
		Subtotal:     c.Subtotal(),
		DeliveryFee:  c.DeliveryFee(),
		Discount:     c.Discount(),
		Total:        c.Total(),
		PromoCode:    c.promoCode,
		PromoPercent: c.promoPercent,
		ItemCount:    c.ItemCount(),
	}
}
