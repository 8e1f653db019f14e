package order

import (
	"strings"
	"time"

	"github.com/giftshop/backend/internal/domain/cart"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Order errors
var (
	ErrOrderNotFound    = shared.NewDomainError("NOT_FOUND", "Order not found")
	ErrDuplicateCode    = shared.NewDomainError("DUPLICATE_ORDER_CODE", "Order code already exists")
	ErrEmptyOrder       = shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	ErrCustomerRequired = shared.NewDomainError("CUSTOMER_REQUIRED", "Customer name, phone and address are required")
	ErrInvalidCode      = shared.NewDomainError("INVALID_ORDER_CODE", "Order code is required")
	ErrZoneRequired     = shared.NewDomainError("ZONE_REQUIRED", "A delivery zone must be selected")
)

// PaymentMethod is how the customer settles the order outside the system
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentBkash          PaymentMethod = "bkash"
	PaymentNagad          PaymentMethod = "nagad"
	PaymentWhatsApp       PaymentMethod = "whatsapp"
)

// IsValid checks if the payment method is supported
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCashOnDelivery, PaymentBkash, PaymentNagad, PaymentWhatsApp:
		return true
	}
	return false
}

// Customer is the contact and delivery information captured at checkout
type Customer struct {
	Name    string
	Phone   string
	Address string
	Email   string
}

func (c Customer) complete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Address) != ""
}

// LineItem is a product snapshot taken when the order was placed.
// It never follows later product edits.
type LineItem struct {
	ProductID     uuid.UUID
	Name          string
	LocalizedName valueobject.LocalizedText
	UnitPrice     valueobject.Money
	Quantity      int
	Variant       map[string]string
	LineTotal     valueobject.Money
}

// Order is a placed checkout. Amounts are fixed at creation.
type Order struct {
	shared.BaseAggregateRoot
	Code                string
	Customer            Customer
	DeliveryZone        string
	PaymentMethod       PaymentMethod
	SpecialInstructions string
	PromoCode           string
	DiscountPercent     int
	Items               []LineItem
	Subtotal            valueobject.Money
	DeliveryFee         valueobject.Money
	DiscountAmount      valueobject.Money
	TotalAmount         valueobject.Money
	Status              Status
}

// Details are the non-cart checkout fields
type Details struct {
	Customer            Customer
	PaymentMethod       PaymentMethod
	SpecialInstructions string
}

// NewOrder places an order from a priced cart. The cart's lines and amounts are
// copied, so later changes to the cart or the catalog do not affect the order.
func NewOrder(code string, details Details, c *cart.Cart) (*Order, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrInvalidCode
	}
	if !details.Customer.complete() {
		return nil, ErrCustomerRequired
	}
	if !details.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyOrder
	}
	if c.DeliveryZone() == "" {
		return nil, ErrZoneRequired
	}

	lines := c.Lines()
	items := make([]LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, LineItem{
			ProductID:     l.ProductID,
			Name:          l.Name.In(valueobject.LangEnglish),
			LocalizedName: l.Name,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Variant:       l.Variant.Clone(),
			LineTotal:     l.Total(),
		})
	}

	b := c.Breakdown()
	o := &Order{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Code:                code,
		Customer:            trimCustomer(details.Customer),
		DeliveryZone:        c.DeliveryZone(),
		PaymentMethod:       details.PaymentMethod,
		SpecialInstructions: strings.TrimSpace(details.SpecialInstructions),
		PromoCode:           b.PromoCode,
		DiscountPercent:     b.PromoPercent,
		Items:               items,
		Subtotal:            b.Subtotal,
		DeliveryFee:         b.DeliveryFee,
		DiscountAmount:      b.Discount,
		TotalAmount:         b.Total,
		Status:              StatusPending,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// Recode replaces the order code before the first save, used when the
// generated code collided with an existing order.
func (o *Order) Recode(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrInvalidCode
	}
	o.Code = code
	for _, e := range o.GetDomainEvents() {
		if created, ok := e.(*OrderCreatedEvent); ok {
			created.OrderCode = code
		}
	}
	return nil
}

// TransitionTo moves the order to target. The order is left untouched on error.
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(target) {
		return transitionError(o.Status, target)
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// Cancel moves a pending or processing order to cancelled
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// ItemCount returns the total quantity across line items
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func trimCustomer(c Customer) Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		Email:   strings.TrimSpace(c.Email),
	}
}
