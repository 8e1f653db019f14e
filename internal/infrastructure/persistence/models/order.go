package models

import (
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
// Line items are embedded as a JSON document so an order is written
// with a single INSERT.
type OrderModel struct {
	AggregateModel
	OrderCode           string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_orders_order_code"`
	CustomerName        string          `gorm:"type:varchar(200);not null"`
	CustomerPhone       string          `gorm:"type:varchar(32);not null;index"`
	CustomerAddress     string          `gorm:"type:text;not null"`
	CustomerEmail       string          `gorm:"type:varchar(200)"`
	DeliveryZone        string          `gorm:"type:varchar(50);not null"`
	PaymentMethod       string          `gorm:"type:varchar(20);not null"`
	SpecialInstructions string          `gorm:"type:text"`
	PromoCode           string          `gorm:"type:varchar(32)"`
	DiscountPercent     int             `gorm:"not null;default:0"`
	Items               []LineItemJSON  `gorm:"type:jsonb;not null;serializer:json"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryFee         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency            string          `gorm:"type:varchar(3);not null;default:'BDT'"`
	Status              string          `gorm:"type:varchar(20);not null;default:'pending';index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// LineItemJSON is the stored form of an order line snapshot
type LineItemJSON struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	NameEn    string            `json:"nameEn,omitempty"`
	NameBn    string            `json:"nameBn,omitempty"`
	UnitPrice decimal.Decimal   `json:"unitPrice"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
	LineTotal decimal.Decimal   `json:"lineTotal"`
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	currency := valueobject.Currency(m.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	items := make([]order.LineItem, 0, len(m.Items))
	for _, it := range m.Items {
		productID, _ := uuid.Parse(it.ProductID)
		items = append(items, order.LineItem{
			ProductID:     productID,
			Name:          it.Name,
			LocalizedName: valueobject.NewLocalizedText(it.NameEn, it.NameBn),
			UnitPrice:     money(it.UnitPrice, currency),
			Quantity:      it.Quantity,
			Variant:       it.Variant,
			LineTotal:     money(it.LineTotal, currency),
		})
	}

	return &order.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.OrderCode,
		Customer: order.Customer{
			Name:    m.CustomerName,
			Phone:   m.CustomerPhone,
			Address: m.CustomerAddress,
			Email:   m.CustomerEmail,
		},
		DeliveryZone:        m.DeliveryZone,
		PaymentMethod:       order.PaymentMethod(m.PaymentMethod),
		SpecialInstructions: m.SpecialInstructions,
		PromoCode:           m.PromoCode,
		DiscountPercent:     m.DiscountPercent,
		Items:               items,
		Subtotal:            money(m.Subtotal, currency),
		DeliveryFee:         money(m.DeliveryFee, currency),
		DiscountAmount:      money(m.DiscountAmount, currency),
		TotalAmount:         money(m.TotalAmount, currency),
		Status:              order.Status(m.Status),
	}
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderCode = o.Code
	m.CustomerName = o.Customer.Name
	m.CustomerPhone = o.Customer.Phone
	m.CustomerAddress = o.Customer.Address
	m.CustomerEmail = o.Customer.Email
	m.DeliveryZone = o.DeliveryZone
	m.PaymentMethod = string(o.PaymentMethod)
	m.SpecialInstructions = o.SpecialInstructions
	m.PromoCode = o.PromoCode
	m.DiscountPercent = o.DiscountPercent
	m.Subtotal = o.Subtotal.Amount()
	m.DeliveryFee = o.DeliveryFee.Amount()
	m.DiscountAmount = o.DiscountAmount.Amount()
	m.TotalAmount = o.TotalAmount.Amount()
	m.Currency = string(o.TotalAmount.Currency())
	m.Status = string(o.Status)

	m.Items = make([]LineItemJSON, 0, len(o.Items))
	for _, it := range o.Items {
		m.Items = append(m.Items, LineItemJSON{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			NameEn:    it.LocalizedName.En,
			NameBn:    it.LocalizedName.Bn,
			UnitPrice: it.UnitPrice.Amount(),
			Quantity:  it.Quantity,
			Variant:   it.Variant,
			LineTotal: it.LineTotal.Amount(),
		})
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

func money(amount decimal.Decimal, currency valueobject.Currency) valueobject.Money {
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return valueobject.Taka(amount)
	}
	return m
}
