package order

import (
	"time"

	cartapp "github.com/giftshop/backend/internal/application/cart"
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is a checkout submission. The amount fields are what the
// client displayed; they are compared with the server totals and never stored.
type CreateOrderRequest struct {
	CustomerName        string              `json:"customerName"`
	CustomerPhone       string              `json:"customerPhone"`
	CustomerAddress     string              `json:"customerAddress"`
	CustomerEmail       string              `json:"customerEmail"`
	DeliveryLocation    string              `json:"deliveryLocation"`
	PaymentMethod       string              `json:"paymentMethod"`
	SpecialInstructions string              `json:"specialInstructions"`
	PromoCode           string              `json:"promoCode"`
	Items               []cartapp.LineInput `json:"items"`

	Subtotal       *decimal.Decimal `json:"subtotal,omitempty" swaggertype:"string"`
	DeliveryFee    *decimal.Decimal `json:"deliveryFee,omitempty" swaggertype:"string"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty" swaggertype:"string"`
	TotalAmount    *decimal.Decimal `json:"totalAmount,omitempty" swaggertype:"string"`
	FinalAmount    *decimal.Decimal `json:"finalAmount,omitempty" swaggertype:"string"`
}

// UpdateStatusRequest changes an order's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrdersFilter represents filter options for the staff order list
type ListOrdersFilter struct {
	Status           string     `form:"status"`
	Search           string     `form:"search" binding:"max=100"`
	DeliveryLocation string     `form:"delivery_location"`
	PaymentMethod    string     `form:"payment_method"`
	CreatedFrom      *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo        *time.Time `form:"created_to" time_format:"2006-01-02"`
	Page             int        `form:"page" binding:"omitempty,min=1"`
	PageSize         int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy          string     `form:"order_by"`
	OrderDir         string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineItemResponse is a snapshotted order line
type LineItemResponse struct {
	ProductID uuid.UUID         `json:"productId"`
	Name      string            `json:"name"`
	NameEn    string            `json:"nameEn"`
	NameBn    string            `json:"nameBn"`
	Price     decimal.Decimal   `json:"price"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
	LineTotal decimal.Decimal   `json:"lineTotal"`
}

// OrderResponse represents an order in API responses. OrderID is the public
// order code; the internal id is never exposed.
type OrderResponse struct {
	OrderID             string             `json:"orderId"`
	CustomerName        string             `json:"customerName"`
	CustomerPhone       string             `json:"customerPhone"`
	CustomerAddress     string             `json:"customerAddress"`
	CustomerEmail       string             `json:"customerEmail,omitempty"`
	DeliveryLocation    string             `json:"deliveryLocation"`
	PaymentMethod       string             `json:"paymentMethod"`
	SpecialInstructions string             `json:"specialInstructions,omitempty"`
	PromoCode           string             `json:"promoCode,omitempty"`
	DiscountPercent     int                `json:"discountPercent"`
	Items               []LineItemResponse `json:"items"`
	Subtotal            decimal.Decimal    `json:"subtotal"`
	DeliveryFee         decimal.Decimal    `json:"deliveryFee"`
	DiscountAmount      decimal.Decimal    `json:"discountAmount"`
	TotalAmount         decimal.Decimal    `json:"totalAmount"`
	FinalAmount         decimal.Decimal    `json:"finalAmount"`
	Currency            string             `json:"currency"`
	Status              string             `json:"status"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
	WhatsAppURL         string             `json:"whatsappUrl,omitempty"`
}

// ToOrderResponse converts a domain Order
func ToOrderResponse(o *order.Order, lang string) OrderResponse {
	items := make([]LineItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := item.LocalizedName.In(lang)
		if name == "" {
			name = item.Name
		}
		items = append(items, LineItemResponse{
			ProductID: item.ProductID,
			Name:      name,
			NameEn:    item.LocalizedName.En,
			NameBn:    item.LocalizedName.Bn,
			Price:     item.UnitPrice.Amount(),
			Quantity:  item.Quantity,
			Variant:   item.Variant,
			LineTotal: item.LineTotal.Amount(),
		})
	}

	return OrderResponse{
		OrderID:             o.Code,
		CustomerName:        o.Customer.Name,
		CustomerPhone:       o.Customer.Phone,
		CustomerAddress:     o.Customer.Address,
		CustomerEmail:       o.Customer.Email,
		DeliveryLocation:    o.DeliveryZone,
		PaymentMethod:       string(o.PaymentMethod),
		SpecialInstructions: o.SpecialInstructions,
		PromoCode:           o.PromoCode,
		DiscountPercent:     o.DiscountPercent,
		Items:               items,
		Subtotal:            o.Subtotal.Amount(),
		DeliveryFee:         o.DeliveryFee.Amount(),
		DiscountAmount:      o.DiscountAmount.Amount(),
		TotalAmount:         o.TotalAmount.Amount(),
		FinalAmount:         o.TotalAmount.Amount(),
		Currency:            string(valueobject.DefaultCurrency),
		Status:              o.Status.String(),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}
