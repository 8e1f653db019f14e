package persistence

import (
	"testing"

	"github.com/giftshop/backend/internal/domain/cart"
	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, en, bn string, price int64, categoryID string) *catalog.Product {
	t.Helper()
	category, err := catalog.FindCategory(categoryID)
	require.NoError(t, err)
	p, err := catalog.NewProduct(valueobject.NewLocalizedText(en, bn), price, category)
	require.NoError(t, err)
	require.NoError(t, p.SetStock(10))
	return p
}

func newTestOrder(t *testing.T, code string) *order.Order {
	t.Helper()
	zones, err := cart.NewDeliveryZones(cart.DeliveryZone{ID: "inside_dhaka", Fee: 60})
	require.NoError(t, err)

	c := cart.New(zones)
	require.NoError(t, c.AddItem(cart.Line{
		ProductID: uuid.New(),
		Name:      valueobject.NewLocalizedText("Clay Mug", "মাটির মগ"),
		UnitPrice: valueobject.TakaFromInt(550),
		Quantity:  2,
		Variant:   cart.Variant{"color": "red"},
	}))
	require.NoError(t, c.SetDeliveryZone("inside_dhaka"))

	o, err := order.NewOrder(code, order.Details{
		Customer: order.Customer{
			Name:    "Rahim Uddin",
			Phone:   "01711000000",
			Address: "House 12, Road 5, Dhanmondi",
		},
		PaymentMethod: order.PaymentCashOnDelivery,
	}, c)
	require.NoError(t, err)
	return o
}
