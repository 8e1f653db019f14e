package catalog

import (
	"testing"

	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCategory(t *testing.T, id string) Category {
	t.Helper()
	c, err := FindCategory(id)
	require.NoError(t, err)
	return c
}

func TestNewProduct(t *testing.T) {
	name := valueobject.NewLocalizedText("Clay Tea Mug", "মাটির চায়ের মগ")

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(name, 550, mustCategory(t, "handicrafts"))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "Clay Tea Mug", product.Name.En)
		assert.Equal(t, int64(550), product.Price)
		assert.Equal(t, "handicrafts", product.CategoryID)
		assert.Equal(t, "হস্তশিল্প", product.CategoryName.Bn)
		assert.True(t, product.Active)
		assert.False(t, product.Featured)
		assert.Empty(t, product.Tags)
		assert.NotNil(t, product.Variants)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct(name, 550, mustCategory(t, "handicrafts"))
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())

		event, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, product.ID, event.ProductID)
		assert.Equal(t, int64(550), event.Price)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(valueobject.LocalizedText{}, 100, mustCategory(t, "jewelry"))
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("accepts a Bengali-only name", func(t *testing.T) {
		product, err := NewProduct(valueobject.NewLocalizedText("", "নকশি কাঁথা"), 1200, mustCategory(t, "handicrafts"))
		require.NoError(t, err)
		assert.Equal(t, "নকশি কাঁথা", product.Name.In(valueobject.LangEnglish))
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct(name, -1, mustCategory(t, "jewelry"))
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestProduct_Setters(t *testing.T) {
	product, err := NewProduct(valueobject.NewLocalizedText("Candle", "মোমবাতি"), 300, mustCategory(t, "home-decor"))
	require.NoError(t, err)

	t.Run("stock must be non-negative", func(t *testing.T) {
		assert.ErrorIs(t, product.SetStock(-5), ErrInvalidStock)
		require.NoError(t, product.SetStock(12))
		assert.Equal(t, 12, product.Stock)
	})

	t.Run("price must be non-negative", func(t *testing.T) {
		assert.ErrorIs(t, product.SetPrice(-10), ErrInvalidPrice)
		require.NoError(t, product.SetPrice(0))
		assert.True(t, product.PriceMoney().IsZero())
	})

	t.Run("tags are normalized", func(t *testing.T) {
		product.SetTags([]string{" Eid ", "eid", "", "Gift"})
		assert.Equal(t, []string{"eid", "gift"}, product.Tags)
	})

	t.Run("nil variants become empty", func(t *testing.T) {
		product.SetVariants(nil)
		assert.NotNil(t, product.Variants)
		product.SetVariants(map[string]any{"color": []any{"red", "blue"}})
		assert.Len(t, product.Variants, 1)
	})

	t.Run("category move copies names", func(t *testing.T) {
		product.SetCategory(mustCategory(t, "gift-boxes"))
		assert.Equal(t, "gift-boxes", product.CategoryID)
		assert.Equal(t, "Gift Boxes", product.CategoryName.En)
	})

	t.Run("setters bump version", func(t *testing.T) {
		before := product.GetVersion()
		product.SetFeatured(true)
		assert.Equal(t, before+1, product.GetVersion())
		assert.True(t, product.Featured)
	})
}

func TestProduct_ActivateDeactivate(t *testing.T) {
	product, err := NewProduct(valueobject.NewLocalizedText("Bangle", "চুড়ি"), 350, mustCategory(t, "jewelry"))
	require.NoError(t, err)
	product.ClearDomainEvents()

	require.NoError(t, product.Deactivate())
	assert.False(t, product.IsAvailable())

	err = product.Deactivate()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_INACTIVE", domainErr.Code)

	require.NoError(t, product.Activate())
	assert.True(t, product.IsAvailable())
	assert.Error(t, product.Activate())

	events := product.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeProductStatusChanged, events[0].EventType())
	assert.False(t, events[0].(*ProductStatusChangedEvent).Active)
	assert.True(t, events[1].(*ProductStatusChangedEvent).Active)
}
