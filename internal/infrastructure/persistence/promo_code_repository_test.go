package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPromoCodeRepository(t *testing.T) {
	repo := NewGormPromoCodeRepository(newSQLiteDatabase(t).DB)
	ctx := context.Background()

	expires := time.Date(2026, 4, 30, 18, 0, 0, 0, time.UTC)
	promo, err := promotion.NewPromoCode("save10", 10, 500, &expires)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, promo))

	t.Run("finds by code regardless of case", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "  Save10 ")
		require.NoError(t, err)
		assert.Equal(t, promo.ID, found.ID)
		assert.Equal(t, "SAVE10", found.Code)
		assert.Equal(t, 10, found.DiscountPercent)
		assert.Equal(t, int64(500), found.MinOrder)
		require.NotNil(t, found.ExpiresAt)
		assert.True(t, expires.Equal(*found.ExpiresAt))
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, promotion.ErrPromoNotFound)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("inactive code is still returned", func(t *testing.T) {
		promo.Deactivate()
		require.NoError(t, repo.Save(ctx, promo))

		found, err := repo.FindByCode(ctx, "SAVE10")
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("exists by code", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "save10")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "EID25")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
