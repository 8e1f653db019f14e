package handler

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	cartapp "github.com/giftshop/backend/internal/application/cart"
	orderapp "github.com/giftshop/backend/internal/application/order"
	promoapp "github.com/giftshop/backend/internal/application/promotion"
	"github.com/giftshop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderCodePattern = regexp.MustCompile(`^TXR-\d{8}-\d{3}$`)

func taka(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestCartHandler_Quote(t *testing.T) {
	s := newStorefront(t)
	items := []map[string]any{{"productId": s.hamper.ID.String(), "quantity": 2}}

	tests := []struct {
		name         string
		promo        string
		wantDiscount int64
		wantTotal    int64
		wantPromoErr string
	}{
		{"no promo", "", 0, 1160, ""},
		{"promo applied", "save10", 110, 1050, ""},
		{"expired promo is reported", "GONE", 0, 1160, "PROMO_EXPIRED"},
		{"unknown promo is reported", "NOPE", 0, 1160, "PROMO_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/cart/quote", map[string]any{
				"items":            items,
				"deliveryLocation": "inside_dhaka",
				"promoCode":        tt.promo,
			})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var quote cartapp.QuoteResponse
			decode(t, w, &quote)
			assert.True(t, taka(1100).Equal(quote.Subtotal))
			assert.True(t, taka(60).Equal(quote.DeliveryFee))
			assert.True(t, taka(tt.wantDiscount).Equal(quote.DiscountAmount), quote.DiscountAmount.String())
			assert.True(t, taka(tt.wantTotal).Equal(quote.TotalAmount), quote.TotalAmount.String())
			assert.Equal(t, tt.wantPromoErr, quote.PromoError)
			assert.Equal(t, 2, quote.ItemCount)
		})
	}

	t.Run("unknown zone and empty cart", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/cart/quote", map[string]any{"deliveryLocation": "mars"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		fields := map[string]string{}
		for _, d := range env.Error.Details {
			fields[d.Field] = d.Code
		}
		assert.Contains(t, fields, "items")
		assert.Equal(t, dto.ErrCodeInvalidInput, fields["deliveryLocation"])
	})
}

func TestPromoHandler(t *testing.T) {
	s := newStorefront(t)

	t.Run("get is case-insensitive", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/promo-codes/save10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var promo promoapp.PromoCodeResponse
		decode(t, w, &promo)
		assert.Equal(t, "SAVE10", promo.Code)
		assert.Equal(t, 10, promo.DiscountPercent)
	})

	t.Run("expired code is not found", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/promo-codes/GONE", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	validations := []struct {
		name     string
		code     string
		subtotal string
		wantCode int
		wantErr  string
	}{
		{"accepted", "SAVE10", "1100", http.StatusOK, ""},
		{"below minimum", "SAVE10", "400", http.StatusUnprocessableEntity, dto.ErrCodePromoBelowMinimum},
		{"expired", "GONE", "1100", http.StatusUnprocessableEntity, dto.ErrCodePromoExpired},
		{"unknown", "NOPE", "1100", http.StatusNotFound, dto.ErrCodeNotFound},
		{"negative subtotal", "SAVE10", "-5", http.StatusBadRequest, dto.ErrCodeValidation},
	}
	for _, tt := range validations {
		t.Run("validate "+tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/promo-codes/"+tt.code+"/validate",
				`{"subtotal": `+tt.subtotal+`}`)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			if tt.wantErr != "" {
				env := decode(t, w, nil)
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantErr, env.Error.Code)
				return
			}
			var check promoapp.PromoCheckResponse
			decode(t, w, &check)
			assert.Equal(t, 10, check.DiscountPercent)
			assert.True(t, taka(110).Equal(check.DiscountAmount))
		})
	}

	t.Run("create then duplicate", func(t *testing.T) {
		body := map[string]any{"code": "eid25", "discountPercent": 25, "minOrder": 2000}
		w := s.do(t, http.MethodPost, "/api/promo-codes", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var promo promoapp.PromoCodeResponse
		decode(t, w, &promo)
		assert.Equal(t, "EID25", promo.Code)
		assert.True(t, promo.Active)

		w = s.do(t, http.MethodPost, "/api/promo-codes", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("create rejects out of range percent", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/promo-codes", map[string]any{"code": "HUGE", "discountPercent": 150})
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "discountPercent", env.Error.Details[0].Field)
	})
}

func TestOrderHandler_Create(t *testing.T) {
	s := newStorefront(t)

	t.Run("places a pending order priced from the catalog", func(t *testing.T) {
		body := checkoutBody(s.hamper.ID, 2)
		body["totalAmount"] = "1"
		w := s.do(t, http.MethodPost, "/api/orders", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Empty(t, w.Header().Get(IdempotentReplayedHeader))

		var out orderapp.OrderResponse
		decode(t, w, &out)
		assert.Regexp(t, orderCodePattern, out.OrderID)
		assert.Equal(t, "pending", out.Status)
		assert.True(t, taka(1100).Equal(out.Subtotal))
		assert.True(t, taka(1160).Equal(out.TotalAmount))
		require.Len(t, out.Items, 1)
		assert.Equal(t, 2, out.Items[0].Quantity)
	})

	t.Run("second order gets the next code", func(t *testing.T) {
		first := s.placeOrder(t)
		second := s.placeOrder(t)
		assert.NotEqual(t, first.OrderID, second.OrderID)
		assert.Equal(t, first.OrderID[:13], second.OrderID[:13])
	})

	t.Run("promo discount at checkout", func(t *testing.T) {
		body := checkoutBody(s.hamper.ID, 2)
		body["promoCode"] = "SAVE10"
		w := s.do(t, http.MethodPost, "/api/orders", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var out orderapp.OrderResponse
		decode(t, w, &out)
		assert.Equal(t, "SAVE10", out.PromoCode)
		assert.True(t, taka(110).Equal(out.DiscountAmount))
		assert.True(t, taka(1050).Equal(out.TotalAmount), out.TotalAmount.String())
	})
}

func TestOrderHandler_CreateRejections(t *testing.T) {
	s := newStorefront(t)

	countOrders := func(t *testing.T) int64 {
		w := s.do(t, http.MethodGet, "/api/orders", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w, nil)
		require.NotNil(t, env.Meta)
		return env.Meta.Total
	}

	t.Run("empty phone names the field and stores nothing", func(t *testing.T) {
		body := checkoutBody(s.hamper.ID, 1)
		body["customerPhone"] = "  "
		w := s.do(t, http.MethodPost, "/api/orders", body)
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "customerPhone", env.Error.Details[0].Field)
		assert.Equal(t, int64(0), countOrders(t))
	})

	t.Run("rejected promo is a field error", func(t *testing.T) {
		body := checkoutBody(s.hamper.ID, 1)
		body["promoCode"] = "GONE"
		w := s.do(t, http.MethodPost, "/api/orders", body)
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "promoCode", env.Error.Details[0].Field)
		assert.Equal(t, dto.ErrCodePromoExpired, env.Error.Details[0].Code)
		assert.Equal(t, int64(0), countOrders(t))
	})

	t.Run("unknown promo is a field error", func(t *testing.T) {
		body := checkoutBody(s.hamper.ID, 1)
		body["promoCode"] = "NOPE"
		w := s.do(t, http.MethodPost, "/api/orders", body)
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "promoCode", env.Error.Details[0].Field)
		assert.Equal(t, dto.ErrCodeNotFound, env.Error.Details[0].Code)
		assert.Equal(t, int64(0), countOrders(t))
	})

	t.Run("inactive product", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/orders", checkoutBody(s.retired.ID, 1))
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "items[0].productId", env.Error.Details[0].Field)
	})

	t.Run("oversized idempotency key", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/orders", checkoutBody(s.hamper.ID, 1),
			IdempotencyKeyHeader, strings.Repeat("k", 200))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_IdempotentReplay(t *testing.T) {
	s := newStorefront(t)
	body := checkoutBody(s.hamper.ID, 1)

	first := s.do(t, http.MethodPost, "/api/orders", body, IdempotencyKeyHeader, "checkout-7f3a")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	var created orderapp.OrderResponse
	decode(t, first, &created)

	again := s.do(t, http.MethodPost, "/api/orders", body, IdempotencyKeyHeader, "checkout-7f3a")
	require.Equal(t, http.StatusOK, again.Code, again.Body.String())
	assert.Equal(t, "true", again.Header().Get(IdempotentReplayedHeader))
	var replayed orderapp.OrderResponse
	decode(t, again, &replayed)
	assert.Equal(t, created.OrderID, replayed.OrderID)

	other := s.do(t, http.MethodPost, "/api/orders", body, IdempotencyKeyHeader, "checkout-9b21")
	require.Equal(t, http.StatusCreated, other.Code)
	var fresh orderapp.OrderResponse
	decode(t, other, &fresh)
	assert.NotEqual(t, created.OrderID, fresh.OrderID)
}

func TestOrderHandler_GetAndTrack(t *testing.T) {
	s := newStorefront(t)
	placed := s.placeOrder(t)

	for _, path := range []string{
		"/api/orders/" + placed.OrderID,
		"/api/orders/track/" + placed.OrderID,
		"/api/orders/track/" + strings.ToLower(placed.OrderID),
	} {
		t.Run(path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var out orderapp.OrderResponse
			decode(t, w, &out)
			assert.Equal(t, placed.OrderID, out.OrderID)
			assert.Equal(t, "pending", out.Status)
			assert.True(t, placed.TotalAmount.Equal(out.TotalAmount))
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/orders/track/TXR-20200101-999", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrCodeNotFound, env.Error.Code)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	s := newStorefront(t)
	placed := s.placeOrder(t)
	path := "/api/orders/" + placed.OrderID + "/status"

	step := func(t *testing.T, status string, wantCode int) envelope {
		t.Helper()
		w := s.do(t, http.MethodPut, path, map[string]any{"status": status})
		require.Equal(t, wantCode, w.Code, w.Body.String())
		return decode(t, w, nil)
	}

	env := step(t, "cancelled", http.StatusBadRequest)
	assert.Equal(t, dto.ErrCodeInvalidStatus, env.Error.Code)

	env = step(t, "shipped", http.StatusUnprocessableEntity)
	assert.Equal(t, dto.ErrCodeInvalidStatusTransition, env.Error.Code)

	step(t, "processing", http.StatusOK)
	step(t, "shipped", http.StatusOK)

	env = step(t, "lost", http.StatusBadRequest)
	assert.Equal(t, dto.ErrCodeInvalidStatus, env.Error.Code)

	env = step(t, "", http.StatusBadRequest)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	w := s.do(t, http.MethodGet, "/api/orders/track/"+placed.OrderID, nil)
	var tracked orderapp.OrderResponse
	decode(t, w, &tracked)
	assert.Equal(t, "shipped", tracked.Status)

	w = s.do(t, http.MethodPut, "/api/orders/TXR-20200101-999/status", map[string]any{"status": "processing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_Cancel(t *testing.T) {
	s := newStorefront(t)

	t.Run("pending order", func(t *testing.T) {
		placed := s.placeOrder(t)
		w := s.do(t, http.MethodPost, "/api/orders/"+placed.OrderID+"/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out orderapp.OrderResponse
		decode(t, w, &out)
		assert.Equal(t, "cancelled", out.Status)

		w = s.do(t, http.MethodPut, "/api/orders/"+placed.OrderID+"/status", map[string]any{"status": "processing"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("shipped order", func(t *testing.T) {
		placed := s.placeOrder(t)
		path := "/api/orders/" + placed.OrderID
		for _, status := range []string{"processing", "shipped"} {
			w := s.do(t, http.MethodPut, path+"/status", map[string]any{"status": status})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}

		w := s.do(t, http.MethodPost, path+"/cancel", nil)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, dto.ErrCodeInvalidStatusTransition, env.Error.Code)

		w = s.do(t, http.MethodGet, "/api/orders/track/"+placed.OrderID, nil)
		var tracked orderapp.OrderResponse
		decode(t, w, &tracked)
		assert.Equal(t, "shipped", tracked.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/orders/TXR-20200101-999/cancel", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_List(t *testing.T) {
	s := newStorefront(t)
	first := s.placeOrder(t)
	s.placeOrder(t)

	w := s.do(t, http.MethodPost, "/api/orders/"+first.OrderID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/orders?status=cancelled", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []orderapp.OrderResponse
	env := decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, first.OrderID, orders[0].OrderID)
	assert.Equal(t, int64(1), env.Meta.Total)

	w = s.do(t, http.MethodGet, "/api/orders?status=misplaced", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	s := newStorefront(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	decode(t, w, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.GreaterOrEqual(t, health.OpenConnections, health.InUse)

	require.NoError(t, s.db.Close())
	w = s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decode(t, w, &health)
	assert.False(t, env.Success)
	assert.Equal(t, "unreachable", health.Database)
}
