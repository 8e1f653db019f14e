package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cartapp "github.com/giftshop/backend/internal/application/cart"
	catalogapp "github.com/giftshop/backend/internal/application/catalog"
	orderapp "github.com/giftshop/backend/internal/application/order"
	promoapp "github.com/giftshop/backend/internal/application/promotion"
	"github.com/giftshop/backend/internal/domain/cart"
	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/promotion"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/giftshop/backend/internal/infrastructure/cache"
	"github.com/giftshop/backend/internal/infrastructure/persistence"
	"github.com/giftshop/backend/internal/infrastructure/storage"
	"github.com/giftshop/backend/internal/interfaces/http/dto"
	"github.com/giftshop/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// storefront is a gin engine wired to real services over in-memory SQLite
type storefront struct {
	engine   *gin.Engine
	db       *persistence.Database
	products *persistence.GormProductRepository
	promos   *persistence.GormPromoCodeRepository
	hamper   *catalog.Product
	retired  *catalog.Product
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()

	db, err := persistence.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		persistence.WithoutPreparedStatements())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	s := &storefront{
		db:       db,
		products: persistence.NewGormProductRepository(db.DB),
		promos:   persistence.NewGormPromoCodeRepository(db.DB),
	}
	ctx := context.Background()

	s.hamper = newProduct(t, "Eid Gift Hamper", "ঈদ উপহার হ্যাম্পার", 550, "gift-boxes")
	require.NoError(t, s.hamper.SetStock(10))
	s.hamper.SetFeatured(true)
	require.NoError(t, s.products.Save(ctx, s.hamper))

	s.retired = newProduct(t, "Old Candle", "পুরনো মোমবাতি", 200, "gift-boxes")
	require.NoError(t, s.retired.Deactivate())
	require.NoError(t, s.products.Save(ctx, s.retired))

	save10, err := promotion.NewPromoCode("SAVE10", 10, 500, nil)
	require.NoError(t, err)
	require.NoError(t, s.promos.Save(ctx, save10))
	past := time.Now().Add(-24 * time.Hour)
	gone, err := promotion.NewPromoCode("GONE", 20, 0, &past)
	require.NoError(t, err)
	require.NoError(t, s.promos.Save(ctx, gone))

	zones, err := cart.NewDeliveryZones(
		cart.DeliveryZone{ID: "inside_dhaka", Name: valueobject.NewLocalizedText("Inside Dhaka", "ঢাকার ভিতরে"), Fee: 60},
		cart.DeliveryZone{ID: "outside_dhaka", Name: valueobject.NewLocalizedText("Outside Dhaka", "ঢাকার বাইরে"), Fee: 120},
	)
	require.NoError(t, err)

	promoService := promoapp.NewService(s.promos)
	pricer := cartapp.NewPricer(s.products, zones, nil)
	quotes := cartapp.NewQuoteService(pricer, promoService)
	orderService := orderapp.NewService(
		persistence.NewGormOrderRepository(db.DB),
		pricer,
		promoService,
		order.NewCodeGenerator("TXR", time.UTC),
		orderapp.WithIdempotencyStore(cache.NewInMemoryIdempotencyStore(), time.Hour),
	)
	productService := catalogapp.NewProductService(s.products, storage.NewPublicImageStorage("https://cdn.example.com"), nil, nil)

	products := NewProductHandler(productService)
	reference := NewReferenceHandler(catalogapp.NewCategoryService(), quotes)
	promos := NewPromoHandler(promoService)
	carts := NewCartHandler(quotes)
	orders := NewOrderHandler(orderService)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Locale())
	engine.GET("/health", NewHealthHandler(db, "test").Health)
	api := engine.Group("/api")
	api.GET("/products", products.List)
	api.POST("/products", products.Create)
	api.GET("/products/:id", products.Get)
	api.PUT("/products/:id", products.Update)
	api.DELETE("/products/:id", products.Deactivate)
	api.POST("/products/:id/image-upload-url", products.ImageUploadURL)
	api.GET("/categories", reference.ListCategories)
	api.GET("/delivery-zones", reference.ListDeliveryZones)
	api.POST("/promo-codes", promos.Create)
	api.GET("/promo-codes/:code", promos.Get)
	api.POST("/promo-codes/:code/validate", promos.Validate)
	api.POST("/cart/quote", carts.Quote)
	api.POST("/orders", orders.Create)
	api.GET("/orders", orders.List)
	api.GET("/orders/track/:orderId", orders.Track)
	api.GET("/orders/:orderId", orders.Get)
	api.PUT("/orders/:orderId/status", orders.UpdateStatus)
	api.POST("/orders/:orderId/cancel", orders.Cancel)
	s.engine = engine

	return s
}

func newProduct(t *testing.T, en, bn string, price int64, categoryID string) *catalog.Product {
	t.Helper()
	category, err := catalog.FindCategory(categoryID)
	require.NoError(t, err)
	p, err := catalog.NewProduct(valueobject.NewLocalizedText(en, bn), price, category)
	require.NoError(t, err)
	return p
}

// do sends body (marshalled unless it is a string) and returns the recorder
func (s *storefront) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// envelope decodes a response with its data kept raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func checkoutBody(productID uuid.UUID, quantity int) map[string]any {
	return map[string]any{
		"customerName":     "Rahim Uddin",
		"customerPhone":    "01711000000",
		"customerAddress":  "House 12, Road 5, Dhanmondi",
		"deliveryLocation": "inside_dhaka",
		"paymentMethod":    "cod",
		"items": []map[string]any{
			{"productId": productID.String(), "quantity": quantity},
		},
	}
}

func (s *storefront) placeOrder(t *testing.T) orderapp.OrderResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/orders", checkoutBody(s.hamper.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out orderapp.OrderResponse
	decode(t, w, &out)
	return out
}
