package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) ResolveImageURL(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	category, err := catalog.FindCategory("gift-boxes")
	require.NoError(t, err)
	p, err := catalog.NewProduct(valueobject.NewLocalizedText("Nakshi Gift Box", "নকশি উপহার বক্স"), 850, category)
	require.NoError(t, err)
	require.NoError(t, p.SetStock(5))
	p.ClearDomainEvents()
	return p
}

func setupProductService() (*ProductService, *MockProductRepository, *MockImageStorage, *MockEventPublisher) {
	repo := new(MockProductRepository)
	images := new(MockImageStorage)
	events := new(MockEventPublisher)
	return NewProductService(repo, images, events, zap.NewNop()), repo, images, events
}

func TestProductService_List(t *testing.T) {
	t.Run("maps query options onto the repository filter", func(t *testing.T) {
		svc, repo, images, _ := setupProductService()
		ctx := context.Background()
		p := newTestProduct(t)
		minPrice, inStock := int64(100), true

		match := mock.MatchedBy(func(f catalog.ProductFilter) bool {
			return f.CategoryID == "gift-boxes" &&
				f.Search == "nakshi box" &&
				f.Filters["min_price"] == int64(100) &&
				f.Filters["in_stock"] == true &&
				!f.IncludeInactive &&
				f.Page == 2
		})
		repo.On("FindAll", ctx, match).Return([]catalog.Product{*p}, nil)
		repo.On("Count", ctx, match).Return(int64(21), nil)
		images.On("ResolveImageURL", ctx, "").Return("", nil)

		out, total, err := svc.List(ctx, ProductListFilter{
			Category: "gift-boxes",
			Search:   "  NAKSHI Box ",
			MinPrice: &minPrice,
			InStock:  &inStock,
			Page:     2,
		}, valueobject.LangBengali)

		require.NoError(t, err)
		assert.Equal(t, int64(21), total)
		require.Len(t, out, 1)
		assert.Equal(t, "নকশি উপহার বক্স", out[0].Name)
		assert.Equal(t, "Nakshi Gift Box", out[0].NameEn)
		assert.Equal(t, "উপহার বক্স", out[0].CategoryName)
		assert.True(t, out[0].InStock)
		repo.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, repo, _, _ := setupProductService()
		ctx := context.Background()
		repo.On("FindAll", ctx, mock.Anything).Return([]catalog.Product(nil), errors.New("db down"))

		_, _, err := svc.List(ctx, ProductListFilter{}, valueobject.LangEnglish)
		assert.ErrorContains(t, err, "db down")
	})
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("active product", func(t *testing.T) {
		svc, repo, images, _ := setupProductService()
		p := newTestProduct(t)
		p.SetImage("products/x/a.jpg")
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		images.On("ResolveImageURL", ctx, "products/x/a.jpg").Return("https://cdn.example.com/products/x/a.jpg", nil)

		resp, err := svc.Get(ctx, p.ID, valueobject.LangEnglish)
		require.NoError(t, err)
		assert.Equal(t, "Nakshi Gift Box", resp.Name)
		assert.Equal(t, "https://cdn.example.com/products/x/a.jpg", resp.Image)
	})

	t.Run("inactive product is hidden", func(t *testing.T) {
		svc, repo, _, _ := setupProductService()
		p := newTestProduct(t)
		require.NoError(t, p.Deactivate())
		repo.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.Get(ctx, p.ID, valueobject.LangEnglish)
		assert.True(t, IsNotFound(err))
	})

	t.Run("unresolvable image is blanked", func(t *testing.T) {
		svc, repo, images, _ := setupProductService()
		p := newTestProduct(t)
		p.SetImage("products/x/b.jpg")
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		images.On("ResolveImageURL", ctx, "products/x/b.jpg").Return("", errors.New("presign failed"))

		resp, err := svc.Get(ctx, p.ID, valueobject.LangEnglish)
		require.NoError(t, err)
		assert.Empty(t, resp.Image)
	})
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("saves and publishes", func(t *testing.T) {
		svc, repo, images, events := setupProductService()
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(evts []shared.DomainEvent) bool {
			return len(evts) == 1 && evts[0].EventType() == catalog.EventTypeProductCreated
		})).Return(nil)
		images.On("ResolveImageURL", ctx, "https://img.example.com/box.jpg").Return("https://img.example.com/box.jpg", nil)

		resp, err := svc.Create(ctx, CreateProductRequest{
			NameEn:   "Brass Lamp",
			Price:    1200,
			Category: "home-decor",
			Image:    "https://img.example.com/box.jpg",
			Stock:    3,
			Tags:     []string{"eid", "eid"},
		}, valueobject.LangEnglish)

		require.NoError(t, err)
		assert.Equal(t, "Brass Lamp", resp.Name)
		assert.Equal(t, "home-decor", resp.Category)
		assert.Equal(t, []string{"eid"}, resp.Tags)
		assert.True(t, resp.Active)
		events.AssertExpectations(t)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, repo, _, _ := setupProductService()
		_, err := svc.Create(ctx, CreateProductRequest{NameEn: "X", Price: 10, Category: "cars"}, valueobject.LangEnglish)
		assert.ErrorIs(t, err, catalog.ErrUnknownCategory)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("image key must be uploaded first", func(t *testing.T) {
		svc, repo, images, _ := setupProductService()
		images.On("ObjectExists", ctx, "products/abc/missing.png").Return(false, nil)

		_, err := svc.Create(ctx, CreateProductRequest{
			NameEn: "X", Price: 10, Category: "jewelry", Image: "products/abc/missing.png",
		}, valueobject.LangEnglish)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has("image"))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo, images, events := setupProductService()
	p := newTestProduct(t)
	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil)
	events.On("Publish", ctx, mock.Anything).Return(nil)
	images.On("ResolveImageURL", ctx, "").Return("", nil)

	price, nameBn, active := int64(990), "নতুন নাম", false
	resp, err := svc.Update(ctx, p.ID, UpdateProductRequest{
		Price:  &price,
		NameBn: &nameBn,
		Active: &active,
	}, valueobject.LangBengali)

	require.NoError(t, err)
	assert.Equal(t, int64(990), resp.Price)
	assert.Equal(t, "নতুন নাম", resp.Name)
	assert.Equal(t, "Nakshi Gift Box", resp.NameEn)
	assert.False(t, resp.Active)
	assert.Empty(t, p.GetDomainEvents())
}

func TestProductService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes status change", func(t *testing.T) {
		svc, repo, _, events := setupProductService()
		p := newTestProduct(t)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		repo.On("Save", ctx, p).Return(nil)
		events.On("Publish", ctx, mock.Anything).Return(errors.New("bus stopped"))

		require.NoError(t, svc.Deactivate(ctx, p.ID))
		assert.False(t, p.Active)
	})

	t.Run("missing product", func(t *testing.T) {
		svc, repo, _, _ := setupProductService()
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, catalog.ErrProductNotFound)

		assert.True(t, IsNotFound(svc.Deactivate(ctx, id)))
	})
}

func TestProductService_ImageUploadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns a product scoped key", func(t *testing.T) {
		svc, repo, images, _ := setupProductService()
		p := newTestProduct(t)
		expires := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		images.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/png", imageUploadExpiry).
			Return("https://s3.example.com/upload?sig=1", expires, nil)

		resp, err := svc.ImageUploadURL(ctx, p.ID, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "https://s3.example.com/upload?sig=1", resp.UploadURL)
		assert.Regexp(t, `^products/`+p.ID.String()+`/[0-9a-f-]{36}\.png$`, resp.Key)
		assert.Equal(t, expires, resp.ExpiresAt)
	})

	t.Run("rejects svg", func(t *testing.T) {
		svc, _, images, _ := setupProductService()
		_, err := svc.ImageUploadURL(ctx, uuid.New(), "image/svg+xml")
		assert.ErrorIs(t, err, ErrUnsupportedImageType)
		images.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCategoryService_List(t *testing.T) {
	out := NewCategoryService().List(valueobject.LangBengali)
	require.NotEmpty(t, out)
	assert.Equal(t, "gift-boxes", out[0].ID)
	assert.Equal(t, "উপহার বক্স", out[0].Name)
	assert.Equal(t, "Gift Boxes", out[0].NameEn)
}
