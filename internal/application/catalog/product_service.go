// Package catalog serves the storefront product listing and the staff
// product maintenance operations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/giftshop/backend/internal/infrastructure/locale"
	"github.com/giftshop/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageStorage issues URLs for product images kept in object storage
type ImageStorage interface {
	// GenerateUploadURL presigns an upload of key with the given content type
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// ResolveImageURL turns a stored image reference (URL or key) into a loadable URL
	ResolveImageURL(ctx context.Context, ref string) (string, error)

	// ObjectExists reports whether key has been uploaded
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// AllowedImageTypes maps accepted upload content types to the stored file extension.
// SVG is excluded because it can carry script.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ErrUnsupportedImageType is returned for an upload content type outside AllowedImageTypes
var ErrUnsupportedImageType = shared.NewDomainError("UNSUPPORTED_IMAGE_TYPE", "Only JPEG, PNG, WebP and GIF images are accepted")

const imageUploadExpiry = 15 * time.Minute

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	images      ImageStorage
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(
	productRepo catalog.ProductRepository,
	images ImageStorage,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		images:      images,
		events:      events,
		logger:      logger,
	}
}

// List returns active products matching the filter, featured first by default
func (s *ProductService) List(ctx context.Context, filter ProductListFilter, lang string) ([]ProductResponse, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_products",
		telemetry.SpanAttrCategoryID, filter.Category)
	defer span.End()

	domainFilter := catalog.DefaultProductFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	domainFilter.Search = locale.FoldSearch(filter.Search)
	domainFilter.CategoryID = strings.TrimSpace(filter.Category)
	domainFilter.Featured = filter.Featured
	domainFilter.IncludeInactive = filter.IncludeInactive
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = *filter.MaxPrice
	}
	if filter.InStock != nil && *filter.InStock {
		domainFilter.Filters["in_stock"] = true
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, s.toResponse(ctx, &products[i], lang))
	}
	return out, total, nil
}

// Get returns an active product. Inactive products are reported as not found.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID, lang string) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_product",
		telemetry.SpanAttrProductID, id.String())
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable() {
		return nil, catalog.ErrProductNotFound
	}

	resp := s.toResponse(ctx, product, lang)
	return &resp, nil
}

// Create creates a new active product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, lang string) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "create_product",
		telemetry.SpanAttrCategoryID, req.Category)
	defer span.End()

	category, err := catalog.FindCategory(req.Category)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(localized(locale.Normalize(req.NameEn), locale.Normalize(req.NameBn)), req.Price, category)
	if err != nil {
		return nil, err
	}
	description := localized(locale.Normalize(req.DescriptionEn), locale.Normalize(req.DescriptionBn))
	if !description.IsEmpty() {
		if err := product.Update(product.Name, description); err != nil {
			return nil, err
		}
	}
	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}
	if err := s.setImage(ctx, product, req.Image); err != nil {
		return nil, err
	}
	product.SetFeatured(req.Featured)
	product.SetTags(req.Tags)
	product.SetVariants(req.Variants)

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.publish(ctx, product)

	resp := s.toResponse(ctx, product, lang)
	return &resp, nil
}

// Update applies the non-nil fields of req
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest, lang string) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "update_product",
		telemetry.SpanAttrProductID, id.String())
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NameEn != nil || req.NameBn != nil || req.DescriptionEn != nil || req.DescriptionBn != nil {
		name, description := product.Name, product.Description
		if req.NameEn != nil {
			name.En = locale.Normalize(*req.NameEn)
		}
		if req.NameBn != nil {
			name.Bn = locale.Normalize(*req.NameBn)
		}
		if req.DescriptionEn != nil {
			description.En = locale.Normalize(*req.DescriptionEn)
		}
		if req.DescriptionBn != nil {
			description.Bn = locale.Normalize(*req.DescriptionBn)
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		category, err := catalog.FindCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		product.SetCategory(category)
	}
	if req.Image != nil {
		if err := s.setImage(ctx, product, *req.Image); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}
	if req.Tags != nil {
		product.SetTags(req.Tags)
	}
	if req.Variants != nil {
		product.SetVariants(req.Variants)
	}
	if req.Active != nil && *req.Active != product.Active {
		if *req.Active {
			err = product.Activate()
		} else {
			err = product.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.publish(ctx, product)

	resp := s.toResponse(ctx, product, lang)
	return &resp, nil
}

// Deactivate hides a product from customers. The row is kept so past orders stay readable.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "deactivate_product",
		telemetry.SpanAttrProductID, id.String())
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := product.Deactivate(); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("save product: %w", err)
	}
	s.publish(ctx, product)
	return nil
}

// ImageUploadURL presigns an upload for a new product image. The returned key
// is then set as the product's image via Update.
func (s *ProductService) ImageUploadURL(ctx context.Context, id uuid.UUID, contentType string) (*ImageUploadResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "image_upload_url",
		telemetry.SpanAttrProductID, id.String())
	defer span.End()

	ext, ok := AllowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedImageType
	}
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	key := path.Join("products", id.String(), uuid.NewString()+ext)
	url, expiresAt, err := s.images.GenerateUploadURL(ctx, key, contentType, imageUploadExpiry)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("generate upload url: %w", err)
	}

	return &ImageUploadResponse{UploadURL: url, Key: key, ExpiresAt: expiresAt}, nil
}

// setImage accepts an absolute URL as-is; an object key must already be uploaded
func (s *ProductService) setImage(ctx context.Context, product *catalog.Product, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		product.SetImage(ref)
		return nil
	}
	exists, err := s.images.ObjectExists(ctx, ref)
	if err != nil {
		return fmt.Errorf("check image: %w", err)
	}
	if !exists {
		return shared.NewValidationError("image", "image has not been uploaded")
	}
	product.SetImage(ref)
	return nil
}

func (s *ProductService) toResponse(ctx context.Context, p *catalog.Product, lang string) ProductResponse {
	imageURL, err := s.images.ResolveImageURL(ctx, p.ImageRef)
	if err != nil {
		s.logger.Warn("Failed to resolve product image",
			zap.String("product_id", p.ID.String()),
			zap.Error(err),
		)
		imageURL = ""
	}
	return ToProductResponse(p, lang, imageURL)
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}

// IsNotFound reports whether err means the product does not exist or is hidden
func IsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrProductNotFound)
}
