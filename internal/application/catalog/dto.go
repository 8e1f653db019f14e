package catalog

import (
	"time"

	"github.com/giftshop/backend/internal/domain/catalog"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	NameEn        string         `json:"nameEn" binding:"required_without=NameBn,max=200"`
	NameBn        string         `json:"nameBn" binding:"required_without=NameEn,max=200"`
	DescriptionEn string         `json:"descriptionEn" binding:"max=4000"`
	DescriptionBn string         `json:"descriptionBn" binding:"max=4000"`
	Price         int64          `json:"price" binding:"min=0"`
	Category      string         `json:"category" binding:"required"`
	Image         string         `json:"image" binding:"max=1024"`
	Stock         int            `json:"stock" binding:"min=0"`
	Featured      bool           `json:"featured"`
	Tags          []string       `json:"tags" binding:"max=20,dive,max=40"`
	Variants      map[string]any `json:"variants"`
}

// UpdateProductRequest represents a partial product update; nil fields are left unchanged
type UpdateProductRequest struct {
	NameEn        *string        `json:"nameEn" binding:"omitempty,max=200"`
	NameBn        *string        `json:"nameBn" binding:"omitempty,max=200"`
	DescriptionEn *string        `json:"descriptionEn" binding:"omitempty,max=4000"`
	DescriptionBn *string        `json:"descriptionBn" binding:"omitempty,max=4000"`
	Price         *int64         `json:"price" binding:"omitempty,min=0"`
	Category      *string        `json:"category"`
	Image         *string        `json:"image" binding:"omitempty,max=1024"`
	Stock         *int           `json:"stock" binding:"omitempty,min=0"`
	Featured      *bool          `json:"featured"`
	Active        *bool          `json:"active"`
	Tags          []string       `json:"tags" binding:"omitempty,max=20,dive,max=40"`
	Variants      map[string]any `json:"variants"`
}

// ImageUploadRequest asks for a presigned product image upload
type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ImageUploadResponse carries the presigned URL and the key to store on the product
type ImageUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProductResponse represents a product in API responses.
// Name, Description and CategoryName are resolved for the request language.
type ProductResponse struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	NameEn        string         `json:"nameEn"`
	NameBn        string         `json:"nameBn"`
	Description   string         `json:"description"`
	DescriptionEn string         `json:"descriptionEn"`
	DescriptionBn string         `json:"descriptionBn"`
	Price         int64          `json:"price"`
	Category      string         `json:"category"`
	CategoryName  string         `json:"categoryName"`
	CategoryEn    string         `json:"categoryEn"`
	CategoryBn    string         `json:"categoryBn"`
	Image         string         `json:"image"`
	Stock         int            `json:"stock"`
	InStock       bool           `json:"inStock"`
	Active        bool           `json:"active"`
	Featured      bool           `json:"featured"`
	Tags          []string       `json:"tags"`
	Variants      map[string]any `json:"variants"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Category string `form:"category"`
	Search   string `form:"search" binding:"max=100"`
	Featured *bool  `form:"featured"`
	InStock  *bool  `form:"in_stock"`
	MinPrice *int64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice *int64 `form:"max_price" binding:"omitempty,min=0"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	// IncludeInactive is set by staff listings only
	IncludeInactive bool `form:"-"`
}

// CategoryResponse is one entry of the static category list
type CategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameEn   string `json:"nameEn"`
	NameBn   string `json:"nameBn"`
	Icon     string `json:"icon"`
	MinPrice int64  `json:"minPrice"`
}

// ToProductResponse converts a domain Product; imageURL replaces the stored image reference
func ToProductResponse(p *catalog.Product, lang, imageURL string) ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	variants := p.Variants
	if variants == nil {
		variants = map[string]any{}
	}
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name.In(lang),
		NameEn:        p.Name.En,
		NameBn:        p.Name.Bn,
		Description:   p.Description.In(lang),
		DescriptionEn: p.Description.En,
		DescriptionBn: p.Description.Bn,
		Price:         p.Price,
		Category:      p.CategoryID,
		CategoryName:  p.CategoryName.In(lang),
		CategoryEn:    p.CategoryName.En,
		CategoryBn:    p.CategoryName.Bn,
		Image:         imageURL,
		Stock:         p.Stock,
		InStock:       p.Stock > 0,
		Active:        p.Active,
		Featured:      p.Featured,
		Tags:          tags,
		Variants:      variants,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToCategoryResponse converts a reference category
func ToCategoryResponse(c catalog.Category, lang string) CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name.In(lang),
		NameEn:   c.Name.En,
		NameBn:   c.Name.Bn,
		Icon:     c.Icon,
		MinPrice: c.MinPrice,
	}
}

func localized(en, bn string) valueobject.LocalizedText {
	return valueobject.NewLocalizedText(en, bn)
}
