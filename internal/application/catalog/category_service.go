package catalog

import "github.com/giftshop/backend/internal/domain/catalog"

// CategoryService serves the static category reference list
type CategoryService struct{}

// NewCategoryService creates a new CategoryService
func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

// List returns all categories in display order
func (s *CategoryService) List(lang string) []CategoryResponse {
	categories := catalog.Categories()
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToCategoryResponse(c, lang))
	}
	return out
}
