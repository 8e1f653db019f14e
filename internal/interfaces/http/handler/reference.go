package handler

import (
	cartapp "github.com/giftshop/backend/internal/application/cart"
	catalogapp "github.com/giftshop/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the static storefront reference data
type ReferenceHandler struct {
	BaseHandler
	categories *catalogapp.CategoryService
	quotes     *cartapp.QuoteService
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(categories *catalogapp.CategoryService, quotes *cartapp.QuoteService) *ReferenceHandler {
	return &ReferenceHandler{categories: categories, quotes: quotes}
}

// ListCategories godoc
// @ID           listCategories
// @Summary      List product categories
// @Tags         reference
// @Produce      json
// @Param        lang  query  string  false  "Display language"  Enums(en, bn)
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Router       /categories [get]
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	h.Success(c, h.categories.List(lang(c)))
}

// ListDeliveryZones godoc
// @ID           listDeliveryZones
// @Summary      List delivery zones and fees
// @Tags         reference
// @Produce      json
// @Param        lang  query  string  false  "Display language"  Enums(en, bn)
// @Success      200 {object} APIResponse[[]cartapp.DeliveryZoneResponse]
// @Router       /delivery-zones [get]
func (h *ReferenceHandler) ListDeliveryZones(c *gin.Context) {
	h.Success(c, h.quotes.Zones(lang(c)))
}
