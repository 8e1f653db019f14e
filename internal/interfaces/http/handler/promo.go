package handler

import (
	"net/http"

	promoapp "github.com/giftshop/backend/internal/application/promotion"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/giftshop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PromoHandler handles promo code API endpoints
type PromoHandler struct {
	BaseHandler
	promoService *promoapp.Service
}

// NewPromoHandler creates a new PromoHandler
func NewPromoHandler(promoService *promoapp.Service) *PromoHandler {
	return &PromoHandler{promoService: promoService}
}

// Get godoc
// @ID           getPromoCode
// @Summary      Get an active promo code
// @Description  Inactive and expired codes are reported as not found
// @Tags         promo-codes
// @Produce      json
// @Param        code  path     string  true  "Promo code (case-insensitive)"
// @Success      200 {object} APIResponse[promoapp.PromoCodeResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /promo-codes/{code} [get]
func (h *PromoHandler) Get(c *gin.Context) {
	promo, err := h.promoService.GetActive(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, promo)
}

// Validate godoc
// @ID           validatePromoCode
// @Summary      Validate a promo code against a subtotal
// @Tags         promo-codes
// @Accept       json
// @Produce      json
// @Param        code     path     string                             true  "Promo code (case-insensitive)"
// @Param        request  body     promoapp.ValidatePromoCodeRequest  true  "Cart subtotal"
// @Success      200 {object} APIResponse[promoapp.PromoCheckResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /promo-codes/{code}/validate [post]
func (h *PromoHandler) Validate(c *gin.Context) {
	var req promoapp.ValidatePromoCodeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.Subtotal.IsNegative() {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", getRequestID(c),
			[]dto.ValidationDetail{{Field: "subtotal", Message: "subtotal cannot be negative", Code: dto.ErrCodeValidationFormat}}))
		return
	}

	check, err := h.promoService.Check(c.Request.Context(), c.Param("code"), valueobject.Taka(req.Subtotal))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, check)
}

// Create godoc
// @ID           createPromoCode
// @Summary      Create a promo code
// @Tags         promo-codes
// @Accept       json
// @Produce      json
// @Param        request  body  promoapp.CreatePromoCodeRequest  true  "Promo code"
// @Success      201 {object} APIResponse[promoapp.PromoCodeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /promo-codes [post]
func (h *PromoHandler) Create(c *gin.Context) {
	var req promoapp.CreatePromoCodeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	promo, err := h.promoService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, promo)
}
