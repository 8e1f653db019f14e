package handler

import (
	cartapp "github.com/giftshop/backend/internal/application/cart"
	"github.com/gin-gonic/gin"
)

// CartHandler prices carts for the checkout page
type CartHandler struct {
	BaseHandler
	quotes *cartapp.QuoteService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(quotes *cartapp.QuoteService) *CartHandler {
	return &CartHandler{quotes: quotes}
}

// Quote godoc
// @ID           quoteCart
// @Summary      Price a cart
// @Description  Returns subtotal, delivery fee, promo discount and total using catalog prices.
// @Description  A promo code that cannot be applied is reported in promoError and does not fail the quote.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request  body  cartapp.QuoteRequest  true  "Cart contents"
// @Success      200 {object} APIResponse[cartapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /cart/quote [post]
func (h *CartHandler) Quote(c *gin.Context) {
	var req cartapp.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.quotes.Quote(c.Request.Context(), req, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}
