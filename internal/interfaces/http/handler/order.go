package handler

import (
	"net/http"

	orderapp "github.com/giftshop/backend/internal/application/order"
	"github.com/giftshop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader lets a client retry a checkout without placing a second order
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayedHeader is set to "true" when a stored checkout result is returned
	IdempotentReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 128
)

// OrderHandler handles checkout and order tracking endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Place an order
// @Description  Prices the cart from the catalog, applies the promo code and stores the order
// @Description  with a TXR-YYYYMMDD-NNN code. Repeating a request with the same Idempotency-Key
// @Description  returns the first order with status 200.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                       false  "Client generated key for safe retries"
// @Param        request          body    orderapp.CreateOrderRequest  true   "Checkout form and cart"
// @Success      201 {object} APIResponse[orderapp.OrderResponse]
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
		return
	}

	var req orderapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, replayed, err := h.orderService.Create(c.Request.Context(), req, key, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	tagOrder(c, order.OrderID)
	if replayed {
		c.Header(IdempotentReplayedHeader, "true")
		h.Success(c, order)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Paginated order list for shop staff, newest first
// @Tags         orders
// @Produce      json
// @Param        status             query  string  false  "Order status"  Enums(pending, processing, shipped, delivered, cancelled)
// @Param        search             query  string  false  "Search by code, customer name or phone"
// @Param        delivery_location  query  string  false  "Delivery zone id"
// @Param        payment_method     query  string  false  "Payment method"
// @Param        created_from       query  string  false  "Created on or after (YYYY-MM-DD)"
// @Param        created_to         query  string  false  "Created on or before (YYYY-MM-DD)"
// @Param        page               query  int     false  "Page number"     default(1)
// @Param        page_size          query  int     false  "Items per page"  default(20)
// @Param        order_by           query  string  false  "Order by field"
// @Param        order_dir          query  string  false  "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.ListOrdersFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Get godoc
// @ID           getOrder
// @Summary      Get order by code
// @Tags         orders
// @Produce      json
// @Param        orderId  path  string  true  "Order code"  example(TXR-20240315-001)
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{orderId} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	h.getByCode(c)
}

// Track godoc
// @ID           trackOrder
// @Summary      Track an order
// @Description  Same lookup as GET /orders/{orderId}, used by the tracking page
// @Tags         orders
// @Produce      json
// @Param        orderId  path  string  true  "Order code"  example(TXR-20240315-001)
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/track/{orderId} [get]
func (h *OrderHandler) Track(c *gin.Context) {
	h.getByCode(c)
}

func (h *OrderHandler) getByCode(c *gin.Context) {
	code := c.Param("orderId")
	tagOrder(c, code)

	order, err := h.orderService.GetByCode(c.Request.Context(), code, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Change order status
// @Description  Moves an order one step along pending, processing, shipped, delivered.
// @Description  Any other value, including cancelled, is rejected with 400.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                         true  "Order code"
// @Param        request  body  orderapp.UpdateStatusRequest   true  "New status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{orderId}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	code := c.Param("orderId")
	tagOrder(c, code)

	var req orderapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), code, req.Status, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Cancels a pending or processing order. Shipped and delivered orders answer 422.
// @Tags         orders
// @Produce      json
// @Param        orderId  path  string  true  "Order code"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{orderId}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	code := c.Param("orderId")
	tagOrder(c, code)

	order, err := h.orderService.Cancel(c.Request.Context(), code, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
