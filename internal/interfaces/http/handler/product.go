package handler

import (
	catalogapp "github.com/giftshop/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Retrieve a paginated list of active products, featured first
// @Tags         products
// @Produce      json
// @Param        category   query    string  false  "Category id"
// @Param        search     query    string  false  "Search in English and Bengali names"
// @Param        featured   query    bool    false  "Only featured products"
// @Param        in_stock   query    bool    false  "Only products in stock"
// @Param        min_price  query    int     false  "Minimum price"
// @Param        max_price  query    int     false  "Maximum price"
// @Param        page       query    int     false  "Page number"     default(1)
// @Param        page_size  query    int     false  "Items per page"  default(20)
// @Param        order_by   query    string  false  "Order by field"
// @Param        order_dir  query    string  false  "Order direction" Enums(asc, desc)
// @Param        lang       query    string  false  "Display language" Enums(en, bn)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// Get godoc
// @ID           getProduct
// @Summary      Get product by ID
// @Description  Retrieve one active product
// @Tags         products
// @Produce      json
// @Param        id   path     string  true  "Product ID"  format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "Product not found")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a new product
// @Description  Create a new active product in the catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Update product fields; omitted fields are unchanged
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path     string                           true  "Product ID"  format(uuid)
// @Param        request body     catalogapp.UpdateProductRequest  true  "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "Product not found")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req, lang(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Description  Hide a product from the storefront; the row is kept for existing orders
// @Tags         products
// @Param        id   path     string  true  "Product ID"  format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "Product not found")
	if !ok {
		return
	}

	if err := h.productService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ImageUploadURL godoc
// @ID           createProductImageUploadURL
// @Summary      Presign a product image upload
// @Description  Returns a short-lived URL the client PUTs the image to
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path     string                         true  "Product ID"  format(uuid)
// @Param        request body     catalogapp.ImageUploadRequest  true  "Image content type"
// @Success      200 {object} APIResponse[catalogapp.ImageUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id}/image-upload-url [post]
func (h *ProductHandler) ImageUploadURL(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "Product not found")
	if !ok {
		return
	}

	var req catalogapp.ImageUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	upload, err := h.productService.ImageUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}
