package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/service"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// maxImageSize bounds product image uploads (5 MiB).
const maxImageSize = 5 << 20

type ProductHandler struct {
	productService *service.ProductService
	s3Service      *service.S3Service
}

func NewProductHandler(productService *service.ProductService, s3Service *service.S3Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		s3Service:      s3Service,
	}
}

// buildProductFilter translates list query parameters into a repository
// filter. Unparseable numeric filters are ignored rather than rejected.
func buildProductFilter(c *gin.Context) *repository.ProductFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := &repository.ProductFilter{
		SiteID:        c.GetInt("site_id"),
		Search:        c.Query("search"),
		LowStockOnly:  c.Query("low_stock") == "true",
		BackorderOnly: c.Query("backorder") == "true",
		IncludeStale:  c.Query("include_inactive") == "true",
		Page:          page,
		Limit:         limit,
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.CategoryID = id
		}
	}
	if raw := c.Query("brand_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.BrandID = id
		}
	}
	return filter
}

// List returns the site catalog with optional filters.
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	filter := buildProductFilter(c)

	products, total, err := h.productService.ListProducts(filter)
	if err != nil {
		log.Error().Err(err).Int("site_id", filter.SiteID).Msg("failed to list products")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list products")
		return
	}

	utils.SuccessWithPagination(c, http.StatusOK, "products", products, filter.Page, filter.Limit, total)
}

// Get returns one product.
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_PRODUCT_ID", "product id must be an integer")
		return
	}

	product, err := h.productService.GetProduct(operationContext(c), id)
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
			return
		}
		log.Error().Err(err).Int("product_id", id).Msg("failed to get product")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to get product")
		return
	}

	utils.Success(c, http.StatusOK, "product", product)
}

// Create registers a new catalog item.
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	product, err := h.productService.CreateProduct(operationContext(c), &req)
	if err != nil {
		h.writeProductError(c, err)
		return
	}

	utils.Success(c, http.StatusCreated, "product created", product)
}

// Update edits catalog fields. Stock quantity is not editable here.
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_PRODUCT_ID", "product id must be an integer")
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(operationContext(c), id, &req)
	if err != nil {
		h.writeProductError(c, err)
		return
	}

	utils.Success(c, http.StatusOK, "product updated", product)
}

// Delete deactivates a product. Movement history is preserved.
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_PRODUCT_ID", "product id must be an integer")
		return
	}

	if err := h.productService.DeleteProduct(operationContext(c), id); err != nil {
		h.writeProductError(c, err)
		return
	}

	utils.Success(c, http.StatusOK, "product deactivated", nil)
}

// Scan looks up a product by its CUG, serving from the Redis snapshot when
// warm. Used by the barcode scanner flow at the counter.
// GET /api/v1/products/scan/:cug
func (h *ProductHandler) Scan(c *gin.Context) {
	cug := c.Param("cug")

	product, cacheHit, err := h.productService.ScanByCUG(c.Request.Context(), operationContext(c), cug)
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "no product with this CUG")
			return
		}
		log.Error().Err(err).Str("cug", cug).Msg("scan failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "scan failed")
		return
	}

	c.Header("X-Cache", cacheStatus(cacheHit))
	utils.Success(c, http.StatusOK, "product", product)
}

// UploadImage stores a product image on S3 and records its URL.
// POST /api/v1/products/:id/image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.s3Service == nil {
		utils.Error(c, http.StatusNotImplemented, "UPLOADS_DISABLED", "image storage is not configured")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_PRODUCT_ID", "product id must be an integer")
		return
	}

	op := operationContext(c)
	product, err := h.productService.GetProduct(op, id)
	if err != nil {
		h.writeProductError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		utils.Error(c, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image must be 5MB or smaller")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		utils.Error(c, http.StatusBadRequest, "UNSUPPORTED_IMAGE_TYPE", "only JPEG and PNG images are accepted")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read image")
		return
	}

	imageURL, err := h.s3Service.UploadProductImage(c.Request.Context(), op.SiteID, product.CUG, data, contentType)
	if err != nil {
		log.Error().Err(err).Int("product_id", id).Msg("image upload failed")
		utils.Error(c, http.StatusBadGateway, "UPLOAD_FAILED", "failed to store image")
		return
	}

	if err := h.productService.SetImageURL(op, id, imageURL); err != nil {
		h.writeProductError(c, err)
		return
	}

	utils.Success(c, http.StatusOK, "image uploaded", gin.H{"image_url": imageURL})
}

func (h *ProductHandler) writeProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
	case errors.Is(err, utils.ErrInvalidCUG):
		utils.Error(c, http.StatusBadRequest, "INVALID_CUG", "CUG cannot be empty")
	case errors.Is(err, utils.ErrDuplicateCUG):
		utils.Error(c, http.StatusConflict, "DUPLICATE_CUG", "a product with this CUG already exists on this site")
	case errors.Is(err, utils.ErrCategoryNotFound):
		utils.Error(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND", "referenced category does not exist on this site")
	case errors.Is(err, utils.ErrPriceBelowCost):
		utils.Error(c, http.StatusBadRequest, "PRICE_BELOW_COST", "selling price cannot be below purchase price")
	case errors.Is(err, utils.ErrInvalidQuantity):
		utils.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", "quantity and alert threshold cannot be negative")
	default:
		log.Error().Err(err).Msg("product operation failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "product operation failed")
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
