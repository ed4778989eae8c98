package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// CatalogHandler serves categories and brands.
type CatalogHandler struct {
	categoryRepo *repository.CategoryRepository
}

func NewCatalogHandler(categoryRepo *repository.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{categoryRepo: categoryRepo}
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListCategories returns the site's categories with product counts.
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryRepo.ListCategories(c.GetInt("site_id"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list categories")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list categories")
		return
	}
	utils.Success(c, http.StatusOK, "categories", categories)
}

// CreateCategory adds a category.
// POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	category := &models.Category{
		SiteID: c.GetInt("site_id"),
		Name:   strings.TrimSpace(req.Name),
	}
	if err := h.categoryRepo.CreateCategory(category); err != nil {
		if isUniqueViolation(err) {
			utils.Error(c, http.StatusConflict, "DUPLICATE_CATEGORY", "a category with this name already exists")
			return
		}
		log.Error().Err(err).Msg("failed to create category")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create category")
		return
	}

	utils.Success(c, http.StatusCreated, "category created", category)
}

// UpdateCategory renames a category.
// PUT /api/v1/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_CATEGORY_ID", "category id must be an integer")
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	category := &models.Category{
		ID:     id,
		SiteID: c.GetInt("site_id"),
		Name:   strings.TrimSpace(req.Name),
	}
	if err := h.categoryRepo.UpdateCategory(category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
			return
		}
		log.Error().Err(err).Int("category_id", id).Msg("failed to update category")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update category")
		return
	}

	utils.Success(c, http.StatusOK, "category updated", category)
}

// DeleteCategory removes a category. Products keep a NULL category.
// DELETE /api/v1/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_CATEGORY_ID", "category id must be an integer")
		return
	}

	if err := h.categoryRepo.DeleteCategory(id, c.GetInt("site_id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
			return
		}
		log.Error().Err(err).Int("category_id", id).Msg("failed to delete category")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete category")
		return
	}

	utils.Success(c, http.StatusOK, "category deleted", nil)
}

// ListBrands returns the site's brands.
// GET /api/v1/brands
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.categoryRepo.ListBrands(c.GetInt("site_id"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list brands")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list brands")
		return
	}
	utils.Success(c, http.StatusOK, "brands", brands)
}

// CreateBrand adds a brand.
// POST /api/v1/brands
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	brand := &models.Brand{
		SiteID: c.GetInt("site_id"),
		Name:   strings.TrimSpace(req.Name),
	}
	if err := h.categoryRepo.CreateBrand(brand); err != nil {
		if isUniqueViolation(err) {
			utils.Error(c, http.StatusConflict, "DUPLICATE_BRAND", "a brand with this name already exists")
			return
		}
		log.Error().Err(err).Msg("failed to create brand")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create brand")
		return
	}

	utils.Success(c, http.StatusCreated, "brand created", brand)
}

// DeleteBrand removes a brand. Products keep a NULL brand.
// DELETE /api/v1/brands/:id
func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_BRAND_ID", "brand id must be an integer")
		return
	}

	if err := h.categoryRepo.DeleteBrand(id, c.GetInt("site_id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, http.StatusNotFound, "BRAND_NOT_FOUND", "brand not found")
			return
		}
		log.Error().Err(err).Int("brand_id", id).Msg("failed to delete brand")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete brand")
		return
	}

	utils.Success(c, http.StatusOK, "brand deleted", nil)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
