package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/service"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

type SaleHandler struct {
	saleService *service.SaleService
}

func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create records a sale and issues stock for every line in one transaction.
// Lines with insufficient stock still sell; the movements come out as
// backorders.
// POST /api/v1/sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), operationContext(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEmptySale):
			utils.Error(c, http.StatusBadRequest, "EMPTY_SALE", "a sale needs at least one item")
		case errors.Is(err, utils.ErrInvalidQuantity):
			utils.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", "item quantities must be strictly positive")
		case errors.Is(err, utils.ErrProductNotFound):
			utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "one of the products does not exist on this site")
		case errors.Is(err, utils.ErrProductInactive):
			utils.Error(c, http.StatusConflict, "PRODUCT_INACTIVE", "one of the products has been deactivated")
		default:
			log.Error().Err(err).Msg("sale creation failed")
			utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to record sale")
		}
		return
	}

	utils.Success(c, http.StatusCreated, "sale recorded", sale)
}

// Cancel voids a sale and restocks every line with compensating inbound
// movements. Cancelling twice is a no-op.
// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_SALE_ID", "sale id must be an integer")
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), operationContext(c), id)
	if err != nil {
		if errors.Is(err, utils.ErrSaleNotFound) {
			utils.Error(c, http.StatusNotFound, "SALE_NOT_FOUND", "sale not found")
			return
		}
		log.Error().Err(err).Int("sale_id", id).Msg("sale cancellation failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to cancel sale")
		return
	}

	utils.Success(c, http.StatusOK, "sale cancelled", sale)
}

// Get returns one sale with its items.
// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_SALE_ID", "sale id must be an integer")
		return
	}

	sale, err := h.saleService.GetSale(operationContext(c), id)
	if err != nil {
		if errors.Is(err, utils.ErrSaleNotFound) {
			utils.Error(c, http.StatusNotFound, "SALE_NOT_FOUND", "sale not found")
			return
		}
		log.Error().Err(err).Int("sale_id", id).Msg("failed to get sale")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to get sale")
		return
	}

	utils.Success(c, http.StatusOK, "sale", sale)
}

// Movements returns the stock movements a sale generated.
// GET /api/v1/sales/:id/movements
func (h *SaleHandler) Movements(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_SALE_ID", "sale id must be an integer")
		return
	}

	movements, err := h.saleService.SaleMovements(operationContext(c), id)
	if err != nil {
		if errors.Is(err, utils.ErrSaleNotFound) {
			utils.Error(c, http.StatusNotFound, "SALE_NOT_FOUND", "sale not found")
			return
		}
		log.Error().Err(err).Int("sale_id", id).Msg("failed to list sale movements")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list sale movements")
		return
	}

	utils.Success(c, http.StatusOK, "sale movements", movements)
}

// List returns the site's sales, newest first.
// GET /api/v1/sales
func (h *SaleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	sales, total, err := h.saleService.ListSales(operationContext(c), page, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list sales")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list sales")
		return
	}

	utils.SuccessWithPagination(c, http.StatusOK, "sales", sales, page, limit, total)
}
