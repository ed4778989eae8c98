package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/service"
	"github.com/DJIMIGA/bolibanastock/internal/stock"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

type StockHandler struct {
	inventoryService *service.InventoryService
}

func NewStockHandler(inventoryService *service.InventoryService) *StockHandler {
	return &StockHandler{inventoryService: inventoryService}
}

type stockOperationRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    *string         `json:"notes"`
}

// AddStock receives units into stock.
// POST /api/v1/products/:id/add_stock
func (h *StockHandler) AddStock(c *gin.Context) {
	h.recordMovement(c, stock.MovementIn)
}

// RemoveStock issues units out of stock. The operation never fails for
// insufficient stock: the quantity goes negative and the movement is
// recorded as a backorder.
// POST /api/v1/products/:id/remove_stock
func (h *StockHandler) RemoveStock(c *gin.Context) {
	h.recordMovement(c, stock.MovementOut)
}

// DeclareLoss writes off units (breakage, theft, expiry).
// POST /api/v1/products/:id/declare_loss
func (h *StockHandler) DeclareLoss(c *gin.Context) {
	h.recordMovement(c, stock.MovementLoss)
}

type adjustStockRequest struct {
	// Quantity is the absolute target after a physical count; negative
	// targets are allowed to record known backorders.
	Quantity decimal.Decimal `json:"quantity"`
	Notes    *string         `json:"notes"`
}

// AdjustStock sets the quantity to an absolute counted value.
// POST /api/v1/products/:id/adjust_stock
func (h *StockHandler) AdjustStock(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_PRODUCT_ID", "product id must be an integer")
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be valid JSON with a numeric quantity (zero and negative targets are allowed)")
		return
	}

	result, err := h.inventoryService.RecordMovement(c.Request.Context(), operationContext(c), productID, service.MovementRequest{
		Kind:     stock.MovementAdjustment,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeMovementError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// StockMovements lists the movement history of a product, newest first.
// GET /api/v1/products/:id/stock_movements
func (h *StockHandler) StockMovements(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_PRODUCT_ID", "product id must be an integer")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, total, err := h.inventoryService.ListMovements(operationContext(c), productID, page, limit)
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
			return
		}
		log.Error().Err(err).Int("product_id", productID).Msg("failed to list stock movements")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list stock movements")
		return
	}

	utils.SuccessWithPagination(c, http.StatusOK, "stock movements", movements, page, limit, total)
}

func (h *StockHandler) recordMovement(c *gin.Context, kind stock.MovementKind) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_PRODUCT_ID", "product id must be an integer")
		return
	}

	var req stockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "quantity is required")
		return
	}

	result, err := h.inventoryService.RecordMovement(c.Request.Context(), operationContext(c), productID, service.MovementRequest{
		Kind:     kind,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeMovementError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *StockHandler) writeMovementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
	case errors.Is(err, utils.ErrProductInactive):
		utils.Error(c, http.StatusConflict, "PRODUCT_INACTIVE", "product has been deactivated")
	case errors.Is(err, utils.ErrInvalidQuantity):
		utils.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", "quantity must be strictly positive")
	case errors.Is(err, utils.ErrInvalidMovement):
		utils.Error(c, http.StatusBadRequest, "INVALID_MOVEMENT", "unknown movement kind")
	default:
		log.Error().Err(err).Msg("stock movement failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to record stock movement")
	}
}
