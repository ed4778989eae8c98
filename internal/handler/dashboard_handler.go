package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/service"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Dashboard returns the site's stock and sales summary.
// GET /api/v1/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetDashboard(operationContext(c))
	if err != nil {
		log.Error().Err(err).Int("site_id", c.GetInt("site_id")).Msg("failed to build dashboard")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build dashboard")
		return
	}
	utils.Success(c, http.StatusOK, "dashboard", dashboard)
}

// LowStockReport returns products at or below their alert threshold,
// served from the periodic Redis report when warm.
// GET /api/v1/dashboard/low_stock
func (h *DashboardHandler) LowStockReport(c *gin.Context) {
	entries, err := h.dashboardService.GetLowStockReport(c.Request.Context(), operationContext(c))
	if err != nil {
		log.Error().Err(err).Int("site_id", c.GetInt("site_id")).Msg("failed to build low stock report")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build low stock report")
		return
	}
	utils.Success(c, http.StatusOK, "low stock report", entries)
}
