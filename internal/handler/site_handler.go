package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

type SiteHandler struct {
	siteRepo *repository.SiteRepository
}

func NewSiteHandler(siteRepo *repository.SiteRepository) *SiteHandler {
	return &SiteHandler{siteRepo: siteRepo}
}

// List returns all sites.
// GET /api/v1/sites
func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.siteRepo.List()
	if err != nil {
		log.Error().Err(err).Msg("failed to list sites")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list sites")
		return
	}
	utils.Success(c, http.StatusOK, "sites", sites)
}
