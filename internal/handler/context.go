package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/DJIMIGA/bolibanastock/internal/models"
)

// operationContext builds the explicit site/user context from the values
// the JWT middleware stored on the request.
func operationContext(c *gin.Context) models.OperationContext {
	return models.OperationContext{
		SiteID: c.GetInt("site_id"),
		UserID: c.GetInt("user_id"),
	}
}
