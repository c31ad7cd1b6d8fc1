package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/utpad/utpad/pkg/apiserver/middleware"
	"github.com/utpad/utpad/pkg/settings"
)

type SettingsHandler struct {
	service *settings.Service
	logger  *zap.Logger
}

func NewSettingsHandler(service *settings.Service, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: logger}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"site_name": h.service.SiteName(c.Request.Context())})
}

// Reload re-reads site settings from the configuration table. Restricted to
// superusers; settings are process-wide state.
func (h *SettingsHandler) Reload(c *gin.Context) {
	user := middleware.Principal(c)
	if user == nil || !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.service.Reload(c.Request.Context()); err != nil {
		h.logger.Error("failed to reload settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"site_name": h.service.SiteName(c.Request.Context())})
}
