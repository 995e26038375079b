package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clearscrub-admin/internal/service"
)

type SettingsHandler struct {
	logger   *zap.Logger
	settings *service.SettingsService
}

func NewSettingsHandler(logger *zap.Logger, settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{logger: logger, settings: settings}
}

// Get maneja GET /settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	settings, err := h.settings.Get(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("get settings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Section maneja GET /settings/:tab.
func (h *SettingsHandler) Section(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	settings, err := h.settings.Get(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("get settings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load settings"})
		return
	}

	switch tab := c.Param("tab"); tab {
	case "organization":
		c.JSON(http.StatusOK, gin.H{"organization": settings.Organization, "team": settings.Team})
	case "quota":
		c.JSON(http.StatusOK, gin.H{"quota": settings.Quota})
	case "suppressions":
		c.JSON(http.StatusOK, gin.H{
			"state_suppressions":    settings.StateSuppressions,
			"industry_suppressions": settings.IndustrySuppressions,
		})
	case "billing":
		c.JSON(http.StatusOK, gin.H{"billing": settings.Billing})
	case "webhooks":
		c.JSON(http.StatusOK, gin.H{"webhooks": settings.Webhooks})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown settings section"})
	}
}

// AddSuppression maneja POST /settings/suppressions/:kind.
func (h *SettingsHandler) AddSuppression(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add suppression request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	identity, _ := CurrentIdentity(c)
	settings, err := h.settings.AddSuppression(c.Request.Context(), identity, service.SuppressionKind(c.Param("kind")), req.Value)
	if err != nil {
		h.respondError(c, "add suppression failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// RemoveSuppression maneja DELETE /settings/suppressions/:kind/:value.
func (h *SettingsHandler) RemoveSuppression(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	settings, err := h.settings.RemoveSuppression(c.Request.Context(), identity, service.SuppressionKind(c.Param("kind")), c.Param("value"))
	if err != nil {
		h.respondError(c, "remove suppression failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// AddWebhook maneja POST /settings/webhooks.
func (h *SettingsHandler) AddWebhook(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add webhook request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	identity, _ := CurrentIdentity(c)
	hook, err := h.settings.AddWebhook(c.Request.Context(), identity, req.URL)
	if err != nil {
		h.respondError(c, "add webhook failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"webhook": hook})
}

// RemoveWebhook maneja DELETE /settings/webhooks/:id.
func (h *SettingsHandler) RemoveWebhook(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	if err := h.settings.RemoveWebhook(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.respondError(c, "remove webhook failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SettingsHandler) respondError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSuppression):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suppression"})
	case errors.Is(err, service.ErrInvalidWebhookURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook url"})
	case errors.Is(err, service.ErrWebhookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "webhook not found"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update settings"})
	}
}
