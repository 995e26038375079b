package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clearscrub-admin/internal/service"
)

type APIKeyHandler struct {
	logger *zap.Logger
	keys   *service.APIKeyService
}

func NewAPIKeyHandler(logger *zap.Logger, keys *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{logger: logger, keys: keys}
}

// List maneja GET /api-keys.
func (h *APIKeyHandler) List(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	keys, err := h.keys.List(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("list api keys failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list api keys"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_keys": keys})
}

// Create maneja POST /api-keys.
func (h *APIKeyHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create api key request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, _ := CurrentIdentity(c)
	created, err := h.keys.Create(c.Request.Context(), identity, req.Name)
	if err != nil {
		h.respondError(c, "create api key failed", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Revoke maneja POST /api-keys/:id/revoke.
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	key, err := h.keys.Revoke(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.respondError(c, "revoke api key failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_key": key})
}

// Activate maneja POST /api-keys/:id/activate.
func (h *APIKeyHandler) Activate(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	key, err := h.keys.Activate(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.respondError(c, "activate api key failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_key": key})
}

// Roll maneja POST /api-keys/:id/roll.
func (h *APIKeyHandler) Roll(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	rolled, err := h.keys.Roll(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.respondError(c, "roll api key failed", err)
		return
	}
	c.JSON(http.StatusOK, rolled)
}

// Delete maneja DELETE /api-keys/:id.
func (h *APIKeyHandler) Delete(c *gin.Context) {
	identity, _ := CurrentIdentity(c)
	if err := h.keys.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.respondError(c, "delete api key failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIKeyHandler) respondError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidKeyName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid api key name"})
	case errors.Is(err, service.ErrAPIKeyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "api key not found"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process api key"})
	}
}
