package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clearscrub-admin/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CompanyHandler struct {
	logger    *zap.Logger
	companies *service.CompanyService
}

func NewCompanyHandler(logger *zap.Logger, companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{logger: logger, companies: companies}
}

// List maneja GET /companies?search=&tab=. Sin tab se muestra "complete", como el dashboard.
func (h *CompanyHandler) List(c *gin.Context) {
	tab := c.DefaultQuery("tab", service.TabComplete)
	list, err := h.companies.List(c.Request.Context(), service.ListCompaniesInput{
		Search: c.Query("search"),
		Tab:    tab,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTab) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tab"})
			return
		}
		h.logger.Error("list companies failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list companies"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get maneja GET /companies/:companyId.
func (h *CompanyHandler) Get(c *gin.Context) {
	detail, err := h.companies.Get(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}
		h.logger.Error("get company failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load company"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": detail})
}

// Export maneja GET /companies/:companyId/export.
func (h *CompanyHandler) Export(c *gin.Context) {
	companyID := c.Param("companyId")
	var buf bytes.Buffer
	if err := h.companies.ExportTransactions(c.Request.Context(), companyID, &buf); err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}
		h.logger.Error("export company failed", zap.Error(err), zap.String("company_id", companyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export company"})
		return
	}

	filename := fmt.Sprintf("%s_transactions_%s.xlsx", companyID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	// jsonContentTypeMiddleware ya fijo application/json.
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
