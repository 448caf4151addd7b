package handler

import (
	"net/http"

	"github.com/yourorg/portfolio-tracker/internal/service"
	"github.com/yourorg/portfolio-tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditHandler handles admin access to the audit log
type AuditHandler struct {
	auditService *service.AuditService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// ListAuditEntries handles listing audit entries, newest first
// GET /api/v1/admin/audit-log
func (h *AuditHandler) ListAuditEntries(c *gin.Context) {
	params := utils.ParsePaginationParams(c, 50, 200)

	entries, total, err := h.auditService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		h.logger.Error("Failed to list audit entries", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to list audit entries")
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, entries, total, params.Page, params.Limit)
}
