package handler

import (
	"net/http"

	"github.com/yourorg/portfolio-tracker/internal/middleware"
	"github.com/yourorg/portfolio-tracker/internal/service"
	"github.com/yourorg/portfolio-tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefreshHandler handles market data refresh HTTP requests
type RefreshHandler struct {
	refreshService *service.RefreshService
	logger         *zap.Logger
}

// NewRefreshHandler creates a new refresh handler
func NewRefreshHandler(refreshService *service.RefreshService, logger *zap.Logger) *RefreshHandler {
	return &RefreshHandler{
		refreshService: refreshService,
		logger:         logger,
	}
}

// RefreshMarketData runs the refresh job over the caller's portfolio symbols
// POST /api/v1/market-data/refresh
func (h *RefreshHandler) RefreshMarketData(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	response, err := h.refreshService.RefreshForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Market data refresh failed",
			zap.Error(err),
			zap.String("user_id", userID))
		utils.SendErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, response)
}

// RefreshAllMarketData runs the refresh job over every portfolio symbol.
// Admin only; the scheduler uses the same path internally.
// POST /api/v1/admin/market-data/refresh-all
func (h *RefreshHandler) RefreshAllMarketData(c *gin.Context) {
	response, err := h.refreshService.RefreshAllSymbols(c.Request.Context())
	if err != nil {
		h.logger.Error("Full market data refresh failed", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, response)
}
