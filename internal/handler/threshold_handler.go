package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yourorg/portfolio-tracker/internal/middleware"
	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/service"
	"github.com/yourorg/portfolio-tracker/internal/utils"
	"github.com/yourorg/portfolio-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ThresholdHandler handles alert threshold HTTP requests
type ThresholdHandler struct {
	thresholdService *service.ThresholdService
	logger           *zap.Logger
}

// NewThresholdHandler creates a new threshold handler
func NewThresholdHandler(thresholdService *service.ThresholdService, logger *zap.Logger) *ThresholdHandler {
	return &ThresholdHandler{
		thresholdService: thresholdService,
		logger:           logger,
	}
}

// ListThresholds handles listing the caller's alert thresholds
// GET /api/v1/alert-thresholds
func (h *ThresholdHandler) ListThresholds(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	thresholds, err := h.thresholdService.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list thresholds", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to list alert thresholds")
		return
	}

	c.JSON(http.StatusOK, gin.H{"thresholds": thresholds})
}

// UpsertThreshold handles creating or replacing a threshold for a symbol
// PUT /api/v1/alert-thresholds
func (h *ThresholdHandler) UpsertThreshold(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request model.ThresholdUpsert
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	threshold, err := h.thresholdService.Upsert(c.Request.Context(), userID, request)
	if err != nil {
		h.logger.Error("Failed to upsert threshold",
			zap.Error(err),
			zap.String("symbol", request.Symbol))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to save alert threshold")
		return
	}

	c.JSON(http.StatusOK, threshold)
}

// DeleteThreshold handles removing the caller's threshold for a symbol
// DELETE /api/v1/alert-thresholds/:symbol
func (h *ThresholdHandler) DeleteThreshold(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	if !validator.IsTicker(symbol) {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid symbol")
		return
	}

	err := h.thresholdService.Delete(c.Request.Context(), userID, symbol)
	if errors.Is(err, service.ErrThresholdNotFound) {
		utils.SendErrorResponse(c, http.StatusNotFound, "Alert threshold not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete threshold",
			zap.Error(err),
			zap.String("symbol", symbol))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to delete alert threshold")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
