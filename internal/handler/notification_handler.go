package handler

import (
	"net/http"

	"github.com/yourorg/portfolio-tracker/internal/middleware"
	"github.com/yourorg/portfolio-tracker/internal/service"
	"github.com/yourorg/portfolio-tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications handles listing the caller's notifications, newest first
// GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := utils.ParsePaginationParams(c, 20, 100)

	response, err := h.notificationService.List(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, response)
}

// MarkAsRead handles marking a single notification as read
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notificationID := c.Param("id")
	if _, err := uuid.Parse(notificationID); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	marked, err := h.notificationService.MarkAsRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		h.logger.Error("Failed to mark notification as read",
			zap.Error(err),
			zap.String("notification_id", notificationID))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}
	if !marked {
		utils.SendErrorResponse(c, http.StatusNotFound, "Notification not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllAsRead handles marking all of the caller's notifications as read
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	response, err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to mark all notifications as read", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to mark notifications as read")
		return
	}

	c.JSON(http.StatusOK, response)
}
