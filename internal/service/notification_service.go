package service

import (
	"context"

	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/repository"

	"go.uber.org/zap"
)

// NotificationService handles read and mark-as-read access to notifications
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List retrieves a page of the caller's notifications with total and unread counts
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (*model.NotificationListResponse, error) {
	total, err := s.notificationRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	}, nil
}

// MarkAsRead marks one of the caller's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID string) (bool, error) {
	return s.notificationRepo.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllAsRead marks all of the caller's notifications as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (*model.NotificationMarkResponse, error) {
	count, err := s.notificationRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.NotificationMarkResponse{
		Success:     true,
		MarkedCount: count,
	}, nil
}
