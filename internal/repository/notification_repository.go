package repository

import (
	"context"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new notification. The refresh job only ever creates
// notifications; read-state is mutated by the user through MarkAsRead.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	query := `
		INSERT INTO notifications (id, user_id, symbol, type, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Symbol,
		n.Type,
		n.Message,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.Error(err),
			zap.String("user_id", n.UserID),
			zap.String("symbol", n.Symbol))
		return err
	}

	return nil
}

// ListByUser retrieves a user's notifications, newest first, with pagination
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, symbol, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var notifications []model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list notifications",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, err
	}

	return notifications, nil
}

// CountByUser counts all notifications for a user
func (r *NotificationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		r.logger.Error("Failed to count notifications", zap.Error(err))
		return 0, err
	}

	return count, nil
}

// CountUnread counts unread notifications for a user
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		r.logger.Error("Failed to count unread notifications", zap.Error(err))
		return 0, err
	}

	return count, nil
}

// MarkAsRead marks one of the user's notifications as read.
// Returns false when the notification does not exist or belongs to another user.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, notificationID, userID string) (bool, error) {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		r.logger.Error("Failed to mark notification as read",
			zap.Error(err),
			zap.String("notification_id", notificationID))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// MarkAllAsRead marks all of a user's notifications as read and returns the
// number of rows updated
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE user_id = $1 AND is_read = false
	`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to mark all notifications as read",
			zap.Error(err),
			zap.String("user_id", userID))
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}
