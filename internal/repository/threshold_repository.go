package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ThresholdRepository handles database operations for alert thresholds
type ThresholdRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewThresholdRepository creates a new threshold repository
func NewThresholdRepository(db *sqlx.DB, logger *zap.Logger) *ThresholdRepository {
	return &ThresholdRepository{
		db:     db,
		logger: logger,
	}
}

// GetForUserSymbol retrieves the threshold a user configured for a symbol.
// At most one row exists per (user, symbol); returns (nil, nil) when none does.
func (r *ThresholdRepository) GetForUserSymbol(ctx context.Context, userID, symbol string) (*model.AlertThreshold, error) {
	query := `
		SELECT id, user_id, symbol, threshold_percent, created_at, updated_at
		FROM alert_thresholds
		WHERE user_id = $1 AND symbol = $2
	`

	var threshold model.AlertThreshold
	err := r.db.GetContext(ctx, &threshold, query, userID, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get alert threshold",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("symbol", symbol))
		return nil, err
	}

	return &threshold, nil
}

// ListByUser retrieves all thresholds configured by a user
func (r *ThresholdRepository) ListByUser(ctx context.Context, userID string) ([]model.AlertThreshold, error) {
	query := `
		SELECT id, user_id, symbol, threshold_percent, created_at, updated_at
		FROM alert_thresholds
		WHERE user_id = $1
		ORDER BY symbol
	`

	var thresholds []model.AlertThreshold
	err := r.db.SelectContext(ctx, &thresholds, query, userID)
	if err != nil {
		r.logger.Error("Failed to list alert thresholds",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, err
	}

	return thresholds, nil
}

// Upsert creates or replaces a user's threshold for a symbol, keyed by the
// (user_id, symbol) uniqueness constraint
func (r *ThresholdRepository) Upsert(ctx context.Context, userID string, upsert model.ThresholdUpsert) (*model.AlertThreshold, error) {
	query := `
		INSERT INTO alert_thresholds (id, user_id, symbol, threshold_percent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, symbol)
		DO UPDATE SET
			threshold_percent = EXCLUDED.threshold_percent,
			updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, symbol, threshold_percent, created_at, updated_at
	`

	var threshold model.AlertThreshold
	err := r.db.GetContext(ctx, &threshold, query,
		uuid.New().String(),
		userID,
		upsert.Symbol,
		upsert.ThresholdPercent,
		time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert alert threshold",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("symbol", upsert.Symbol))
		return nil, err
	}

	return &threshold, nil
}

// Delete removes a user's threshold for a symbol. Returns false when no row matched.
func (r *ThresholdRepository) Delete(ctx context.Context, userID, symbol string) (bool, error) {
	query := `DELETE FROM alert_thresholds WHERE user_id = $1 AND symbol = $2`

	result, err := r.db.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		r.logger.Error("Failed to delete alert threshold",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("symbol", symbol))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
