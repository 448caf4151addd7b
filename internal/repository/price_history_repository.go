package repository

import (
	"context"
	"fmt"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PriceHistoryRepository handles database operations for historical price points
type PriceHistoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *sqlx.DB, logger *zap.Logger) *PriceHistoryRepository {
	return &PriceHistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts a new historical price point. The table is append-only:
// there is no uniqueness constraint and rows are never updated or deleted
// by this service.
func (r *PriceHistoryRepository) Append(ctx context.Context, point model.PricePoint) error {
	if point.ID == "" {
		point.ID = uuid.New().String()
	}

	query := `
		INSERT INTO price_history (id, symbol, price, close_price, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		point.ID,
		point.Symbol,
		point.Price,
		point.ClosePrice,
		point.RecordedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append price point",
			zap.Error(err),
			zap.String("symbol", point.Symbol))
		return err
	}

	return nil
}

// GetRange retrieves historical price points for a symbol, newest first,
// with optional date bounds and pagination
func (r *PriceHistoryRepository) GetRange(
	ctx context.Context,
	q model.PriceHistoryQuery,
	limit int,
	offset int,
) ([]model.PricePoint, error) {
	query := `
		SELECT id, symbol, price, close_price, recorded_at
		FROM price_history
		WHERE symbol = $1
	`

	args := []interface{}{q.Symbol}
	argCount := 2

	if q.StartDate != nil {
		query += fmt.Sprintf(" AND recorded_at >= $%d", argCount)
		args = append(args, *q.StartDate)
		argCount++
	}

	if q.EndDate != nil {
		query += fmt.Sprintf(" AND recorded_at <= $%d", argCount)
		args = append(args, *q.EndDate)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, offset)

	var points []model.PricePoint
	err := r.db.SelectContext(ctx, &points, query, args...)
	if err != nil {
		r.logger.Error("Failed to get price history",
			zap.Error(err),
			zap.String("symbol", q.Symbol))
		return nil, err
	}

	return points, nil
}

// CountRange counts historical price points matching the query, for pagination
func (r *PriceHistoryRepository) CountRange(ctx context.Context, q model.PriceHistoryQuery) (int, error) {
	query := `SELECT COUNT(*) FROM price_history WHERE symbol = $1`

	args := []interface{}{q.Symbol}
	argCount := 2

	if q.StartDate != nil {
		query += fmt.Sprintf(" AND recorded_at >= $%d", argCount)
		args = append(args, *q.StartDate)
		argCount++
	}

	if q.EndDate != nil {
		query += fmt.Sprintf(" AND recorded_at <= $%d", argCount)
		args = append(args, *q.EndDate)
	}

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count price history",
			zap.Error(err),
			zap.String("symbol", q.Symbol))
		return 0, err
	}

	return count, nil
}
