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

// PortfolioRepository handles database operations for portfolios
type PortfolioRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *sqlx.DB, logger *zap.Logger) *PortfolioRepository {
	return &PortfolioRepository{
		db:     db,
		logger: logger,
	}
}

// ListByUser retrieves all portfolios owned by a user
func (r *PortfolioRepository) ListByUser(ctx context.Context, userID string) ([]model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY created_at
	`

	var portfolios []model.Portfolio
	err := r.db.SelectContext(ctx, &portfolios, query, userID)
	if err != nil {
		r.logger.Error("Failed to list portfolios",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, err
	}

	return portfolios, nil
}

// GetByID retrieves one portfolio. Returns (nil, nil) when it does not exist.
func (r *PortfolioRepository) GetByID(ctx context.Context, portfolioID string) (*model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM portfolios
		WHERE id = $1
	`

	var portfolio model.Portfolio
	err := r.db.GetContext(ctx, &portfolio, query, portfolioID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get portfolio",
			zap.Error(err),
			zap.String("portfolio_id", portfolioID))
		return nil, err
	}

	return &portfolio, nil
}

// Create inserts a new portfolio for a user
func (r *PortfolioRepository) Create(ctx context.Context, userID, name string) (*model.Portfolio, error) {
	portfolio := model.Portfolio{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO portfolios (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		portfolio.ID,
		portfolio.UserID,
		portfolio.Name,
		portfolio.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create portfolio",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, err
	}

	return &portfolio, nil
}
