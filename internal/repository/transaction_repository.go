package repository

import (
	"context"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TransactionRepository handles database operations for the transaction ledger
type TransactionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sqlx.DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a buy or sell transaction against a portfolio
func (r *TransactionRepository) Create(ctx context.Context, portfolioID string, create model.TransactionCreate) (*model.Transaction, error) {
	now := time.Now().UTC()

	executedAt := now
	if create.ExecutedAt != nil {
		executedAt = *create.ExecutedAt
	}

	tx := model.Transaction{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		Symbol:      create.Symbol,
		Side:        create.Side,
		Shares:      create.Shares,
		Price:       create.Price,
		ExecutedAt:  executedAt,
		CreatedAt:   now,
	}

	query := `
		INSERT INTO transactions (id, portfolio_id, symbol, side, shares, price, executed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.PortfolioID,
		tx.Symbol,
		tx.Side,
		tx.Shares,
		tx.Price,
		tx.ExecutedAt,
		tx.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("portfolio_id", portfolioID),
			zap.String("symbol", create.Symbol))
		return nil, err
	}

	return &tx, nil
}

// ListByPortfolio retrieves a portfolio's transactions in execution order
func (r *TransactionRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]model.Transaction, error) {
	query := `
		SELECT id, portfolio_id, symbol, side, shares, price, executed_at, created_at
		FROM transactions
		WHERE portfolio_id = $1
		ORDER BY executed_at, created_at
	`

	var transactions []model.Transaction
	err := r.db.SelectContext(ctx, &transactions, query, portfolioID)
	if err != nil {
		r.logger.Error("Failed to list transactions",
			zap.Error(err),
			zap.String("portfolio_id", portfolioID))
		return nil, err
	}

	return transactions, nil
}

// DistinctSymbolsForUser resolves the distinct set of symbols appearing in
// transactions across all of one user's portfolios, in deterministic order
func (r *TransactionRepository) DistinctSymbolsForUser(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT DISTINCT t.symbol
		FROM transactions t
		JOIN portfolios p ON p.id = t.portfolio_id
		WHERE p.user_id = $1
		ORDER BY t.symbol
	`

	var symbols []string
	err := r.db.SelectContext(ctx, &symbols, query, userID)
	if err != nil {
		r.logger.Error("Failed to resolve user symbols",
			zap.Error(err),
			zap.String("user_id", userID))
		return nil, err
	}

	return symbols, nil
}

// DistinctSymbols resolves the distinct symbol set across every portfolio,
// used by the scheduled all-symbol refresh
func (r *TransactionRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM transactions
		ORDER BY symbol
	`

	var symbols []string
	err := r.db.SelectContext(ctx, &symbols, query)
	if err != nil {
		r.logger.Error("Failed to resolve symbol universe", zap.Error(err))
		return nil, err
	}

	return symbols, nil
}

// HoldersOfSymbol resolves the distinct users whose portfolios contain
// transactions for a symbol. Each holder is evaluated independently for
// threshold alerts.
func (r *TransactionRepository) HoldersOfSymbol(ctx context.Context, symbol string) ([]string, error) {
	query := `
		SELECT DISTINCT p.user_id
		FROM transactions t
		JOIN portfolios p ON p.id = t.portfolio_id
		WHERE t.symbol = $1
		ORDER BY p.user_id
	`

	var userIDs []string
	err := r.db.SelectContext(ctx, &userIDs, query, symbol)
	if err != nil {
		r.logger.Error("Failed to resolve symbol holders",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, err
	}

	return userIDs, nil
}
