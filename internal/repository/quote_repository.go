package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// QuoteRepository handles database operations for current quotes
type QuoteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sqlx.DB, logger *zap.Logger) *QuoteRepository {
	return &QuoteRepository{
		db:     db,
		logger: logger,
	}
}

// GetBySymbol retrieves the current quote for one symbol.
// Returns (nil, nil) when the symbol has never been quoted.
func (r *QuoteRepository) GetBySymbol(ctx context.Context, symbol string) (*model.Quote, error) {
	query := `
		SELECT symbol, price, change_percent, updated_at
		FROM quotes
		WHERE symbol = $1
	`

	var quote model.Quote
	err := r.db.GetContext(ctx, &quote, query, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get quote",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, err
	}

	return &quote, nil
}

// GetBySymbols retrieves current quotes for a set of symbols in one read.
// Symbols with no stored quote are simply absent from the result map.
func (r *QuoteRepository) GetBySymbols(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	if len(symbols) == 0 {
		return map[string]model.Quote{}, nil
	}

	query := `
		SELECT symbol, price, change_percent, updated_at
		FROM quotes
		WHERE symbol = ANY($1)
	`

	var quotes []model.Quote
	err := r.db.SelectContext(ctx, &quotes, query, pq.Array(symbols))
	if err != nil {
		r.logger.Error("Failed to get quotes",
			zap.Error(err),
			zap.Int("symbol_count", len(symbols)))
		return nil, err
	}

	result := make(map[string]model.Quote, len(quotes))
	for _, q := range quotes {
		result[q.Symbol] = q
	}

	return result, nil
}

// Upsert replaces the current quote row for a symbol in full. The conflict
// target is the symbol uniqueness constraint; every column is overwritten so
// the row always reflects the most recent successful fetch.
func (r *QuoteRepository) Upsert(ctx context.Context, quote model.Quote) error {
	query := `
		INSERT INTO quotes (symbol, price, change_percent, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol)
		DO UPDATE SET
			price = EXCLUDED.price,
			change_percent = EXCLUDED.change_percent,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		quote.Symbol,
		quote.Price,
		quote.ChangePercent,
		quote.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert quote",
			zap.Error(err),
			zap.String("symbol", quote.Symbol))
		return err
	}

	return nil
}
