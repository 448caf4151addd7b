package service

import (
	"context"
	"errors"

	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/repository"

	"go.uber.org/zap"
)

// ErrQuoteNotFound is returned when no quote has been stored for a symbol
var ErrQuoteNotFound = errors.New("quote not found")

// MarketDataService handles read access to quotes and price history
type MarketDataService struct {
	quoteRepo   *repository.QuoteRepository
	historyRepo *repository.PriceHistoryRepository
	logger      *zap.Logger
}

// NewMarketDataService creates a new market data service
func NewMarketDataService(
	quoteRepo *repository.QuoteRepository,
	historyRepo *repository.PriceHistoryRepository,
	logger *zap.Logger,
) *MarketDataService {
	return &MarketDataService{
		quoteRepo:   quoteRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// GetQuote retrieves the current quote for one symbol
func (s *MarketDataService) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}

	quote, err := s.quoteRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}

	return quote, nil
}

// GetQuotes retrieves current quotes for a set of symbols. Symbols with no
// stored quote are absent from the result.
func (s *MarketDataService) GetQuotes(ctx context.Context, symbols []string) ([]model.Quote, error) {
	if len(symbols) == 0 {
		return nil, errors.New("at least one symbol is required")
	}

	bySymbol, err := s.quoteRepo.GetBySymbols(ctx, symbols)
	if err != nil {
		return nil, err
	}

	// Preserve request order in the response
	quotes := make([]model.Quote, 0, len(bySymbol))
	for _, symbol := range symbols {
		if q, ok := bySymbol[symbol]; ok {
			quotes = append(quotes, q)
		}
	}

	return quotes, nil
}

// GetHistory retrieves historical price points for charting, with pagination
func (s *MarketDataService) GetHistory(
	ctx context.Context,
	query model.PriceHistoryQuery,
	page, limit int,
) ([]model.PricePoint, int, error) {
	if query.Symbol == "" {
		return nil, 0, errors.New("symbol is required")
	}

	total, err := s.historyRepo.CountRange(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	points, err := s.historyRepo.GetRange(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return points, total, nil
}
