package service

import (
	"context"
	"errors"
	"sort"

	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/repository"

	"go.uber.org/zap"
)

// Portfolio service errors
var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrNotPortfolioOwner = errors.New("portfolio belongs to another user")
)

// PortfolioService handles portfolios, the transaction ledger and computed holdings
type PortfolioService struct {
	portfolioRepo   *repository.PortfolioRepository
	transactionRepo *repository.TransactionRepository
	quoteRepo       *repository.QuoteRepository
	logger          *zap.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	transactionRepo *repository.TransactionRepository,
	quoteRepo *repository.QuoteRepository,
	logger *zap.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:   portfolioRepo,
		transactionRepo: transactionRepo,
		quoteRepo:       quoteRepo,
		logger:          logger,
	}
}

// ListPortfolios retrieves the caller's portfolios
func (s *PortfolioService) ListPortfolios(ctx context.Context, userID string) ([]model.Portfolio, error) {
	return s.portfolioRepo.ListByUser(ctx, userID)
}

// CreatePortfolio creates a new portfolio for the caller
func (s *PortfolioService) CreatePortfolio(ctx context.Context, userID string, create model.PortfolioCreate) (*model.Portfolio, error) {
	return s.portfolioRepo.Create(ctx, userID, create.Name)
}

// RecordTransaction appends a buy or sell to one of the caller's portfolios
func (s *PortfolioService) RecordTransaction(
	ctx context.Context,
	userID, portfolioID string,
	create model.TransactionCreate,
) (*model.Transaction, error) {
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}

	return s.transactionRepo.Create(ctx, portfolioID, create)
}

// ListTransactions retrieves the ledger of one of the caller's portfolios
func (s *PortfolioService) ListTransactions(ctx context.Context, userID, portfolioID string) ([]model.Transaction, error) {
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}

	return s.transactionRepo.ListByPortfolio(ctx, portfolioID)
}

// GetHoldings computes the current positions of one of the caller's
// portfolios from its transaction ledger, valued against stored quotes
func (s *PortfolioService) GetHoldings(ctx context.Context, userID, portfolioID string) (*model.HoldingsResponse, error) {
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	symbolSet := make(map[string]bool)
	symbols := make([]string, 0)
	for _, tx := range transactions {
		if !symbolSet[tx.Symbol] {
			symbolSet[tx.Symbol] = true
			symbols = append(symbols, tx.Symbol)
		}
	}

	quotes, err := s.quoteRepo.GetBySymbols(ctx, symbols)
	if err != nil {
		return nil, err
	}

	holdings := ComputeHoldings(transactions, quotes)

	response := &model.HoldingsResponse{
		PortfolioID: portfolioID,
		Holdings:    holdings,
	}
	for _, h := range holdings {
		response.TotalValue += h.MarketValue
		response.TotalCost += h.CostBasis
		response.UnrealizedPL += h.UnrealizedPL
		response.RealizedPL += h.RealizedPL
	}

	return response, nil
}

// ownedPortfolio loads a portfolio and verifies the caller owns it
func (s *PortfolioService) ownedPortfolio(ctx context.Context, userID, portfolioID string) (*model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, ErrPortfolioNotFound
	}
	if portfolio.UserID != userID {
		return nil, ErrNotPortfolioOwner
	}
	return portfolio, nil
}

// ComputeHoldings aggregates a transaction ledger into per-symbol positions
// using the average-cost method. Sells realize P&L against the running
// average cost; positions that net to zero shares are dropped. Transactions
// must be ordered by execution time. Symbols with no stored quote are valued
// at their average cost, so unrealized P&L reads as zero rather than as a
// fictitious total loss.
func ComputeHoldings(transactions []model.Transaction, quotes map[string]model.Quote) []model.Holding {
	type position struct {
		shares     float64
		costBasis  float64
		realizedPL float64
	}

	positions := make(map[string]*position)

	for _, tx := range transactions {
		pos := positions[tx.Symbol]
		if pos == nil {
			pos = &position{}
			positions[tx.Symbol] = pos
		}

		switch tx.Side {
		case model.TransactionBuy:
			pos.shares += tx.Shares
			pos.costBasis += tx.Shares * tx.Price
		case model.TransactionSell:
			if pos.shares <= 0 {
				continue
			}
			shares := tx.Shares
			if shares > pos.shares {
				shares = pos.shares
			}
			avgCost := pos.costBasis / pos.shares
			pos.realizedPL += shares * (tx.Price - avgCost)
			pos.costBasis -= shares * avgCost
			pos.shares -= shares
		}
	}

	holdings := make([]model.Holding, 0, len(positions))
	for symbol, pos := range positions {
		if pos.shares <= 0 {
			continue
		}

		avgCost := pos.costBasis / pos.shares

		lastPrice := avgCost
		if q, ok := quotes[symbol]; ok {
			lastPrice = q.Price
		}

		marketValue := pos.shares * lastPrice
		unrealizedPL := marketValue - pos.costBasis

		var unrealizedPLPct float64
		if pos.costBasis != 0 {
			unrealizedPLPct = unrealizedPL / pos.costBasis * 100
		}

		holdings = append(holdings, model.Holding{
			Symbol:          symbol,
			Shares:          pos.shares,
			AvgCost:         avgCost,
			CostBasis:       pos.costBasis,
			LastPrice:       lastPrice,
			MarketValue:     marketValue,
			UnrealizedPL:    unrealizedPL,
			UnrealizedPLPct: unrealizedPLPct,
			RealizedPL:      pos.realizedPL,
		})
	}

	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Symbol < holdings[j].Symbol
	})

	return holdings
}
