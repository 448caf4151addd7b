package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"go.uber.org/zap"
)

// SystemUserID attributes scheduler-initiated refresh runs in the audit log
const SystemUserID = "system"

// Refresh response notes
const (
	noteNoSymbols     = "no symbols to update"
	noteAllUpdated    = "all symbols updated"
	notePartialUpdate = "some symbols could not be updated due to API availability"
)

// RefreshService orchestrates the market data refresh job: it resolves the
// relevant symbol set, fetches quotes under the provider rate limit, persists
// results and triggers threshold alerting, and writes one audit entry per
// invocation.
type RefreshService struct {
	provider QuoteProvider
	pacer    Pacer
	quotes   QuoteStore
	history  HistoryStore
	symbols  SymbolSource
	audits   AuditStore
	alerts   *AlertService
	logger   *zap.Logger
	now      func() time.Time
}

// NewRefreshService creates a new refresh service
func NewRefreshService(
	provider QuoteProvider,
	pacer Pacer,
	quotes QuoteStore,
	history HistoryStore,
	symbols SymbolSource,
	audits AuditStore,
	alerts *AlertService,
	logger *zap.Logger,
) *RefreshService {
	return &RefreshService{
		provider: provider,
		pacer:    pacer,
		quotes:   quotes,
		history:  history,
		symbols:  symbols,
		audits:   audits,
		alerts:   alerts,
		logger:   logger,
		now:      time.Now,
	}
}

// RefreshForUser refreshes the distinct symbols held across the caller's
// portfolios. The caller is already authenticated; an unidentifiable caller
// never reaches this method.
func (s *RefreshService) RefreshForUser(ctx context.Context, userID string) (*model.RefreshResponse, error) {
	symbols, err := s.symbols.DistinctSymbolsForUser(ctx, userID)
	if err != nil {
		// Prerequisite failure: the audit trail still records the attempt.
		s.writeAudit(ctx, userID, nil, 0, http.StatusInternalServerError)
		return nil, err
	}

	return s.run(ctx, userID, symbols)
}

// RefreshAllSymbols refreshes the distinct symbol set across every portfolio.
// Used by the scheduler; the run is attributed to the system user.
func (s *RefreshService) RefreshAllSymbols(ctx context.Context) (*model.RefreshResponse, error) {
	symbols, err := s.symbols.DistinctSymbols(ctx)
	if err != nil {
		s.writeAudit(ctx, SystemUserID, nil, 0, http.StatusInternalServerError)
		return nil, err
	}

	return s.run(ctx, SystemUserID, symbols)
}

// run executes the fetch loop over an already-resolved symbol set
func (s *RefreshService) run(ctx context.Context, userID string, symbols []string) (*model.RefreshResponse, error) {
	if len(symbols) == 0 {
		s.writeAudit(ctx, userID, symbols, 0, http.StatusOK)
		return &model.RefreshResponse{
			Success: true,
			Updated: 0,
			Symbols: []string{},
			Source:  s.provider.Name(),
			Note:    noteNoSymbols,
		}, nil
	}

	// One batched read seeds the "old price" for alert evaluation before any
	// row is overwritten.
	previous, err := s.quotes.GetBySymbols(ctx, symbols)
	if err != nil {
		s.writeAudit(ctx, userID, symbols, 0, http.StatusInternalServerError)
		return nil, err
	}

	report := &model.RefreshReport{Requested: symbols}

	for i, symbol := range symbols {
		if i > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				// Only fires when the surrounding context is gone. The
				// remaining symbols are recorded as skipped and the partial
				// result stands.
				s.logger.Warn("Pacing interrupted, abandoning remaining symbols",
					zap.Error(err),
					zap.Int("remaining", len(symbols)-i))
				for _, rest := range symbols[i:] {
					report.Outcomes = append(report.Outcomes, model.SymbolOutcome{
						Symbol: rest,
						Reason: model.SkipReasonCancelled,
					})
				}
				break
			}
		}

		report.Outcomes = append(report.Outcomes, s.refreshSymbol(ctx, symbol, previous))
	}

	updated := report.UpdatedCount()
	s.writeAudit(ctx, userID, symbols, updated, http.StatusOK)

	note := noteAllUpdated
	if updated < len(symbols) {
		note = notePartialUpdate
	}

	s.logger.Info("Market data refresh completed",
		zap.String("user_id", userID),
		zap.Int("requested", len(symbols)),
		zap.Int("updated", updated))

	return &model.RefreshResponse{
		Success: true,
		Updated: updated,
		Symbols: symbols,
		Source:  s.provider.Name(),
		Note:    note,
	}, nil
}

// refreshSymbol fetches and persists one symbol. Every failure is local:
// the outcome records the reason and the batch moves on.
func (s *RefreshService) refreshSymbol(ctx context.Context, symbol string, previous map[string]model.Quote) model.SymbolOutcome {
	quote, err := s.provider.GetQuote(ctx, symbol)
	if err != nil {
		s.logger.Warn("Skipping symbol after fetch failure",
			zap.Error(err),
			zap.String("symbol", symbol))
		return model.SymbolOutcome{Symbol: symbol, Reason: model.SkipReasonFetchError}
	}
	if quote == nil {
		return model.SymbolOutcome{Symbol: symbol, Reason: model.SkipReasonNoData}
	}

	// First observation: the new price doubles as the old one, so the
	// computed change is zero and no alert can fire.
	oldPrice := quote.Price
	if prev, ok := previous[symbol]; ok {
		oldPrice = prev.Price
	}

	now := s.now().UTC()

	err = s.quotes.Upsert(ctx, model.Quote{
		Symbol:        symbol,
		Price:         quote.Price,
		ChangePercent: quote.ChangePercent,
		UpdatedAt:     now,
	})
	if err != nil {
		s.logger.Warn("Skipping symbol after quote upsert failure",
			zap.Error(err),
			zap.String("symbol", symbol))
		return model.SymbolOutcome{Symbol: symbol, Reason: model.SkipReasonStoreError}
	}

	// The provider exposes no OHLC, so close duplicates price for charting
	// continuity. A history failure leaves the quote row updated and the
	// symbol counted.
	err = s.history.Append(ctx, model.PricePoint{
		Symbol:     symbol,
		Price:      quote.Price,
		ClosePrice: quote.Price,
		RecordedAt: now,
	})
	if err != nil {
		s.logger.Warn("Failed to append history point",
			zap.Error(err),
			zap.String("symbol", symbol))
	}

	s.alerts.EvaluateSymbol(ctx, symbol, oldPrice, quote.Price)

	return model.SymbolOutcome{Symbol: symbol, Updated: true}
}

// writeAudit records exactly one audit entry per job invocation
func (s *RefreshService) writeAudit(ctx context.Context, userID string, symbols []string, updated, statusCode int) {
	details, err := json.Marshal(map[string]interface{}{
		"symbols": symbols,
		"updated": updated,
	})
	if err != nil {
		details = []byte("{}")
	}

	entry := &model.AuditEntry{
		UserID:       userID,
		Action:       model.AuditActionRefreshMarketData,
		ResourceType: "quotes",
		Details:      details,
		StatusCode:   statusCode,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.audits.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit entry",
			zap.Error(err),
			zap.String("user_id", userID))
	}
}
