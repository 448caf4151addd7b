package service

import (
	"context"

	"github.com/yourorg/portfolio-tracker/internal/model"
)

// Collaborator contracts for the refresh job and the alert evaluator. The
// concrete implementations live in internal/client, internal/ratelimit,
// internal/repository and internal/kafka; tests substitute in-memory fakes.

// QuoteProvider fetches current quotes from the external market data API
type QuoteProvider interface {
	// Name identifies the provider in responses and audit entries
	Name() string
	// GetQuote returns (nil, nil) when the provider has no usable data for
	// the symbol, and an error only for request-level failures.
	GetQuote(ctx context.Context, symbol string) (*model.ProviderQuote, error)
}

// Pacer enforces the provider's request-rate ceiling between fetches
type Pacer interface {
	Wait(ctx context.Context) error
}

// QuoteStore persists current quotes, one row per symbol
type QuoteStore interface {
	GetBySymbols(ctx context.Context, symbols []string) (map[string]model.Quote, error)
	Upsert(ctx context.Context, quote model.Quote) error
}

// HistoryStore appends historical price points
type HistoryStore interface {
	Append(ctx context.Context, point model.PricePoint) error
}

// SymbolSource resolves which symbols a refresh run covers and who holds them
type SymbolSource interface {
	DistinctSymbolsForUser(ctx context.Context, userID string) ([]string, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
	HoldersOfSymbol(ctx context.Context, symbol string) ([]string, error)
}

// ThresholdStore reads user-configured alert thresholds
type ThresholdStore interface {
	GetForUserSymbol(ctx context.Context, userID, symbol string) (*model.AlertThreshold, error)
}

// NotificationStore persists notifications created by the alert evaluator
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

// AuditStore persists one audit entry per job invocation
type AuditStore interface {
	Create(ctx context.Context, entry *model.AuditEntry) error
}

// EventPublisher pushes price alert events to the message bus. Publishing is
// best-effort: the stored notification is the source of truth.
type EventPublisher interface {
	PublishPriceAlert(ctx context.Context, event model.PriceAlertEvent) error
}
