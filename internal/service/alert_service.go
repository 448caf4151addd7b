package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"go.uber.org/zap"
)

// AlertService evaluates threshold alerts for price movements and creates
// the resulting notifications
type AlertService struct {
	thresholds    ThresholdStore
	notifications NotificationStore
	symbols       SymbolSource
	events        EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

// NewAlertService creates a new alert service. events may be nil when no
// message bus is configured.
func NewAlertService(
	thresholds ThresholdStore,
	notifications NotificationStore,
	symbols SymbolSource,
	events EventPublisher,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		thresholds:    thresholds,
		notifications: notifications,
		symbols:       symbols,
		events:        events,
		logger:        logger,
		now:           time.Now,
	}
}

// EvaluateSymbol runs threshold evaluation for every user whose portfolios
// hold the symbol. Each holder is evaluated and notified independently; one
// user's failure does not stop the rest.
func (s *AlertService) EvaluateSymbol(ctx context.Context, symbol string, oldPrice, newPrice float64) {
	holders, err := s.symbols.HoldersOfSymbol(ctx, symbol)
	if err != nil {
		s.logger.Error("Failed to resolve holders for alert evaluation",
			zap.Error(err),
			zap.String("symbol", symbol))
		return
	}

	for _, userID := range holders {
		if err := s.Evaluate(ctx, userID, symbol, oldPrice, newPrice); err != nil {
			s.logger.Error("Alert evaluation failed",
				zap.Error(err),
				zap.String("user_id", userID),
				zap.String("symbol", symbol))
		}
	}
}

// Evaluate decides whether the price movement crosses the user's configured
// threshold for the symbol and creates a notification when it does.
//
// A zero old price skips evaluation entirely: there is no meaningful
// percentage change from zero, and propagating Inf/NaN into a notification
// would be worse than staying silent. First observations pass old == new, so
// they never fire.
func (s *AlertService) Evaluate(ctx context.Context, userID, symbol string, oldPrice, newPrice float64) error {
	if oldPrice == 0 {
		return nil
	}

	changePercent := (newPrice - oldPrice) / oldPrice * 100

	threshold, err := s.thresholds.GetForUserSymbol(ctx, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to look up threshold: %w", err)
	}
	if threshold == nil {
		return nil
	}

	// Inclusive comparison: a change of exactly the configured percentage fires.
	if math.Abs(changePercent) < threshold.ThresholdPercent {
		return nil
	}

	message := fmt.Sprintf("%s price changed by %.2f%%: $%.2f → $%.2f",
		symbol, changePercent, oldPrice, newPrice)

	notification := &model.Notification{
		UserID:    userID,
		Symbol:    symbol,
		Type:      model.NotificationTypePriceAlert,
		Message:   message,
		IsRead:    false,
		CreatedAt: s.now().UTC(),
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("Price alert triggered",
		zap.String("user_id", userID),
		zap.String("symbol", symbol),
		zap.Float64("change_percent", changePercent),
		zap.Float64("threshold_percent", threshold.ThresholdPercent))

	if s.events != nil {
		event := model.PriceAlertEvent{
			UserID:        userID,
			Symbol:        symbol,
			OldPrice:      oldPrice,
			NewPrice:      newPrice,
			ChangePercent: changePercent,
			Message:       message,
			TriggeredAt:   notification.CreatedAt,
		}
		if err := s.events.PublishPriceAlert(ctx, event); err != nil {
			s.logger.Warn("Failed to publish price alert event",
				zap.Error(err),
				zap.String("symbol", symbol))
		}
	}

	return nil
}
