package service

import (
	"context"
	"testing"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"go.uber.org/zap"
)

type fakeEventPublisher struct {
	published []model.PriceAlertEvent
	err       error
}

func (p *fakeEventPublisher) PublishPriceAlert(ctx context.Context, event model.PriceAlertEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

type alertFixture struct {
	thresholds    *fakeThresholdStore
	notifications *fakeNotificationStore
	symbols       *fakeSymbolSource
	events        *fakeEventPublisher
	service       *AlertService
}

func newAlertFixture() *alertFixture {
	f := &alertFixture{
		thresholds:    &fakeThresholdStore{thresholds: make(map[string]*model.AlertThreshold)},
		notifications: &fakeNotificationStore{},
		symbols:       &fakeSymbolSource{holders: make(map[string][]string)},
		events:        &fakeEventPublisher{},
	}
	f.service = NewAlertService(f.thresholds, f.notifications, f.symbols, f.events, zap.NewNop())
	return f
}

func (f *alertFixture) setThreshold(userID, symbol string, percent float64) {
	f.thresholds.thresholds[userID+"|"+symbol] = &model.AlertThreshold{
		UserID:           userID,
		Symbol:           symbol,
		ThresholdPercent: percent,
	}
}

func TestEvaluate_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		oldPrice  float64
		newPrice  float64
		wantAlert bool
	}{
		{"change exactly at threshold fires", 5.00, 100.00, 105.00, true},
		{"change just below threshold stays silent", 5.01, 100.00, 105.00, false},
		{"change above threshold fires", 5.00, 100.00, 110.00, true},
		{"negative change compared by magnitude", 5.00, 100.00, 95.00, true},
		{"small negative change stays silent", 5.00, 100.00, 99.00, false},
		{"no movement stays silent", 5.00, 100.00, 100.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAlertFixture()
			f.setThreshold("user-1", "AAPL", tt.threshold)

			err := f.service.Evaluate(context.Background(), "user-1", "AAPL", tt.oldPrice, tt.newPrice)
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}

			gotAlert := len(f.notifications.created) == 1
			if gotAlert != tt.wantAlert {
				t.Errorf("alert fired = %v, want %v", gotAlert, tt.wantAlert)
			}
		})
	}
}

func TestEvaluate_ZeroOldPriceSkipsEvaluation(t *testing.T) {
	f := newAlertFixture()
	f.setThreshold("user-1", "AAPL", 0.01)

	err := f.service.Evaluate(context.Background(), "user-1", "AAPL", 0, 154.88)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if len(f.notifications.created) != 0 {
		t.Errorf("expected no alert for zero old price, got %d", len(f.notifications.created))
	}
}

func TestEvaluate_NoThresholdNoAction(t *testing.T) {
	f := newAlertFixture()

	err := f.service.Evaluate(context.Background(), "user-1", "AAPL", 100, 200)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if len(f.notifications.created) != 0 {
		t.Errorf("expected no alert without a threshold, got %d", len(f.notifications.created))
	}
}

func TestEvaluate_NotificationContents(t *testing.T) {
	f := newAlertFixture()
	f.setThreshold("user-1", "AAPL", 3.00)

	err := f.service.Evaluate(context.Background(), "user-1", "AAPL", 150.00, 154.88)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if len(f.notifications.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifications.created))
	}

	n := f.notifications.created[0]
	if n.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", n.UserID)
	}
	if n.Type != model.NotificationTypePriceAlert {
		t.Errorf("Type = %q, want %q", n.Type, model.NotificationTypePriceAlert)
	}
	if n.IsRead {
		t.Error("new notification must be unread")
	}
	want := "AAPL price changed by 3.25%: $150.00 → $154.88"
	if n.Message != want {
		t.Errorf("Message = %q, want %q", n.Message, want)
	}
}

func TestEvaluate_NegativeChangeMessage(t *testing.T) {
	f := newAlertFixture()
	f.setThreshold("user-1", "TSLA", 2.00)

	err := f.service.Evaluate(context.Background(), "user-1", "TSLA", 200.00, 190.00)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if len(f.notifications.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifications.created))
	}
	want := "TSLA price changed by -5.00%: $200.00 → $190.00"
	if got := f.notifications.created[0].Message; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
}

func TestEvaluate_PublishesEvent(t *testing.T) {
	f := newAlertFixture()
	f.setThreshold("user-1", "AAPL", 5.00)

	err := f.service.Evaluate(context.Background(), "user-1", "AAPL", 100, 110)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if len(f.events.published) != 1 {
		t.Fatalf("events published = %d, want 1", len(f.events.published))
	}
	event := f.events.published[0]
	if event.Symbol != "AAPL" || event.OldPrice != 100 || event.NewPrice != 110 {
		t.Errorf("unexpected event contents: %+v", event)
	}
}

func TestEvaluate_PublishFailureDoesNotFailEvaluation(t *testing.T) {
	f := newAlertFixture()
	f.setThreshold("user-1", "AAPL", 5.00)
	f.events.err = context.DeadlineExceeded

	err := f.service.Evaluate(context.Background(), "user-1", "AAPL", 100, 110)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	// The stored notification is the source of truth.
	if len(f.notifications.created) != 1 {
		t.Errorf("notifications = %d, want 1", len(f.notifications.created))
	}
}

func TestEvaluateSymbol_OneHolderFailureDoesNotStopOthers(t *testing.T) {
	f := newAlertFixture()
	f.symbols.holders["AAPL"] = []string{"user-1", "user-2"}
	f.setThreshold("user-1", "AAPL", 5.00)
	f.setThreshold("user-2", "AAPL", 5.00)

	f.service.EvaluateSymbol(context.Background(), "AAPL", 100, 110)

	if len(f.notifications.created) != 2 {
		t.Errorf("notifications = %d, want 2", len(f.notifications.created))
	}
}
