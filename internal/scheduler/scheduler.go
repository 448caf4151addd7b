package scheduler

import (
	"context"

	"github.com/yourorg/portfolio-tracker/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic all-symbol market data refresh
type Scheduler struct {
	cron    *cron.Cron
	refresh *service.RefreshService
	spec    string
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler. The spec uses six-field cron syntax
// (with seconds), e.g. "0 */30 9-16 * * 1-5" for every half hour during
// market hours on weekdays.
func NewScheduler(refresh *service.RefreshService, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		refresh: refresh,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the refresh job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runRefresh)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop stops the cron loop; running jobs finish their current symbol set
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runRefresh() {
	s.logger.Info("Scheduled market data refresh starting")

	resp, err := s.refresh.RefreshAllSymbols(context.Background())
	if err != nil {
		s.logger.Error("Scheduled refresh failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled market data refresh finished",
		zap.Int("updated", resp.Updated),
		zap.Int("requested", len(resp.Symbols)),
		zap.String("note", resp.Note))
}
