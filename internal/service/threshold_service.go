package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/repository"

	"go.uber.org/zap"
)

// ErrThresholdNotFound is returned when a user has no threshold for a symbol
var ErrThresholdNotFound = errors.New("alert threshold not found")

// ThresholdService handles user management of alert thresholds
type ThresholdService struct {
	thresholdRepo *repository.ThresholdRepository
	logger        *zap.Logger
}

// NewThresholdService creates a new threshold service
func NewThresholdService(thresholdRepo *repository.ThresholdRepository, logger *zap.Logger) *ThresholdService {
	return &ThresholdService{
		thresholdRepo: thresholdRepo,
		logger:        logger,
	}
}

// List retrieves the caller's thresholds
func (s *ThresholdService) List(ctx context.Context, userID string) ([]model.AlertThreshold, error) {
	thresholds, err := s.thresholdRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if thresholds == nil {
		thresholds = []model.AlertThreshold{}
	}
	return thresholds, nil
}

// Upsert creates or replaces the caller's threshold for a symbol
func (s *ThresholdService) Upsert(ctx context.Context, userID string, upsert model.ThresholdUpsert) (*model.AlertThreshold, error) {
	upsert.Symbol = strings.ToUpper(upsert.Symbol)
	return s.thresholdRepo.Upsert(ctx, userID, upsert)
}

// Delete removes the caller's threshold for a symbol
func (s *ThresholdService) Delete(ctx context.Context, userID, symbol string) error {
	deleted, err := s.thresholdRepo.Delete(ctx, userID, strings.ToUpper(symbol))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrThresholdNotFound
	}
	return nil
}
