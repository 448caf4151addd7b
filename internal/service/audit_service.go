package service

import (
	"context"

	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/repository"

	"go.uber.org/zap"
)

// AuditService handles admin access to the audit log
type AuditService struct {
	auditRepo *repository.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo *repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// List retrieves a page of audit entries, newest first
func (s *AuditService) List(ctx context.Context, page, limit int) ([]model.AuditEntry, int, error) {
	total, err := s.auditRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	entries, err := s.auditRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}

	return entries, total, nil
}
