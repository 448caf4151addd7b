package repository

import (
	"context"

	"github.com/yourorg/portfolio-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// AuditRepository handles database operations for the audit log
type AuditRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sqlx.DB, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts one audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO audit_log (id, user_id, action, resource_type, details, status_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.Details,
		entry.StatusCode,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create audit entry",
			zap.Error(err),
			zap.String("action", entry.Action))
		return err
	}

	return nil
}

// List retrieves audit entries, newest first, with pagination
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error) {
	query := `
		SELECT id, user_id, action, resource_type, details, status_code, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var entries []model.AuditEntry
	err := r.db.SelectContext(ctx, &entries, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list audit entries", zap.Error(err))
		return nil, err
	}

	return entries, nil
}

// Count counts all audit entries
func (r *AuditRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM audit_log`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		r.logger.Error("Failed to count audit entries", zap.Error(err))
		return 0, err
	}

	return count, nil
}
