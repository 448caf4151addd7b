package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Audit actions written by this service
const (
	AuditActionRefreshMarketData = "REFRESH_MARKET_DATA"
)

// AuditEntry summarizes the outcome of one job invocation
type AuditEntry struct {
	ID           string         `json:"id" db:"id"`
	UserID       string         `json:"user_id" db:"user_id"`
	Action       string         `json:"action" db:"action"`
	ResourceType string         `json:"resource_type" db:"resource_type"`
	Details      types.JSONText `json:"details" db:"details"`
	StatusCode   int            `json:"status_code" db:"status_code"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
