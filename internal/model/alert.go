package model

import (
	"time"
)

// AlertThreshold is a user-defined percentage-change trigger for a symbol.
// Unique per (user_id, symbol).
type AlertThreshold struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	Symbol           string    `json:"symbol" db:"symbol"`
	ThresholdPercent float64   `json:"threshold_percent" db:"threshold_percent"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ThresholdUpsert represents data for creating or replacing an alert threshold
type ThresholdUpsert struct {
	Symbol           string  `json:"symbol" binding:"required,ticker"`
	ThresholdPercent float64 `json:"threshold_percent" binding:"required,gt=0"`
}

// PriceAlertEvent is published when a threshold is crossed, alongside the
// stored notification.
type PriceAlertEvent struct {
	UserID        string    `json:"user_id"`
	Symbol        string    `json:"symbol"`
	OldPrice      float64   `json:"old_price"`
	NewPrice      float64   `json:"new_price"`
	ChangePercent float64   `json:"change_percent"`
	Message       string    `json:"message"`
	TriggeredAt   time.Time `json:"triggered_at"`
}
