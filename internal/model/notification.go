package model

import (
	"time"
)

// NotificationTypePriceAlert is the type written by the market data refresh job
const NotificationTypePriceAlert = "price_alert"

// Notification represents a user notification
type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Symbol    string    `json:"symbol,omitempty" db:"symbol"`
	Type      string    `json:"type" db:"type"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications with metadata
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
}

// NotificationMarkResponse represents the response after marking notifications as read
type NotificationMarkResponse struct {
	Success     bool `json:"success"`
	MarkedCount int  `json:"marked_count"`
}
