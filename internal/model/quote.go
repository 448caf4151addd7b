package model

import (
	"time"
)

// Quote represents the current price record for a ticker symbol.
// There is exactly one row per symbol; refreshes replace the row in full.
type Quote struct {
	Symbol        string    `json:"symbol" db:"symbol"`
	Price         float64   `json:"price" db:"price"`
	ChangePercent float64   `json:"change_percent" db:"change_percent"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// PricePoint represents an append-only historical price observation.
// One row is written per successful fetch; duplicates across runs form
// the time series used for charting.
type PricePoint struct {
	ID         string    `json:"id" db:"id"`
	Symbol     string    `json:"symbol" db:"symbol"`
	Price      float64   `json:"price" db:"price"`
	ClosePrice float64   `json:"close_price" db:"close_price"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// ProviderQuote is the normalized result of a single upstream fetch,
// before it is persisted.
type ProviderQuote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// PriceHistoryQuery holds the filters for a historical price lookup
type PriceHistoryQuery struct {
	Symbol    string
	StartDate *time.Time
	EndDate   *time.Time
}
