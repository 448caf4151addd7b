package model

import (
	"time"
)

// Transaction sides
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Portfolio represents a named collection of transactions owned by a user
type Portfolio struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PortfolioCreate represents data for creating a portfolio
type PortfolioCreate struct {
	Name string `json:"name" binding:"required,max=100"`
}

// Transaction represents a single buy or sell recorded against a portfolio
type Transaction struct {
	ID          string    `json:"id" db:"id"`
	PortfolioID string    `json:"portfolio_id" db:"portfolio_id"`
	Symbol      string    `json:"symbol" db:"symbol"`
	Side        string    `json:"side" db:"side"`
	Shares      float64   `json:"shares" db:"shares"`
	Price       float64   `json:"price" db:"price"`
	ExecutedAt  time.Time `json:"executed_at" db:"executed_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TransactionCreate represents data for recording a transaction
type TransactionCreate struct {
	Symbol     string     `json:"symbol" binding:"required,ticker"`
	Side       string     `json:"side" binding:"required,oneof=buy sell"`
	Shares     float64    `json:"shares" binding:"required,gt=0"`
	Price      float64    `json:"price" binding:"required,gt=0"`
	ExecutedAt *time.Time `json:"executed_at,omitempty"`
}

// Holding is a position computed from the transaction ledger using the
// average-cost method, valued against the current quote.
type Holding struct {
	Symbol          string  `json:"symbol"`
	Shares          float64 `json:"shares"`
	AvgCost         float64 `json:"avg_cost"`
	CostBasis       float64 `json:"cost_basis"`
	LastPrice       float64 `json:"last_price"`
	MarketValue     float64 `json:"market_value"`
	UnrealizedPL    float64 `json:"unrealized_pl"`
	UnrealizedPLPct float64 `json:"unrealized_pl_pct"`
	RealizedPL      float64 `json:"realized_pl"`
}

// HoldingsResponse represents the computed holdings of one portfolio
type HoldingsResponse struct {
	PortfolioID  string    `json:"portfolio_id"`
	Holdings     []Holding `json:"holdings"`
	TotalValue   float64   `json:"total_value"`
	TotalCost    float64   `json:"total_cost"`
	UnrealizedPL float64   `json:"unrealized_pl"`
	RealizedPL   float64   `json:"realized_pl"`
}
