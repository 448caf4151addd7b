package service

import (
	"math"
	"testing"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/model"
)

func tx(symbol, side string, shares, price float64, day int) model.Transaction {
	return model.Transaction{
		Symbol:     symbol,
		Side:       side,
		Shares:     shares,
		Price:      price,
		ExecutedAt: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeHoldings_AverageCostAcrossBuys(t *testing.T) {
	transactions := []model.Transaction{
		tx("AAPL", model.TransactionBuy, 10, 100, 1),
		tx("AAPL", model.TransactionBuy, 10, 200, 2),
	}
	quotes := map[string]model.Quote{
		"AAPL": {Symbol: "AAPL", Price: 180},
	}

	holdings := ComputeHoldings(transactions, quotes)
	if len(holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(holdings))
	}

	h := holdings[0]
	if h.Shares != 20 {
		t.Errorf("Shares = %v, want 20", h.Shares)
	}
	if !almostEqual(h.AvgCost, 150) {
		t.Errorf("AvgCost = %v, want 150", h.AvgCost)
	}
	if !almostEqual(h.CostBasis, 3000) {
		t.Errorf("CostBasis = %v, want 3000", h.CostBasis)
	}
	if !almostEqual(h.MarketValue, 3600) {
		t.Errorf("MarketValue = %v, want 3600", h.MarketValue)
	}
	if !almostEqual(h.UnrealizedPL, 600) {
		t.Errorf("UnrealizedPL = %v, want 600", h.UnrealizedPL)
	}
	if !almostEqual(h.UnrealizedPLPct, 20) {
		t.Errorf("UnrealizedPLPct = %v, want 20", h.UnrealizedPLPct)
	}
}

func TestComputeHoldings_SellRealizesPL(t *testing.T) {
	transactions := []model.Transaction{
		tx("AAPL", model.TransactionBuy, 10, 100, 1),
		tx("AAPL", model.TransactionSell, 4, 150, 2),
	}
	quotes := map[string]model.Quote{
		"AAPL": {Symbol: "AAPL", Price: 120},
	}

	holdings := ComputeHoldings(transactions, quotes)
	if len(holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(holdings))
	}

	h := holdings[0]
	if h.Shares != 6 {
		t.Errorf("Shares = %v, want 6", h.Shares)
	}
	// Sold 4 @ 150 against avg cost 100: realized 4 * 50.
	if !almostEqual(h.RealizedPL, 200) {
		t.Errorf("RealizedPL = %v, want 200", h.RealizedPL)
	}
	if !almostEqual(h.CostBasis, 600) {
		t.Errorf("CostBasis = %v, want 600", h.CostBasis)
	}
	if !almostEqual(h.UnrealizedPL, 120) {
		t.Errorf("UnrealizedPL = %v, want 120", h.UnrealizedPL)
	}
}

func TestComputeHoldings_ClosedPositionDropped(t *testing.T) {
	transactions := []model.Transaction{
		tx("AAPL", model.TransactionBuy, 10, 100, 1),
		tx("AAPL", model.TransactionSell, 10, 150, 2),
		tx("MSFT", model.TransactionBuy, 5, 300, 3),
	}

	holdings := ComputeHoldings(transactions, map[string]model.Quote{})
	if len(holdings) != 1 {
		t.Fatalf("holdings = %d, want 1 (closed AAPL position dropped)", len(holdings))
	}
	if holdings[0].Symbol != "MSFT" {
		t.Errorf("Symbol = %q, want MSFT", holdings[0].Symbol)
	}
}

func TestComputeHoldings_OversellClampedToPosition(t *testing.T) {
	transactions := []model.Transaction{
		tx("AAPL", model.TransactionBuy, 5, 100, 1),
		tx("AAPL", model.TransactionSell, 8, 150, 2),
	}

	holdings := ComputeHoldings(transactions, map[string]model.Quote{})
	if len(holdings) != 0 {
		t.Fatalf("holdings = %d, want 0", len(holdings))
	}
}

func TestComputeHoldings_MissingQuoteValuedAtCost(t *testing.T) {
	transactions := []model.Transaction{
		tx("OBSCURE", model.TransactionBuy, 10, 50, 1),
	}

	holdings := ComputeHoldings(transactions, map[string]model.Quote{})
	if len(holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(holdings))
	}

	h := holdings[0]
	if !almostEqual(h.LastPrice, 50) {
		t.Errorf("LastPrice = %v, want avg cost 50", h.LastPrice)
	}
	if !almostEqual(h.UnrealizedPL, 0) {
		t.Errorf("UnrealizedPL = %v, want 0 without a quote", h.UnrealizedPL)
	}
}

func TestComputeHoldings_SortedBySymbol(t *testing.T) {
	transactions := []model.Transaction{
		tx("ZM", model.TransactionBuy, 1, 10, 1),
		tx("AAPL", model.TransactionBuy, 1, 10, 2),
		tx("MSFT", model.TransactionBuy, 1, 10, 3),
	}

	holdings := ComputeHoldings(transactions, map[string]model.Quote{})
	want := []string{"AAPL", "MSFT", "ZM"}
	if len(holdings) != len(want) {
		t.Fatalf("holdings = %d, want %d", len(holdings), len(want))
	}
	for i, w := range want {
		if holdings[i].Symbol != w {
			t.Errorf("holdings[%d].Symbol = %q, want %q", i, holdings[i].Symbol, w)
		}
	}
}
