package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/config"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*AlphaVantageClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewAlphaVantageClient(config.ProviderConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return c, srv
}

func TestGetQuote_WellFormedResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q, want GLOBAL_QUOTE", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol = %q, want AAPL", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q, want test-key", got)
		}
		w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "154.8800", "10. change percent": "3.2500%"}}`))
	})

	q, err := c.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if q == nil {
		t.Fatal("GetQuote returned nil quote")
	}
	if q.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", q.Symbol)
	}
	if q.Price != 154.88 {
		t.Errorf("Price = %v, want 154.88", q.Price)
	}
	if q.ChangePercent != 3.25 {
		t.Errorf("ChangePercent = %v, want 3.25", q.ChangePercent)
	}
}

func TestGetQuote_MissingGlobalQuote(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Alpha Vantage answers rate-limited calls with 200 and a note body.
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage!"}`))
	})

	q, err := c.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if q != nil {
		t.Errorf("expected no data, got %+v", q)
	}
}

func TestGetQuote_MissingPriceField(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL"}}`))
	})

	q, err := c.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if q != nil {
		t.Errorf("expected no data, got %+v", q)
	}
}

func TestGetQuote_NonJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	})

	q, err := c.GetQuote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}
	if q != nil {
		t.Errorf("expected nil quote, got %+v", q)
	}
}

func TestGetQuote_UpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := c.GetQuote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestGetQuote_UnparseableChangePercentKeepsQuote(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {"05. price": "42.00", "10. change percent": "n/a"}}`))
	})

	q, err := c.GetQuote(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if q == nil {
		t.Fatal("expected quote despite malformed change percent")
	}
	if q.ChangePercent != 0 {
		t.Errorf("ChangePercent = %v, want 0", q.ChangePercent)
	}
}

func TestGetQuote_NoAPIKeyIssuesNoRequests(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	c := NewAlphaVantageClient(config.ProviderConfig{BaseURL: srv.URL}, zap.NewNop())

	q, err := c.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if q != nil {
		t.Errorf("expected no data without API key, got %+v", q)
	}
	if calls != 0 {
		t.Errorf("expected zero provider requests, got %d", calls)
	}
}
