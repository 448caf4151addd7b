package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/config"
	"github.com/yourorg/portfolio-tracker/internal/model"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Alpha Vantage API endpoint
	DefaultBaseURL = "https://www.alphavantage.co"

	// SourceName identifies this provider in responses and audit entries
	SourceName = "alphavantage"
)

// Field names in the GLOBAL_QUOTE response payload
const (
	fieldPrice         = "05. price"
	fieldChangePercent = "10. change percent"
)

// AlphaVantageClient handles communication with the Alpha Vantage quote API
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAlphaVantageClient creates a new Alpha Vantage API client
func NewAlphaVantageClient(cfg config.ProviderConfig, logger *zap.Logger) *AlphaVantageClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AlphaVantageClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name returns the provider identifier reported in refresh responses
func (c *AlphaVantageClient) Name() string {
	return SourceName
}

// GetQuote fetches the current quote for one symbol.
//
// A well-formed response with a price field yields a ProviderQuote. A
// response missing the "Global Quote" object or its price field (which Alpha
// Vantage returns for unknown symbols and when the free-tier limit is
// exhausted) yields (nil, nil): no data, not an error. A missing API key
// degrades every call to no data rather than failing the batch.
func (c *AlphaVantageClient) GetQuote(ctx context.Context, symbol string) (*model.ProviderQuote, error) {
	if c.apiKey == "" {
		c.logger.Warn("Provider API key not configured, skipping fetch",
			zap.String("symbol", symbol))
		return nil, nil
	}

	params := url.Values{}
	params.Add("function", "GLOBAL_QUOTE")
	params.Add("symbol", symbol)
	params.Add("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch quote from provider",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.Error("Provider API error response",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("symbol", symbol),
			zap.String("response", string(bodyBytes)))
		return nil, fmt.Errorf("provider returned status code %d", resp.StatusCode)
	}

	var payload struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error("Failed to decode provider response",
			zap.Error(err),
			zap.String("symbol", symbol))
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}

	priceStr, ok := payload.GlobalQuote[fieldPrice]
	if !ok || priceStr == "" {
		c.logger.Warn("Provider returned no usable data",
			zap.String("symbol", symbol))
		return nil, nil
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		c.logger.Warn("Provider returned unparseable price",
			zap.String("symbol", symbol),
			zap.String("price", priceStr))
		return nil, nil
	}

	// The change percent field carries a trailing '%'. It is informational
	// only, so an unparseable value falls back to zero instead of discarding
	// the quote.
	var changePercent float64
	if changeStr, ok := payload.GlobalQuote[fieldChangePercent]; ok {
		changeStr = strings.TrimSuffix(changeStr, "%")
		changePercent, err = strconv.ParseFloat(changeStr, 64)
		if err != nil {
			c.logger.Warn("Provider returned unparseable change percent",
				zap.String("symbol", symbol),
				zap.String("change_percent", changeStr))
			changePercent = 0
		}
	}

	c.logger.Debug("Fetched quote",
		zap.String("symbol", symbol),
		zap.Float64("price", price),
		zap.Float64("change_percent", changePercent))

	return &model.ProviderQuote{
		Symbol:        symbol,
		Price:         price,
		ChangePercent: changePercent,
	}, nil
}
