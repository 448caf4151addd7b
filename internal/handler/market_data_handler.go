package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/service"
	"github.com/yourorg/portfolio-tracker/internal/utils"
	"github.com/yourorg/portfolio-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MarketDataHandler handles quote and price history HTTP requests
type MarketDataHandler struct {
	marketDataService *service.MarketDataService
	logger            *zap.Logger
}

// NewMarketDataHandler creates a new market data handler
func NewMarketDataHandler(marketDataService *service.MarketDataService, logger *zap.Logger) *MarketDataHandler {
	return &MarketDataHandler{
		marketDataService: marketDataService,
		logger:            logger,
	}
}

// GetQuote handles retrieving the current quote for one symbol
// GET /api/v1/quotes/:symbol
func (h *MarketDataHandler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if !validator.IsTicker(symbol) {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid symbol")
		return
	}

	quote, err := h.marketDataService.GetQuote(c.Request.Context(), symbol)
	if errors.Is(err, service.ErrQuoteNotFound) {
		utils.SendErrorResponse(c, http.StatusNotFound, "No quote for symbol")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get quote",
			zap.Error(err),
			zap.String("symbol", symbol))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get quote")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// GetQuotes handles retrieving current quotes for a comma-separated symbol list
// GET /api/v1/quotes?symbols=AAPL,MSFT
func (h *MarketDataHandler) GetQuotes(c *gin.Context) {
	symbolsParam := c.Query("symbols")
	if symbolsParam == "" {
		utils.SendErrorResponse(c, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	symbols := strings.Split(strings.ToUpper(symbolsParam), ",")
	for _, symbol := range symbols {
		if !validator.IsTicker(symbol) {
			utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid symbol: "+symbol)
			return
		}
	}

	quotes, err := h.marketDataService.GetQuotes(c.Request.Context(), symbols)
	if err != nil {
		h.logger.Error("Failed to get quotes", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get quotes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// GetHistory handles retrieving historical price points for charting
// GET /api/v1/quotes/:symbol/history
func (h *MarketDataHandler) GetHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if !validator.IsTicker(symbol) {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid symbol")
		return
	}

	query := model.PriceHistoryQuery{Symbol: symbol}

	if startStr := c.Query("start_date"); startStr != "" {
		startDate, err := parseDate(startStr)
		if err != nil {
			utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD or RFC3339")
			return
		}
		query.StartDate = &startDate
	}

	if endStr := c.Query("end_date"); endStr != "" {
		endDate, err := parseDate(endStr)
		if err != nil {
			utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD or RFC3339")
			return
		}
		query.EndDate = &endDate
	}

	params := utils.ParsePaginationParams(c, 500, 2000)

	points, total, err := h.marketDataService.GetHistory(c.Request.Context(), query, params.Page, params.Limit)
	if err != nil {
		h.logger.Error("Failed to get price history",
			zap.Error(err),
			zap.String("symbol", symbol))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get price history")
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, points, total, params.Page, params.Limit)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	return t, err
}
