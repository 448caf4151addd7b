package handler

import (
	"errors"
	"net/http"

	"github.com/yourorg/portfolio-tracker/internal/middleware"
	"github.com/yourorg/portfolio-tracker/internal/model"
	"github.com/yourorg/portfolio-tracker/internal/service"
	"github.com/yourorg/portfolio-tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PortfolioHandler handles portfolio and transaction HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	logger           *zap.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioService *service.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

// ListPortfolios handles listing the caller's portfolios
// GET /api/v1/portfolios
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	portfolios, err := h.portfolioService.ListPortfolios(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list portfolios", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to list portfolios")
		return
	}
	if portfolios == nil {
		portfolios = []model.Portfolio{}
	}

	c.JSON(http.StatusOK, gin.H{"portfolios": portfolios})
}

// CreatePortfolio handles creating a new portfolio for the caller
// POST /api/v1/portfolios
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request model.PortfolioCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(c.Request.Context(), userID, request)
	if err != nil {
		h.logger.Error("Failed to create portfolio", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to create portfolio")
		return
	}

	c.JSON(http.StatusCreated, portfolio)
}

// RecordTransaction handles appending a buy or sell to a portfolio's ledger
// POST /api/v1/portfolios/:id/transactions
func (h *PortfolioHandler) RecordTransaction(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	portfolioID, ok := h.portfolioParam(c)
	if !ok {
		return
	}

	var request model.TransactionCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	transaction, err := h.portfolioService.RecordTransaction(c.Request.Context(), userID, portfolioID, request)
	if h.handleOwnershipError(c, err, portfolioID) {
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// ListTransactions handles listing a portfolio's ledger, oldest first
// GET /api/v1/portfolios/:id/transactions
func (h *PortfolioHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	portfolioID, ok := h.portfolioParam(c)
	if !ok {
		return
	}

	transactions, err := h.portfolioService.ListTransactions(c.Request.Context(), userID, portfolioID)
	if h.handleOwnershipError(c, err, portfolioID) {
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetHoldings handles computing a portfolio's current positions
// GET /api/v1/portfolios/:id/holdings
func (h *PortfolioHandler) GetHoldings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	portfolioID, ok := h.portfolioParam(c)
	if !ok {
		return
	}

	holdings, err := h.portfolioService.GetHoldings(c.Request.Context(), userID, portfolioID)
	if h.handleOwnershipError(c, err, portfolioID) {
		return
	}

	c.JSON(http.StatusOK, holdings)
}

// portfolioParam extracts and validates the :id path parameter
func (h *PortfolioHandler) portfolioParam(c *gin.Context) (string, bool) {
	portfolioID := c.Param("id")
	if _, err := uuid.Parse(portfolioID); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid portfolio ID")
		return "", false
	}
	return portfolioID, true
}

// handleOwnershipError maps portfolio lookup errors to HTTP responses and
// reports whether the request has been answered
func (h *PortfolioHandler) handleOwnershipError(c *gin.Context, err error, portfolioID string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, service.ErrPortfolioNotFound):
		utils.SendErrorResponse(c, http.StatusNotFound, "Portfolio not found")
	case errors.Is(err, service.ErrNotPortfolioOwner):
		utils.SendErrorResponse(c, http.StatusForbidden, "Portfolio belongs to another user")
	default:
		h.logger.Error("Portfolio request failed",
			zap.Error(err),
			zap.String("portfolio_id", portfolioID))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
	return true
}
