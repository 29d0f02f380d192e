package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"river-portfolio/internal/server/repository"
	"river-portfolio/internal/server/service"
	"river-portfolio/pkg/logger"
)

// StockHandler handles HTTP requests for portfolio stocks and their price
// history.
type StockHandler struct {
	portfolioService      service.PortfolioService
	recommendationService service.RecommendationService
	logger                *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(
	portfolioService service.PortfolioService,
	recommendationService service.RecommendationService,
	logger *logger.Logger,
) *StockHandler {
	return &StockHandler{
		portfolioService:      portfolioService,
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStocks)
	g.GET("/top-changes", h.GetTopChanges)
	g.GET("/:symbol/history", h.GetPriceHistory)
	g.POST("/:symbol/analyze", h.AnalyzeStock)
}

// GetStocks godoc
// @Summary List portfolio stocks
// @Description List the caller's portfolio stocks with valuation and latest recommendation
// @Tags stocks
// @Produce  json
// @Success 200 {array} dto.StockWithRecommendation
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetStocks(c echo.Context) error {
	user := currentUser(c)

	stocks, err := h.recommendationService.GetStocksWithRecommendations(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list stocks"})
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetTopChanges godoc
// @Summary List recent recommendation changes
// @Description List recent recommendation transitions for stocks still held in the portfolio
// @Tags stocks
// @Produce  json
// @Param   days   query   int false   "Lookback window in days (default 7)"
// @Param   limit  query   int false   "Maximum rows (default 10)"
// @Success 200 {array} dto.RecommendationChangeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/top-changes [get]
func (h *StockHandler) GetTopChanges(c echo.Context) error {
	user := currentUser(c)

	days := 7
	if v, err := strconv.Atoi(c.QueryParam("days")); err == nil && v > 0 {
		days = v
	}
	limit := 10
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}

	changes, err := h.recommendationService.GetTopChanges(c.Request().Context(), user.ID, time.Duration(days)*24*time.Hour, limit)
	if err != nil {
		h.logger.Error("Failed to list recommendation changes", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list recommendation changes"})
	}
	return c.JSON(http.StatusOK, changes)
}

// GetPriceHistory godoc
// @Summary Get price history
// @Description Get the OHLCV series for a symbol and period
// @Tags stocks
// @Produce  json
// @Param   symbol  path    string true    "Stock symbol"
// @Param   period  query   string false   "History period (1mo, 3mo, 6mo, 1y; default 3mo)"
// @Success 200 {object} dto.PriceHistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{symbol}/history [get]
func (h *StockHandler) GetPriceHistory(c echo.Context) error {
	symbol := c.Param("symbol")
	period := c.QueryParam("period")
	if period == "" {
		period = "3mo"
	}

	history, err := h.portfolioService.GetPriceHistory(c.Request().Context(), symbol, period)
	if err != nil {
		if errors.Is(err, repository.ErrSymbolNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Symbol not found: " + symbol})
		}
		h.logger.Error("Failed to get price history", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get price history"})
	}
	return c.JSON(http.StatusOK, history)
}

// AnalyzeStock godoc
// @Summary Analyze a stock
// @Description Run the full analysis pipeline for a symbol and store the recommendation
// @Tags stocks
// @Produce  json
// @Param   symbol  path    string true    "Stock symbol"
// @Success 200 {object} dto.AnalysisResult
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{symbol}/analyze [post]
func (h *StockHandler) AnalyzeStock(c echo.Context) error {
	symbol := c.Param("symbol")

	result, err := h.recommendationService.AnalyzeAndRecord(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, repository.ErrSymbolNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Symbol not found: " + symbol})
		}
		h.logger.Error("Failed to analyze stock", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to analyze stock"})
	}
	return c.JSON(http.StatusOK, result)
}
