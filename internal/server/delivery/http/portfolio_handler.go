package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"river-portfolio/internal/server/dto"
	"river-portfolio/internal/server/repository"
	"river-portfolio/internal/server/service"
	"river-portfolio/pkg/logger"
)

// PortfolioHandler handles HTTP requests for the portfolio.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/overview", h.GetOverview)
	g.POST("/holdings", h.AddHolding)
	g.DELETE("/holdings/:symbol", h.RemoveHolding)
	g.POST("/sync", h.SyncHoldings)
}

// GetOverview godoc
// @Summary Get portfolio overview
// @Description Get the caller's active holdings with aggregate valuation
// @Tags portfolio
// @Produce  json
// @Success 200 {object} dto.PortfolioOverviewResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/overview [get]
func (h *PortfolioHandler) GetOverview(c echo.Context) error {
	user := currentUser(c)

	overview, err := h.portfolioService.GetOverview(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to get portfolio overview", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get portfolio overview"})
	}
	return c.JSON(http.StatusOK, overview)
}

// AddHolding godoc
// @Summary Add a holding
// @Description Add shares of a symbol; an existing holding merges into a weighted-average cost
// @Tags portfolio
// @Accept  json
// @Produce  json
// @Param   holding  body    dto.AddHoldingRequest   true    "Holding to add"
// @Success 201 {object} dto.HoldingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/holdings [post]
func (h *PortfolioHandler) AddHolding(c echo.Context) error {
	user := currentUser(c)

	var req dto.AddHoldingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Symbol is required"})
	}

	holding, err := h.portfolioService.AddHolding(c.Request().Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidHolding):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrSymbolNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Symbol not found: " + req.Symbol})
		default:
			h.logger.Error("Failed to add holding", logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add holding"})
		}
	}

	return c.JSON(http.StatusCreated, dto.HoldingResponse{
		Symbol:          holding.Stock.Symbol,
		CompanyName:     holding.Stock.CompanyName,
		Shares:          holding.Shares,
		AverageCost:     holding.AverageCost,
		CurrentPrice:    holding.Stock.CurrentPrice,
		CurrentValue:    holding.CurrentValue(),
		TotalCost:       holding.TotalCost(),
		GainLoss:        holding.UnrealizedGainLoss(),
		GainLossPercent: holding.UnrealizedGainLossPercent(),
	})
}

// RemoveHolding godoc
// @Summary Remove a holding
// @Description Deactivate the caller's holding for a symbol
// @Tags portfolio
// @Produce  json
// @Param   symbol  path    string true    "Stock symbol"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/holdings/{symbol} [delete]
func (h *PortfolioHandler) RemoveHolding(c echo.Context) error {
	user := currentUser(c)
	symbol := c.Param("symbol")

	if err := h.portfolioService.RemoveHolding(c.Request().Context(), user.ID, symbol); err != nil {
		if errors.Is(err, service.ErrHoldingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Holding not found: " + symbol})
		}
		h.logger.Error("Failed to remove holding", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to remove holding"})
	}
	return c.NoContent(http.StatusNoContent)
}

// SyncHoldings godoc
// @Summary Sync holdings from the configured source
// @Description Import holdings from the configured external source into the portfolio
// @Tags portfolio
// @Produce  json
// @Success 200 {object} dto.SyncResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio/sync [post]
func (h *PortfolioHandler) SyncHoldings(c echo.Context) error {
	user := currentUser(c)
	credential := c.Request().Header.Get("X-Source-Credential")

	result, err := h.portfolioService.SyncHoldings(c.Request().Context(), user.ID, credential)
	if err != nil {
		h.logger.Error("Failed to sync holdings", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to sync holdings"})
	}
	return c.JSON(http.StatusOK, result)
}
