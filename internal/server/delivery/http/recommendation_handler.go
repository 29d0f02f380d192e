package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"river-portfolio/internal/server/service"
	"river-portfolio/pkg/logger"
)

// RecommendationHandler handles HTTP requests for stored recommendations.
type RecommendationHandler struct {
	recommendationService service.RecommendationService
	logger                *logger.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendationService service.RecommendationService, logger *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService, logger: logger}
}

// RegisterRoutes registers the recommendation routes to the Echo group.
func (h *RecommendationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.GetRecommendation)
	g.POST("/refresh", h.RefreshAll)
}

// GetRecommendation godoc
// @Summary Get the latest recommendation for a symbol
// @Description Get the latest stored recommendation including input snapshots
// @Tags recommendations
// @Produce  json
// @Param   symbol  path    string true    "Stock symbol"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommendations/{symbol} [get]
func (h *RecommendationHandler) GetRecommendation(c echo.Context) error {
	symbol := c.Param("symbol")

	rec, err := h.recommendationService.GetForSymbol(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("Failed to get recommendation", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get recommendation"})
	}
	if rec == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No recommendation for symbol: " + symbol})
	}
	return c.JSON(http.StatusOK, rec)
}

// RefreshAll godoc
// @Summary Refresh all portfolio recommendations
// @Description Re-analyze every symbol in the caller's portfolio and store the outcomes
// @Tags recommendations
// @Produce  json
// @Success 200 {object} dto.RefreshSummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommendations/refresh [post]
func (h *RecommendationHandler) RefreshAll(c echo.Context) error {
	user := currentUser(c)

	summary, err := h.recommendationService.RefreshAll(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to refresh recommendations", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to refresh recommendations"})
	}
	return c.JSON(http.StatusOK, summary)
}
