package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"river-portfolio/internal/server/config"
	"river-portfolio/internal/server/dto"
	"river-portfolio/pkg/logger"
)

type upstoxHoldingsRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	client *http.Client
}

type upstoxHoldingsResponse struct {
	Status string `json:"status"`
	Data   []struct {
		TradingSymbol string  `json:"trading_symbol"`
		ISIN          string  `json:"isin"`
		Quantity      float64 `json:"quantity"`
		AveragePrice  float64 `json:"average_price"`
	} `json:"data"`
}

// NewUpstoxHoldingsRepository creates a holdings source backed by the Upstox
// long-term-holdings endpoint. The credential is the user's access token.
func NewUpstoxHoldingsRepository(cfg *config.Config, log *logger.Logger) HoldingsSourceRepository {
	return &upstoxHoldingsRepository{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *upstoxHoldingsRepository) Provider() string {
	return "upstox"
}

func (r *upstoxHoldingsRepository) FetchHoldings(ctx context.Context, accessToken string) ([]dto.BrokerHolding, error) {
	endpoint := fmt.Sprintf("%s/portfolio/long-term-holdings", r.cfg.Holdings.Upstox.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to upstox failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.Error("Failed to fetch upstox holdings",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(body)),
		)
		return nil, fmt.Errorf("upstox holdings returned status %d", resp.StatusCode)
	}

	var payload upstoxHoldingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode upstox response: %w", err)
	}

	holdings := make([]dto.BrokerHolding, 0, len(payload.Data))
	for _, h := range payload.Data {
		if h.Quantity <= 0 {
			continue
		}
		holdings = append(holdings, dto.BrokerHolding{
			Symbol:      h.TradingSymbol,
			ISIN:        h.ISIN,
			Quantity:    h.Quantity,
			AverageCost: h.AveragePrice,
		})
	}
	return holdings, nil
}
