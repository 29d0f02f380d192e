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

type setuHoldingsRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	client *http.Client
}

type setuHoldingsResponse struct {
	Accounts []struct {
		AccountID   string `json:"account_id"`
		FipID       string `json:"fip_id"`
		AccountType string `json:"account_type"`
		Holdings    []struct {
			Symbol       string  `json:"symbol"`
			ISIN         string  `json:"isin"`
			Quantity     float64 `json:"quantity"`
			AveragePrice float64 `json:"average_price"`
		} `json:"holdings"`
	} `json:"accounts"`
}

// NewSetuHoldingsRepository creates a holdings source backed by the Setu
// account-aggregator holdings API. The credential is an approved consent id.
func NewSetuHoldingsRepository(cfg *config.Config, log *logger.Logger) HoldingsSourceRepository {
	return &setuHoldingsRepository{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *setuHoldingsRepository) Provider() string {
	return "setu"
}

func (r *setuHoldingsRepository) FetchHoldings(ctx context.Context, consentID string) ([]dto.BrokerHolding, error) {
	endpoint := fmt.Sprintf("%s/consents/%s/holdings", r.cfg.Holdings.Setu.BaseURL, consentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-client-id", r.cfg.Holdings.Setu.ClientID)
	req.Header.Set("x-client-secret", r.cfg.Holdings.Setu.ClientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to setu failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.Error("Failed to fetch setu holdings",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(body)),
		)
		return nil, fmt.Errorf("setu holdings returned status %d", resp.StatusCode)
	}

	var payload setuHoldingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode setu response: %w", err)
	}

	var holdings []dto.BrokerHolding
	for _, account := range payload.Accounts {
		for _, h := range account.Holdings {
			if h.Quantity <= 0 {
				continue
			}
			holdings = append(holdings, dto.BrokerHolding{
				Symbol:      h.Symbol,
				ISIN:        h.ISIN,
				Quantity:    h.Quantity,
				AverageCost: h.AveragePrice,
			})
		}
	}
	return holdings, nil
}
