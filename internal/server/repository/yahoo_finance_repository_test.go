package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"river-portfolio/internal/server/config"
	"river-portfolio/pkg/logger"
)

// chartServer serves a synthetic chart payload for any symbol.
func chartServer(t *testing.T, closes []float64, volumes []int64) *httptest.Server {
	t.Helper()

	timestamps := make([]int64, len(closes))
	for i := range timestamps {
		timestamps[i] = 1700000000 + int64(i)*86400
	}

	payload := map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":      map[string]any{"symbol": "AAPL"},
				"timestamp": timestamps,
				"indicators": map[string]any{
					"quote": []any{map[string]any{
						"open":   closes,
						"high":   closes,
						"low":    closes,
						"close":  closes,
						"volume": volumes,
					}},
				},
			}},
		},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func TestGetTechnicalIndicators_MomentumWindows(t *testing.T) {
	// 60 strictly rising closes, flat volume.
	closes := make([]float64, 60)
	volumes := make([]int64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
		volumes[i] = 1000
	}
	srv := chartServer(t, closes, volumes)
	defer srv.Close()

	cfg := &config.Config{}
	cfg.YahooFinance.BaseURL = srv.URL
	cfg.YahooFinance.MaxRequestPerMinute = 60000
	repo := NewYahooFinanceRepository(cfg, logger.NewNop())

	snap, err := repo.GetTechnicalIndicators(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 159.0, snap.CurrentPrice)

	// One week trails 5 sessions, one month trails 20 sessions.
	assert.InDelta(t, (159.0-155.0)/155.0*100, snap.Momentum1WeekPct, 1e-9)
	assert.InDelta(t, (159.0-140.0)/140.0*100, snap.Momentum1MonthPct, 1e-9)

	require.NotNil(t, snap.MA20)
	assert.InDelta(t, 149.5, *snap.MA20, 1e-9)

	// A monotonically rising series has no losses, so RSI is undefined.
	assert.Nil(t, snap.RSI)
	assert.InDelta(t, 1.0, snap.VolumeRatio, 1e-9)
}
