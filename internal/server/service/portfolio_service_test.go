package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"river-portfolio/internal/server/config"
	"river-portfolio/internal/server/dto"
	"river-portfolio/internal/server/repository"
	"river-portfolio/pkg/logger"
)

func newTestPortfolioService(marketData *fakeMarketDataRepo, source repository.HoldingsSourceRepository) (PortfolioService, *fakeStockRepo, *fakeHoldingRepo) {
	stockRepo := newFakeStockRepo()
	holdingRepo := newFakeHoldingRepo(stockRepo)
	svc := NewPortfolioService(&config.Config{}, logger.NewNop(), stockRepo, holdingRepo, marketData, source)
	return svc, stockRepo, holdingRepo
}

func TestAddHolding_MergesIntoWeightedAverage(t *testing.T) {
	marketData := &fakeMarketDataRepo{fundamentals: sampleFundamentals()}
	svc, _, _ := newTestPortfolioService(marketData, &fakeHoldingsSource{provider: "demo"})

	first, err := svc.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{
		Symbol: "AAPL", Shares: 10, AverageCost: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, first.Shares)

	merged, err := svc.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{
		Symbol: "AAPL", Shares: 10, AverageCost: 80,
	})
	require.NoError(t, err)

	// 10 @ 100 + 10 @ 80 collapses into one row at the weighted average.
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 20.0, merged.Shares)
	assert.InDelta(t, 90.0, merged.AverageCost, 1e-9)
}

func TestAddHolding_RejectsInvalidInput(t *testing.T) {
	marketData := &fakeMarketDataRepo{fundamentals: sampleFundamentals()}
	svc, _, _ := newTestPortfolioService(marketData, &fakeHoldingsSource{provider: "demo"})

	_, err := svc.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{Symbol: "AAPL", Shares: 0, AverageCost: 100})
	assert.ErrorIs(t, err, ErrInvalidHolding)

	_, err = svc.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{Symbol: "AAPL", Shares: 10, AverageCost: -1})
	assert.ErrorIs(t, err, ErrInvalidHolding)
}

func TestAddHolding_UnknownSymbolCreatesNothing(t *testing.T) {
	marketData := &fakeMarketDataRepo{fundamentalsErr: repository.ErrSymbolNotFound}
	svc, stockRepo, holdingRepo := newTestPortfolioService(marketData, &fakeHoldingsSource{provider: "demo"})

	_, err := svc.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{Symbol: "NOPE", Shares: 10, AverageCost: 100})
	assert.ErrorIs(t, err, repository.ErrSymbolNotFound)

	stocks, _ := stockRepo.GetAll(context.Background())
	assert.Empty(t, stocks)
	holdings, _ := holdingRepo.GetActiveByUserID(context.Background(), 1)
	assert.Empty(t, holdings)
}

func TestRemoveHolding_SoftDeletes(t *testing.T) {
	marketData := &fakeMarketDataRepo{fundamentals: sampleFundamentals()}
	svc, _, holdingRepo := newTestPortfolioService(marketData, &fakeHoldingsSource{provider: "demo"})

	_, err := svc.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{Symbol: "AAPL", Shares: 10, AverageCost: 100})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveHolding(context.Background(), 1, "AAPL"))

	active, _ := holdingRepo.GetActiveByUserID(context.Background(), 1)
	assert.Empty(t, active)

	// The row is deactivated, not deleted.
	assert.Len(t, holdingRepo.holdings, 1)
	assert.False(t, holdingRepo.holdings[0].IsActive)

	assert.ErrorIs(t, svc.RemoveHolding(context.Background(), 1, "AAPL"), ErrHoldingNotFound)
	assert.ErrorIs(t, svc.RemoveHolding(context.Background(), 1, "MSFT"), ErrHoldingNotFound)
}

func TestSyncHoldings_ImportsSourceRows(t *testing.T) {
	marketData := &fakeMarketDataRepo{fundamentals: sampleFundamentals()}
	source := &fakeHoldingsSource{
		provider: "demo",
		holdings: []dto.BrokerHolding{
			{Symbol: "AAPL", Quantity: 50, AverageCost: 145.30},
			{Symbol: "MSFT", Quantity: 60, AverageCost: 280.75},
			{Symbol: "BAD", Quantity: 0, AverageCost: 10},
		},
	}
	svc, _, holdingRepo := newTestPortfolioService(marketData, source)

	result, err := svc.SyncHoldings(context.Background(), 1, "")
	require.NoError(t, err)

	assert.Equal(t, "demo", result.Source)
	assert.Equal(t, 2, result.SyncedCount)
	assert.Equal(t, 1, result.SkippedCount)

	active, _ := holdingRepo.GetActiveByUserID(context.Background(), 1)
	assert.Len(t, active, 2)
}

func TestGetPriceHistory_CachesSeries(t *testing.T) {
	marketData := &fakeMarketDataRepo{
		history: []dto.OHLCV{{Close: 100}, {Close: 101}},
	}
	svc, _, _ := newTestPortfolioService(marketData, &fakeHoldingsSource{provider: "demo"})

	first, err := svc.GetPriceHistory(context.Background(), "AAPL", "3mo")
	require.NoError(t, err)
	assert.Len(t, first.Data, 2)

	_, err = svc.GetPriceHistory(context.Background(), "AAPL", "3mo")
	require.NoError(t, err)
	assert.Equal(t, 1, marketData.historyCalls, "second call must be served from cache")

	// A different period is a separate cache entry.
	_, err = svc.GetPriceHistory(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	assert.Equal(t, 2, marketData.historyCalls)
}

func TestGetOverview_AggregatesHoldings(t *testing.T) {
	marketData := &fakeMarketDataRepo{fundamentals: sampleFundamentals()}
	svc, _, _ := newTestPortfolioService(marketData, &fakeHoldingsSource{provider: "demo"})

	_, err := svc.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{Symbol: "AAPL", Shares: 10, AverageCost: 100})
	require.NoError(t, err)

	overview, err := svc.GetOverview(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, overview.Holdings, 1)
	assert.Equal(t, 1, overview.StockCount)
	assert.InDelta(t, 1000.0, overview.TotalCost, 1e-9)
	// Fake fundamentals price the stock at 180.
	assert.InDelta(t, 1800.0, overview.TotalValue, 1e-9)
	assert.InDelta(t, 800.0, overview.TotalGainLoss, 1e-9)
	assert.InDelta(t, 80.0, overview.TotalGainLossPercent, 1e-9)
}
