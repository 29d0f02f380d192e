package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"river-portfolio/internal/server/config"
	"river-portfolio/internal/server/dto"
	"river-portfolio/pkg/common"
	"river-portfolio/pkg/locks"
	"river-portfolio/pkg/logger"
	"river-portfolio/pkg/telegram"
)

type recommendationTestEnv struct {
	svc         RecommendationService
	portfolio   PortfolioService
	analyzer    *fakeAnalyzer
	stockRepo   *fakeStockRepo
	holdingRepo *fakeHoldingRepo
	recRepo     *fakeRecommendationRepo
}

func newRecommendationTestEnv() *recommendationTestEnv {
	cfg := &config.Config{
		Refresh: config.Refresh{MaxConcurrentAnalyses: 3, AnalysisTimeout: time.Minute},
	}
	stockRepo := newFakeStockRepo()
	holdingRepo := newFakeHoldingRepo(stockRepo)
	recRepo := newFakeRecommendationRepo()
	marketData := &fakeMarketDataRepo{fundamentals: sampleFundamentals()}
	analyzer := &fakeAnalyzer{results: map[string]*dto.AnalysisResult{}, errs: map[string]error{}}

	portfolioSvc := NewPortfolioService(cfg, logger.NewNop(), stockRepo, holdingRepo, marketData, &fakeHoldingsSource{provider: "demo"})
	svc := NewRecommendationService(
		cfg, logger.NewNop(), analyzer, portfolioSvc,
		stockRepo, holdingRepo, recRepo,
		locks.NewMutexLocker(), telegram.NewNoopNotifier(),
	)

	return &recommendationTestEnv{
		svc:         svc,
		portfolio:   portfolioSvc,
		analyzer:    analyzer,
		stockRepo:   stockRepo,
		holdingRepo: holdingRepo,
		recRepo:     recRepo,
	}
}

func analysisFor(symbol, action string) *dto.AnalysisResult {
	return &dto.AnalysisResult{
		Symbol:          symbol,
		Action:          action,
		ConfidenceScore: 0.7,
		Reasoning:       "test analysis",
		AnalyzedAt:      time.Now(),
	}
}

func TestRecord_SameActionCreatesNoChange(t *testing.T) {
	env := newRecommendationTestEnv()

	_, change, err := env.svc.Record(context.Background(), "AAPL", analysisFor("AAPL", common.ActionHold))
	require.NoError(t, err)
	assert.Nil(t, change, "first recommendation has no predecessor to differ from")

	_, change, err = env.svc.Record(context.Background(), "AAPL", analysisFor("AAPL", common.ActionHold))
	require.NoError(t, err)
	assert.Nil(t, change)

	assert.Len(t, env.recRepo.recs, 2)
	assert.Empty(t, env.recRepo.changes)
}

func TestRecord_ActionTransitionCreatesChange(t *testing.T) {
	env := newRecommendationTestEnv()

	_, _, err := env.svc.Record(context.Background(), "AAPL", analysisFor("AAPL", common.ActionHold))
	require.NoError(t, err)

	_, change, err := env.svc.Record(context.Background(), "AAPL", analysisFor("AAPL", common.ActionSell))
	require.NoError(t, err)

	require.NotNil(t, change)
	assert.Equal(t, common.ActionHold, change.PreviousAction)
	assert.Equal(t, common.ActionSell, change.NewAction)
	assert.Len(t, env.recRepo.changes, 1)
}

func TestRecord_ChangeReplayMatchesCollapsedHistory(t *testing.T) {
	env := newRecommendationTestEnv()
	actions := []string{
		common.ActionHold, common.ActionHold, common.ActionSell,
		common.ActionBuy, common.ActionBuy, common.ActionHold,
	}

	for _, action := range actions {
		_, _, err := env.svc.Record(context.Background(), "AAPL", analysisFor("AAPL", action))
		require.NoError(t, err)
	}

	// Collapse consecutive duplicates out of the recorded action history.
	var collapsed []string
	for _, a := range actions {
		if len(collapsed) == 0 || collapsed[len(collapsed)-1] != a {
			collapsed = append(collapsed, a)
		}
	}

	// Replay the change rows on top of the first recorded action.
	stock, err := env.stockRepo.GetBySymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	changes, err := env.recRepo.GetChangesByStockID(context.Background(), stock.ID)
	require.NoError(t, err)

	replayed := []string{actions[0]}
	for _, c := range changes {
		assert.Equal(t, replayed[len(replayed)-1], c.PreviousAction)
		replayed = append(replayed, c.NewAction)
	}
	assert.Equal(t, collapsed, replayed)
}

func TestRecord_UnknownSymbolFailsFast(t *testing.T) {
	env := newRecommendationTestEnv()
	marketData := &fakeMarketDataRepo{fundamentalsErr: errors.New("provider down")}
	portfolioSvc := NewPortfolioService(&config.Config{}, logger.NewNop(), env.stockRepo, env.holdingRepo, marketData, &fakeHoldingsSource{provider: "demo"})
	svc := NewRecommendationService(
		&config.Config{}, logger.NewNop(), env.analyzer, portfolioSvc,
		env.stockRepo, env.holdingRepo, env.recRepo,
		locks.NewMutexLocker(), telegram.NewNoopNotifier(),
	)

	_, _, err := svc.Record(context.Background(), "NOPE", analysisFor("NOPE", common.ActionHold))
	require.Error(t, err)
	assert.Empty(t, env.recRepo.recs, "no recommendation row for an unresolvable symbol")
}

func TestRefreshAll_OneFailureDoesNotAbortBatch(t *testing.T) {
	env := newRecommendationTestEnv()

	symbols := []string{"AAPL", "MSFT", "GOOGL", "TSLA", "NVDA"}
	for _, sym := range symbols {
		_, err := env.portfolio.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{
			Symbol: sym, Shares: 10, AverageCost: 100,
		})
		require.NoError(t, err)
		env.analyzer.results[sym] = analysisFor(sym, common.ActionBuy)
	}
	env.analyzer.errs["TSLA"] = errors.New("provider timeout")

	summary, err := env.svc.RefreshAll(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalStocks)
	assert.Equal(t, 4, summary.UpdatedCount)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "TSLA")
	assert.Contains(t, summary.Errors[0], "provider timeout")
	assert.Len(t, env.recRepo.recs, 4)
}

func TestRefreshAll_CountsChangedRecommendations(t *testing.T) {
	env := newRecommendationTestEnv()

	for _, sym := range []string{"AAPL", "MSFT"} {
		_, err := env.portfolio.AddHolding(context.Background(), 1, &dto.AddHoldingRequest{
			Symbol: sym, Shares: 10, AverageCost: 100,
		})
		require.NoError(t, err)
	}

	// Seed AAPL with a HOLD so the refresh's BUY is a transition; MSFT has
	// no predecessor, so its first recommendation is not a change.
	_, _, err := env.svc.Record(context.Background(), "AAPL", analysisFor("AAPL", common.ActionHold))
	require.NoError(t, err)

	env.analyzer.results["AAPL"] = analysisFor("AAPL", common.ActionBuy)
	env.analyzer.results["MSFT"] = analysisFor("MSFT", common.ActionBuy)

	summary, err := env.svc.RefreshAll(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.UpdatedCount)
	assert.Equal(t, 1, summary.ChangedCount)
	assert.Empty(t, summary.Errors)
}

func TestRefreshAll_EmptyPortfolio(t *testing.T) {
	env := newRecommendationTestEnv()

	summary, err := env.svc.RefreshAll(context.Background(), 1)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalStocks)
	assert.Zero(t, summary.UpdatedCount)
	assert.Empty(t, summary.Errors)
	assert.Zero(t, env.analyzer.calls)
}

func TestGetForSymbol_RoundTripsSnapshots(t *testing.T) {
	env := newRecommendationTestEnv()

	result := analysisFor("AAPL", common.ActionBuy)
	result.RecentNews = []dto.NewsItem{{Title: "Apple beats estimates", URL: "https://example.com/a"}}
	snap := sampleTechnicals()
	result.TechnicalIndicators = snap
	result.NewsSentiment = 0.6
	result.TechnicalScore = 0.4
	result.FundamentalScore = 0.2

	_, _, err := env.svc.Record(context.Background(), "AAPL", result)
	require.NoError(t, err)

	resp, err := env.svc.GetForSymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, common.ActionBuy, resp.Action)
	assert.Equal(t, 0.6, resp.NewsSentiment)
	assert.Contains(t, string(resp.RecentNews), "Apple beats estimates")
	assert.Contains(t, string(resp.TechnicalIndicators), fmt.Sprintf("%v", snap.CurrentPrice))
}

func TestGetForSymbol_UnknownSymbol(t *testing.T) {
	env := newRecommendationTestEnv()

	resp, err := env.svc.GetForSymbol(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, resp)
}
