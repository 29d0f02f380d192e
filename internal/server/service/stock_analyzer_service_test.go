package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"river-portfolio/internal/server/dto"
	"river-portfolio/internal/server/repository"
	"river-portfolio/pkg/common"
	"river-portfolio/pkg/logger"
)

func sampleFundamentals() *dto.Fundamentals {
	return &dto.Fundamentals{
		Symbol:       "AAPL",
		CompanyName:  "Apple Inc.",
		Sector:       "Technology",
		CurrentPrice: 180,
	}
}

func sampleTechnicals() *dto.TechnicalSnapshot {
	return &dto.TechnicalSnapshot{CurrentPrice: 180, VolumeRatio: 1.2}
}

func TestAnalyze_FullPipeline(t *testing.T) {
	marketData := &fakeMarketDataRepo{
		fundamentals: sampleFundamentals(),
		news:         []dto.NewsItem{{Title: "Apple beats estimates"}},
		technicals:   sampleTechnicals(),
	}
	ai := &fakeAIRepo{
		enabled:   true,
		synthesis: dto.SynthesisResult{Action: common.ActionBuy, Confidence: 0.8, Reasoning: "strong signals"},
	}
	svc := NewStockAnalyzerService(marketData, ai, logger.NewNop())

	result, err := svc.Analyze(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Symbol)
	assert.Equal(t, common.ActionBuy, result.Action)
	assert.Equal(t, 0.8, result.ConfidenceScore)
	assert.Equal(t, 0.6, result.NewsSentiment)
	assert.Equal(t, 0.4, result.TechnicalScore)
	assert.Equal(t, 0.2, result.FundamentalScore)
	assert.False(t, result.AnalyzedAt.IsZero())

	assert.Equal(t, 1, ai.sentimentCalls)
	assert.Equal(t, 1, ai.technicalCalls)
	assert.Equal(t, 1, ai.fundamentalCalls)
	assert.Equal(t, 1, ai.synthesizeCalls)
}

func TestAnalyze_EmptyNewsShortCircuit(t *testing.T) {
	marketData := &fakeMarketDataRepo{
		fundamentals: sampleFundamentals(),
		news:         nil,
		technicals:   sampleTechnicals(),
	}
	ai := &fakeAIRepo{
		enabled:   true,
		synthesis: dto.SynthesisResult{Action: common.ActionHold, Confidence: 0.6},
	}
	svc := NewStockAnalyzerService(marketData, ai, logger.NewNop())

	result, err := svc.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	// The sentiment analyzer must not reach the model when there is no
	// news to analyze.
	assert.Equal(t, 0, ai.sentimentCalls)
	assert.Zero(t, result.NewsSentiment)
	assert.Empty(t, result.RecentNews)
}

func TestAnalyze_UnconfiguredModelFallsBackToHold(t *testing.T) {
	marketData := &fakeMarketDataRepo{
		fundamentals: sampleFundamentals(),
		news:         []dto.NewsItem{{Title: "headline"}},
		technicals:   sampleTechnicals(),
	}
	ai := &fakeAIRepo{enabled: false}
	svc := NewStockAnalyzerService(marketData, ai, logger.NewNop())

	result, err := svc.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, common.ActionHold, result.Action)
	assert.Equal(t, 0.5, result.ConfidenceScore)
	assert.Contains(t, result.Reasoning, "API key not configured")

	// No model calls at all.
	assert.Zero(t, ai.sentimentCalls)
	assert.Zero(t, ai.technicalCalls)
	assert.Zero(t, ai.fundamentalCalls)
	assert.Zero(t, ai.synthesizeCalls)
}

func TestAnalyze_SymbolNotFoundPropagates(t *testing.T) {
	marketData := &fakeMarketDataRepo{fundamentalsErr: repository.ErrSymbolNotFound}
	ai := &fakeAIRepo{enabled: true}
	svc := NewStockAnalyzerService(marketData, ai, logger.NewNop())

	_, err := svc.Analyze(context.Background(), "NOPE")
	assert.ErrorIs(t, err, repository.ErrSymbolNotFound)
	assert.Zero(t, ai.synthesizeCalls)
}

func TestAnalyze_UpstreamErrorsDegradeToNeutral(t *testing.T) {
	marketData := &fakeMarketDataRepo{
		fundamentals:  sampleFundamentals(),
		newsErr:       errors.New("feed unavailable"),
		technicalsErr: errors.New("chart unavailable"),
	}
	ai := &fakeAIRepo{
		enabled:   true,
		synthesis: dto.SynthesisResult{Action: common.ActionHold, Confidence: 0.55},
	}
	svc := NewStockAnalyzerService(marketData, ai, logger.NewNop())

	result, err := svc.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	// The failed feeds degrade to neutral inputs without reaching the
	// model; fundamentals still get analyzed and synthesis still runs.
	assert.Zero(t, ai.sentimentCalls)
	assert.Zero(t, ai.technicalCalls)
	assert.Equal(t, 1, ai.fundamentalCalls)
	assert.Equal(t, 1, ai.synthesizeCalls)
	assert.Zero(t, result.NewsSentiment)
	assert.Zero(t, result.TechnicalScore)
	assert.Nil(t, result.TechnicalIndicators)
}

func TestAnalyze_ModelErrorFallsBackToHold(t *testing.T) {
	marketData := &fakeMarketDataRepo{
		fundamentals: sampleFundamentals(),
		news:         []dto.NewsItem{{Title: "headline"}},
		technicals:   sampleTechnicals(),
	}
	ai := &fakeAIRepo{
		enabled:       true,
		analyzeErr:    errors.New("model overloaded"),
		synthesizeErr: errors.New("model overloaded"),
	}
	svc := NewStockAnalyzerService(marketData, ai, logger.NewNop())

	result, err := svc.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, common.ActionHold, result.Action)
	assert.Equal(t, 0.3, result.ConfidenceScore)
	assert.Zero(t, result.NewsSentiment)
	assert.Zero(t, result.TechnicalScore)
	assert.Zero(t, result.FundamentalScore)
}
