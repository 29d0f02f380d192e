package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"river-portfolio/internal/server/dto"
	"river-portfolio/internal/server/repository"
	"river-portfolio/pkg/common"
	"river-portfolio/pkg/logger"
	"river-portfolio/pkg/utils"
)

// StockAnalyzerService runs the full analysis pipeline for one symbol:
// market-data collection, three independent model analyses, and the final
// synthesis into a BUY/HOLD/SELL verdict.
type StockAnalyzerService interface {
	Analyze(ctx context.Context, symbol string) (*dto.AnalysisResult, error)
}

type stockAnalyzerService struct {
	marketDataRepo repository.MarketDataRepository
	aiRepo         repository.AIRepository
	logger         *logger.Logger
}

// NewStockAnalyzerService creates a new instance of StockAnalyzerService.
func NewStockAnalyzerService(
	marketDataRepo repository.MarketDataRepository,
	aiRepo repository.AIRepository,
	log *logger.Logger,
) StockAnalyzerService {
	return &stockAnalyzerService{
		marketDataRepo: marketDataRepo,
		aiRepo:         aiRepo,
		logger:         log,
	}
}

// Analyze collects fundamentals, news and technical indicators for the
// symbol, runs the three analyzers concurrently, and synthesizes the final
// recommendation. Only an unresolvable symbol fails the pipeline; every
// other upstream failure degrades to a neutral component result.
func (s *stockAnalyzerService) Analyze(ctx context.Context, symbol string) (*dto.AnalysisResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	fundamentals, err := s.marketDataRepo.GetFundamentals(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrSymbolNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to fetch fundamentals",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		fundamentals = nil
	}

	news, err := s.marketDataRepo.GetRecentNews(ctx, symbol, common.NewsSnapshotSize)
	if err != nil {
		s.logger.Warn("Failed to fetch news, continuing without it",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		news = nil
	}

	technicals, err := s.marketDataRepo.GetTechnicalIndicators(ctx, symbol)
	if err != nil {
		s.logger.Warn("Failed to fetch technical indicators, continuing without them",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		technicals = nil
	}

	sentiment, technical, fundamental := s.runAnalyzers(ctx, symbol, fundamentals, news, technicals)

	synthesis := s.synthesize(ctx, symbol, fundamentals, sentiment, technical, fundamental)

	return &dto.AnalysisResult{
		Symbol:              symbol,
		Action:              synthesis.Action,
		ConfidenceScore:     synthesis.Confidence,
		Reasoning:           synthesis.Reasoning,
		NewsSentiment:       sentiment.Score,
		TechnicalScore:      technical.Score,
		FundamentalScore:    fundamental.Score,
		RecentNews:          news,
		TechnicalIndicators: technicals,
		AnalyzedAt:          time.Now().UTC(),
	}, nil
}

// runAnalyzers fans the three component analyses out on separate goroutines.
// Each goroutine writes only its own result slot, so no locking is needed.
func (s *stockAnalyzerService) runAnalyzers(
	ctx context.Context,
	symbol string,
	fundamentals *dto.Fundamentals,
	news []dto.NewsItem,
	technicals *dto.TechnicalSnapshot,
) (sentiment, technical, fundamental dto.AnalyzerResult) {
	var wg sync.WaitGroup
	wg.Add(3)

	utils.GoSafe(func() {
		defer wg.Done()
		sentiment = s.analyzeSentiment(ctx, symbol, news)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		technical = s.analyzeTechnicals(ctx, symbol, technicals)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		fundamental = s.analyzeFundamentals(ctx, symbol, fundamentals)
	})

	wg.Wait()
	return sentiment, technical, fundamental
}

func (s *stockAnalyzerService) analyzeSentiment(ctx context.Context, symbol string, news []dto.NewsItem) dto.AnalyzerResult {
	if len(news) == 0 {
		return dto.NeutralAnalyzerResult("No recent news available")
	}
	if !s.aiRepo.Enabled() {
		return dto.NeutralAnalyzerResult("Gemini API key not configured")
	}

	result, err := s.aiRepo.AnalyzeSentiment(ctx, symbol, news)
	if err != nil {
		s.logger.Error("Sentiment analysis failed",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.NeutralAnalyzerResult("Error in sentiment analysis: " + err.Error())
	}
	return *result
}

func (s *stockAnalyzerService) analyzeTechnicals(ctx context.Context, symbol string, technicals *dto.TechnicalSnapshot) dto.AnalyzerResult {
	if technicals == nil {
		return dto.NeutralAnalyzerResult("No technical data available")
	}
	if !s.aiRepo.Enabled() {
		return dto.NeutralAnalyzerResult("Gemini API key not configured")
	}

	result, err := s.aiRepo.AnalyzeTechnicals(ctx, symbol, technicals)
	if err != nil {
		s.logger.Error("Technical analysis failed",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.NeutralAnalyzerResult("Error in technical analysis: " + err.Error())
	}
	return *result
}

func (s *stockAnalyzerService) analyzeFundamentals(ctx context.Context, symbol string, fundamentals *dto.Fundamentals) dto.AnalyzerResult {
	if fundamentals == nil {
		return dto.NeutralAnalyzerResult("No fundamental data available")
	}
	if !s.aiRepo.Enabled() {
		return dto.NeutralAnalyzerResult("Gemini API key not configured")
	}

	result, err := s.aiRepo.AnalyzeFundamentals(ctx, symbol, fundamentals)
	if err != nil {
		s.logger.Error("Fundamental analysis failed",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.NeutralAnalyzerResult("Error in fundamental analysis: " + err.Error())
	}
	return *result
}

// synthesize produces the final verdict. When the model is unconfigured or
// the call fails, the documented deterministic HOLD fallback is returned so
// a recommendation row always exists after an analysis.
func (s *stockAnalyzerService) synthesize(
	ctx context.Context,
	symbol string,
	fundamentals *dto.Fundamentals,
	sentiment, technical, fundamental dto.AnalyzerResult,
) dto.SynthesisResult {
	if !s.aiRepo.Enabled() {
		return dto.SynthesisResult{
			Action:     common.ActionHold,
			Confidence: 0.5,
			Reasoning:  "Gemini API key not configured. Please add your API key to get AI-powered recommendations.",
			Degraded:   true,
		}
	}

	result, err := s.aiRepo.Synthesize(ctx, symbol, fundamentals, sentiment, technical, fundamental)
	if err != nil {
		s.logger.Error("Final synthesis failed",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.SynthesisResult{
			Action:     common.ActionHold,
			Confidence: 0.3,
			Reasoning:  "Error in final analysis: " + err.Error(),
			Degraded:   true,
		}
	}
	return *result
}
