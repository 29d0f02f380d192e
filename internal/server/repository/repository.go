package repository

import (
	"context"
	"errors"

	"river-portfolio/internal/server/dto"
)

// ErrSymbolNotFound is returned when the market-data provider cannot resolve
// a symbol to a company. Callers must not create recommendations for
// unresolvable symbols.
var ErrSymbolNotFound = errors.New("symbol not found")

// MarketDataRepository wraps the external market-data provider. Every call
// hits the provider; staleness checks are the caller's responsibility.
type MarketDataRepository interface {
	GetFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error)
	GetRecentNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error)
	GetPriceHistory(ctx context.Context, symbol, period string) ([]dto.OHLCV, error)
	GetTechnicalIndicators(ctx context.Context, symbol string) (*dto.TechnicalSnapshot, error)
}

// AIRepository wraps the language-model provider. Each analyzer method makes
// a single blocking model call with no retry; errors are returned to the
// caller, which degrades them to the neutral fallback.
type AIRepository interface {
	// Enabled reports whether the provider is configured. When false,
	// callers must use the documented fallbacks without attempting a call.
	Enabled() bool
	AnalyzeSentiment(ctx context.Context, symbol string, news []dto.NewsItem) (*dto.AnalyzerResult, error)
	AnalyzeTechnicals(ctx context.Context, symbol string, snapshot *dto.TechnicalSnapshot) (*dto.AnalyzerResult, error)
	AnalyzeFundamentals(ctx context.Context, symbol string, fundamentals *dto.Fundamentals) (*dto.AnalyzerResult, error)
	Synthesize(ctx context.Context, symbol string, fundamentals *dto.Fundamentals, sentiment, technical, fundamental dto.AnalyzerResult) (*dto.SynthesisResult, error)
}

// HoldingsSourceRepository fetches the caller's holdings from an external
// source. Implementations are interchangeable and selected by configuration.
type HoldingsSourceRepository interface {
	Provider() string
	FetchHoldings(ctx context.Context, credential string) ([]dto.BrokerHolding, error)
}
