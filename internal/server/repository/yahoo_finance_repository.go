package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"river-portfolio/internal/server/config"
	"river-portfolio/internal/server/dto"
	"river-portfolio/pkg/formulas"
	"river-portfolio/pkg/logger"
)

type yahooFinanceRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
	feedParser *gofeed.Parser
	limiter    *rate.Limiter
}

// NewYahooFinanceRepository creates a MarketDataRepository backed by the
// Yahoo Finance quote, chart and RSS endpoints.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	return &yahooFinanceRepository{
		cfg:        cfg,
		log:        log,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		feedParser: gofeed.NewParser(),
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.YahooFinance.MaxRequestPerMinute)/60.0), 1),
	}
}

func (r *yahooFinanceRepository) GetFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,summaryProfile,financialData,defaultKeyStatistics",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(strings.ToUpper(symbol)))

	body, status, err := r.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrSymbolNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo quoteSummary returned status %d", status)
	}

	var resp dto.YahooQuoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode quoteSummary response: %w", err)
	}
	if resp.QuoteSummary.Error != nil && resp.QuoteSummary.Error.Code == "Not Found" {
		return nil, ErrSymbolNotFound
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, ErrSymbolNotFound
	}

	res := resp.QuoteSummary.Result[0]
	name := res.Price.LongName
	if name == "" {
		name = res.Price.ShortName
	}
	if name == "" && yahooRaw(res.Price.RegularMarketPrice) == nil {
		return nil, ErrSymbolNotFound
	}

	f := &dto.Fundamentals{
		Symbol:         strings.ToUpper(symbol),
		CompanyName:    name,
		Sector:         res.SummaryProfile.Sector,
		Industry:       res.SummaryProfile.Industry,
		PERatio:        yahooRaw(res.SummaryDetail.TrailingPE),
		EPS:            yahooRaw(res.DefaultKeyStatistics.TrailingEps),
		PriceToBook:    yahooRaw(res.DefaultKeyStatistics.PriceToBook),
		DividendYield:  yahooRaw(res.SummaryDetail.DividendYield),
		ReturnOnEquity: yahooRaw(res.FinancialData.ReturnOnEquity),
		DebtToEquity:   yahooRaw(res.FinancialData.DebtToEquity),
		RevenueGrowth:  yahooRaw(res.FinancialData.RevenueGrowth),
		EarningsGrowth: yahooRaw(res.FinancialData.EarningsGrowth),
		ProfitMargin:   yahooRaw(res.FinancialData.ProfitMargins),
	}
	if p := yahooRaw(res.Price.RegularMarketPrice); p != nil {
		f.CurrentPrice = *p
	}
	if pc := yahooRaw(res.SummaryDetail.PreviousClose); pc != nil {
		f.PreviousClose = *pc
	}
	if mc := yahooRaw(res.Price.MarketCap); mc != nil {
		f.MarketCap = int64(*mc)
	}
	return f, nil
}

func (r *yahooFinanceRepository) GetRecentNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error) {
	endpoint := fmt.Sprintf("%s/rss/2.0/headline?s=%s&region=US&lang=en-US",
		r.cfg.YahooFinance.NewsBaseURL, url.QueryEscape(strings.ToUpper(symbol)))

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	feed, err := r.feedParser.ParseURLWithContext(endpoint, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed for %s: %w", symbol, err)
	}

	items := make([]dto.NewsItem, 0, limit)
	for _, it := range feed.Items {
		if len(items) >= limit {
			break
		}
		n := dto.NewsItem{
			Title:   it.Title,
			Summary: it.Description,
			URL:     it.Link,
			Source:  feed.Title,
		}
		n.PublishedAt = it.PublishedParsed
		items = append(items, n)
	}
	return items, nil
}

func (r *yahooFinanceRepository) GetPriceHistory(ctx context.Context, symbol, period string) ([]dto.OHLCV, error) {
	rangeParam, interval := chartRange(period)
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(strings.ToUpper(symbol)), rangeParam, interval)

	body, status, err := r.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrSymbolNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart returned status %d", status)
	}

	var resp dto.YahooChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if resp.Chart.Error != nil && resp.Chart.Error.Code == "Not Found" {
		return nil, ErrSymbolNotFound
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}

	res := resp.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	bars := make([]dto.OHLCV, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		// Yahoo pads incomplete sessions with nulls; skip them.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := dto.OHLCV{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (r *yahooFinanceRepository) GetTechnicalIndicators(ctx context.Context, symbol string) (*dto.TechnicalSnapshot, error) {
	bars, err := r.GetPriceHistory(ctx, symbol, "3mo")
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price history for %s", symbol)
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}
	current := closes[len(closes)-1]

	snap := &dto.TechnicalSnapshot{
		CurrentPrice:      current,
		MA20:              formulas.SMA(closes, 20),
		MA50:              formulas.SMA(closes, 50),
		RSI:               formulas.RSI(closes, 14),
		VolumeRatio:       formulas.VolumeRatio(volumes, 20),
		Momentum1WeekPct:  formulas.Momentum(closes, 5),
		Momentum1MonthPct: formulas.Momentum(closes, 20),
	}
	snap.PriceVsMA20Pct = formulas.PercentFrom(current, snap.MA20)
	snap.PriceVsMA50Pct = formulas.PercentFrom(current, snap.MA50)
	return snap, nil
}

func (r *yahooFinanceRepository) doGet(ctx context.Context, endpoint string) ([]byte, int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; river-portfolio/1.0)")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to yahoo finance failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func yahooRaw(v *dto.YahooValue) *float64 {
	if v == nil {
		return nil
	}
	raw := v.Raw
	return &raw
}

func chartRange(period string) (string, string) {
	switch period {
	case "1mo", "3mo", "6mo", "1y", "2y", "5y":
		return period, "1d"
	case "5d":
		return "5d", "1d"
	case "1d":
		return "1d", "5m"
	default:
		return "3mo", "1d"
	}
}
