package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	"river-portfolio/internal/entity"
	"river-portfolio/internal/server/config"
	"river-portfolio/internal/server/dto"
	"river-portfolio/internal/server/repository"
	"river-portfolio/pkg/common"
	"river-portfolio/pkg/locks"
	"river-portfolio/pkg/logger"
	"river-portfolio/pkg/telegram"
	"river-portfolio/pkg/utils"
)

// RecommendationService stores analysis results, tracks action transitions,
// and drives the portfolio-wide refresh.
type RecommendationService interface {
	AnalyzeAndRecord(ctx context.Context, symbol string) (*dto.AnalysisResult, error)
	Record(ctx context.Context, symbol string, result *dto.AnalysisResult) (*entity.Recommendation, *entity.RecommendationChange, error)
	RefreshAll(ctx context.Context, userID uint) (*dto.RefreshSummary, error)
	GetStocksWithRecommendations(ctx context.Context, userID uint) ([]dto.StockWithRecommendation, error)
	GetTopChanges(ctx context.Context, userID uint, since time.Duration, limit int) ([]dto.RecommendationChangeResponse, error)
	GetForSymbol(ctx context.Context, symbol string) (*dto.RecommendationResponse, error)
}

type recommendationService struct {
	cfg          *config.Config
	logger       *logger.Logger
	analyzer     StockAnalyzerService
	portfolioSvc PortfolioService
	stockRepo    repository.StockRepository
	holdingRepo  repository.HoldingRepository
	recRepo      repository.RecommendationRepository
	locker       locks.Locker
	notifier     telegram.Notifier
}

// NewRecommendationService creates a new instance of RecommendationService.
func NewRecommendationService(
	cfg *config.Config,
	log *logger.Logger,
	analyzer StockAnalyzerService,
	portfolioSvc PortfolioService,
	stockRepo repository.StockRepository,
	holdingRepo repository.HoldingRepository,
	recRepo repository.RecommendationRepository,
	locker locks.Locker,
	notifier telegram.Notifier,
) RecommendationService {
	return &recommendationService{
		cfg:          cfg,
		logger:       log,
		analyzer:     analyzer,
		portfolioSvc: portfolioSvc,
		stockRepo:    stockRepo,
		holdingRepo:  holdingRepo,
		recRepo:      recRepo,
		locker:       locker,
		notifier:     notifier,
	}
}

// AnalyzeAndRecord runs the full pipeline for one symbol and persists the
// outcome.
func (s *recommendationService) AnalyzeAndRecord(ctx context.Context, symbol string) (*dto.AnalysisResult, error) {
	result, err := s.analyzer.Analyze(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.Record(ctx, symbol, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Record persists one analysis result. A per-symbol advisory lock serializes
// concurrent recorders so the previous-action read and the insert form one
// logical unit; the change row is created only when the action differs from
// the immediately preceding recommendation. Returns the persisted row and
// the change row, or nil when no transition occurred.
func (s *recommendationService) Record(ctx context.Context, symbol string, result *dto.AnalysisResult) (*entity.Recommendation, *entity.RecommendationChange, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	stock, err := s.portfolioSvc.GetOrCreateStock(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}

	lockKey := common.RecommendationLockPrefix + symbol
	if err := s.locker.Acquire(ctx, lockKey); err != nil {
		return nil, nil, fmt.Errorf("failed to acquire lock for %s: %w", symbol, err)
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("Failed to release recommendation lock",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	}()

	previous, err := s.recRepo.GetLatestByStockID(ctx, stock.ID)
	if err != nil {
		return nil, nil, err
	}

	rec := &entity.Recommendation{
		StockID:          stock.ID,
		Action:           result.Action,
		ConfidenceScore:  result.ConfidenceScore,
		Reasoning:        result.Reasoning,
		NewsSentiment:    result.NewsSentiment,
		TechnicalScore:   result.TechnicalScore,
		FundamentalScore: result.FundamentalScore,
	}
	if len(result.RecentNews) > 0 {
		raw, err := json.Marshal(result.RecentNews)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal news snapshot: %w", err)
		}
		rec.RecentNews = datatypes.JSON(raw)
	}
	if result.TechnicalIndicators != nil {
		raw, err := json.Marshal(result.TechnicalIndicators)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal technical snapshot: %w", err)
		}
		rec.TechnicalData = datatypes.JSON(raw)
	}

	var change *entity.RecommendationChange
	if previous != nil && previous.Action != result.Action {
		change = &entity.RecommendationChange{
			StockID:        stock.ID,
			PreviousAction: previous.Action,
			NewAction:      result.Action,
		}
	}

	if err := s.recRepo.CreateWithChange(ctx, rec, change); err != nil {
		return nil, nil, err
	}

	if change != nil {
		s.logger.Info("Recommendation changed",
			logger.StringField("symbol", symbol),
			logger.StringField("previous", change.PreviousAction),
			logger.StringField("new", change.NewAction),
		)
	}
	return rec, change, nil
}

// RefreshAll re-analyzes every distinct symbol in the user's active
// portfolio with a bounded number of workers. One symbol's failure never
// aborts the batch; per-symbol errors are collected into the summary.
func (s *recommendationService) RefreshAll(ctx context.Context, userID uint) (*dto.RefreshSummary, error) {
	holdings, err := s.holdingRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		sym := strings.ToUpper(h.Stock.Symbol)
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}

	summary := &dto.RefreshSummary{
		TotalStocks: len(symbols),
		Errors:      []string{},
		Timestamp:   time.Now().UTC(),
	}
	if len(symbols) == 0 {
		return summary, nil
	}

	maxWorkers := s.cfg.Refresh.MaxConcurrentAnalyses
	if maxWorkers > len(symbols) {
		maxWorkers = len(symbols)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, maxWorkers)
		alerts    []telegram.RecommendationChangeAlert
	)

	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}
		sym := symbol
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			analysisCtx, cancel := context.WithTimeout(ctx, s.cfg.Refresh.AnalysisTimeout)
			defer cancel()

			result, err := s.analyzer.Analyze(analysisCtx, sym)
			if err != nil {
				mu.Lock()
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", sym, err.Error()))
				mu.Unlock()
				return
			}

			_, change, err := s.Record(analysisCtx, sym, result)
			if err != nil {
				mu.Lock()
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", sym, err.Error()))
				mu.Unlock()
				return
			}

			mu.Lock()
			summary.UpdatedCount++
			if change != nil {
				summary.ChangedCount++
				alerts = append(alerts, telegram.RecommendationChangeAlert{
					Symbol:         sym,
					PreviousAction: change.PreviousAction,
					NewAction:      change.NewAction,
					Confidence:     result.ConfidenceScore,
				})
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	s.logger.Info("Portfolio refresh completed",
		logger.IntField("total", summary.TotalStocks),
		logger.IntField("updated", summary.UpdatedCount),
		logger.IntField("changed", summary.ChangedCount),
		logger.IntField("errors", len(summary.Errors)),
	)

	if summary.ChangedCount > 0 {
		msg := telegram.FormatRefreshSummaryMessage(summary.Timestamp, summary.UpdatedCount, summary.TotalStocks, alerts)
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.Warn("Failed to send refresh alert", logger.ErrorField(err))
		}
	}

	return summary, nil
}

// GetStocksWithRecommendations lists the user's portfolio stocks with their
// holding valuation and latest recommendation, sorted by current value
// descending.
func (s *recommendationService) GetStocksWithRecommendations(ctx context.Context, userID uint) ([]dto.StockWithRecommendation, error) {
	holdings, err := s.holdingRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.StockWithRecommendation, 0, len(holdings))
	for _, h := range holdings {
		stock := h.Stock

		priceChangePct := 0.0
		if stock.PreviousClose > 0 {
			priceChangePct = (stock.CurrentPrice - stock.PreviousClose) / stock.PreviousClose * 100
		}

		item := dto.StockWithRecommendation{
			Symbol:             stock.Symbol,
			CompanyName:        stock.CompanyName,
			CurrentPrice:       stock.CurrentPrice,
			PreviousClose:      stock.PreviousClose,
			PriceChangePercent: priceChangePct,
			Shares:             h.Shares,
			CurrentValue:       h.CurrentValue(),
			GainLoss:           h.UnrealizedGainLoss(),
			GainLossPercent:    h.UnrealizedGainLossPercent(),
			Recommendation: dto.RecommendationSummary{
				Action:     common.ActionHold,
				Confidence: 0,
				Reasoning:  "No analysis available yet",
			},
		}

		latest, err := s.recRepo.GetLatestByStockID(ctx, stock.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			createdAt := latest.CreatedAt
			item.Recommendation = dto.RecommendationSummary{
				Action:           latest.Action,
				Confidence:       latest.ConfidenceScore,
				Reasoning:        latest.Reasoning,
				LastUpdated:      &createdAt,
				NewsSentiment:    latest.NewsSentiment,
				TechnicalScore:   latest.TechnicalScore,
				FundamentalScore: latest.FundamentalScore,
			}
		}
		result = append(result, item)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CurrentValue > result[j].CurrentValue
	})
	return result, nil
}

// GetTopChanges lists recent recommendation transitions for stocks still in
// the user's active portfolio.
func (s *recommendationService) GetTopChanges(ctx context.Context, userID uint, since time.Duration, limit int) ([]dto.RecommendationChangeResponse, error) {
	holdings, err := s.holdingRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	held := make(map[uint]entity.PortfolioHolding, len(holdings))
	for _, h := range holdings {
		held[h.StockID] = h
	}

	changes, err := s.recRepo.GetChangesSince(ctx, time.Now().Add(-since), 0)
	if err != nil {
		return nil, err
	}

	result := make([]dto.RecommendationChangeResponse, 0, limit)
	for _, c := range changes {
		h, ok := held[c.StockID]
		if !ok {
			continue
		}
		if len(result) >= limit {
			break
		}

		item := dto.RecommendationChangeResponse{
			Symbol:                 c.Stock.Symbol,
			CompanyName:            c.Stock.CompanyName,
			CurrentPrice:           c.Stock.CurrentPrice,
			PreviousRecommendation: c.PreviousAction,
			NewRecommendation:      c.NewAction,
			ChangeDate:             c.CreatedAt,
			CurrentValue:           h.CurrentValue(),
		}
		latest, err := s.recRepo.GetLatestByStockID(ctx, c.StockID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			item.Confidence = latest.ConfidenceScore
			item.Reasoning = latest.Reasoning
		}
		result = append(result, item)
	}
	return result, nil
}

// GetForSymbol returns the latest stored recommendation for a symbol, or nil
// when the symbol has never been analyzed.
func (s *recommendationService) GetForSymbol(ctx context.Context, symbol string) (*dto.RecommendationResponse, error) {
	stock, err := s.stockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, nil
	}

	latest, err := s.recRepo.GetLatestByStockID(ctx, stock.ID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	return &dto.RecommendationResponse{
		Symbol:              stock.Symbol,
		CompanyName:         stock.CompanyName,
		Action:              latest.Action,
		ConfidenceScore:     latest.ConfidenceScore,
		Reasoning:           latest.Reasoning,
		NewsSentiment:       latest.NewsSentiment,
		TechnicalScore:      latest.TechnicalScore,
		FundamentalScore:    latest.FundamentalScore,
		CreatedAt:           latest.CreatedAt,
		RecentNews:          json.RawMessage(latest.RecentNews),
		TechnicalIndicators: json.RawMessage(latest.TechnicalData),
	}, nil
}
