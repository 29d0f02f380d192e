package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"river-portfolio/internal/entity"
	"river-portfolio/internal/server/config"
	"river-portfolio/internal/server/dto"
	"river-portfolio/internal/server/repository"
	"river-portfolio/pkg/common"
	"river-portfolio/pkg/logger"
)

var (
	// ErrInvalidHolding is returned for non-positive share counts or costs.
	ErrInvalidHolding = errors.New("shares and average cost must be positive")
	// ErrHoldingNotFound is returned when removing a symbol the user does
	// not actively hold.
	ErrHoldingNotFound = errors.New("holding not found")
)

// PortfolioService manages the caller's holdings and the stock rows they
// reference.
type PortfolioService interface {
	GetOverview(ctx context.Context, userID uint) (*dto.PortfolioOverviewResponse, error)
	AddHolding(ctx context.Context, userID uint, req *dto.AddHoldingRequest) (*entity.PortfolioHolding, error)
	RemoveHolding(ctx context.Context, userID uint, symbol string) error
	SyncHoldings(ctx context.Context, userID uint, credential string) (*dto.SyncResult, error)
	GetPriceHistory(ctx context.Context, symbol, period string) (*dto.PriceHistoryResponse, error)
	GetOrCreateStock(ctx context.Context, symbol string) (*entity.Stock, error)
}

type portfolioService struct {
	cfg            *config.Config
	logger         *logger.Logger
	stockRepo      repository.StockRepository
	holdingRepo    repository.HoldingRepository
	marketDataRepo repository.MarketDataRepository
	holdingsSource repository.HoldingsSourceRepository
	historyCache   *gocache.Cache
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	stockRepo repository.StockRepository,
	holdingRepo repository.HoldingRepository,
	marketDataRepo repository.MarketDataRepository,
	holdingsSource repository.HoldingsSourceRepository,
) PortfolioService {
	return &portfolioService{
		cfg:            cfg,
		logger:         log,
		stockRepo:      stockRepo,
		holdingRepo:    holdingRepo,
		marketDataRepo: marketDataRepo,
		holdingsSource: holdingsSource,
		historyCache:   gocache.New(common.StockStalenessWindow, 30*time.Minute),
	}
}

// GetOverview aggregates the user's active holdings. Stale quotes are
// refreshed before valuation; a failed refresh falls back to the cached
// price rather than failing the overview.
func (s *portfolioService) GetOverview(ctx context.Context, userID uint) (*dto.PortfolioOverviewResponse, error) {
	holdings, err := s.holdingRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &dto.PortfolioOverviewResponse{
		Holdings:   make([]dto.HoldingResponse, 0, len(holdings)),
		StockCount: len(holdings),
	}

	for i := range holdings {
		h := &holdings[i]
		s.refreshStockIfStale(ctx, &h.Stock)

		overview.TotalValue += h.CurrentValue()
		overview.TotalCost += h.TotalCost()
		overview.Holdings = append(overview.Holdings, dto.HoldingResponse{
			Symbol:          h.Stock.Symbol,
			CompanyName:     h.Stock.CompanyName,
			Shares:          h.Shares,
			AverageCost:     h.AverageCost,
			CurrentPrice:    h.Stock.CurrentPrice,
			CurrentValue:    h.CurrentValue(),
			TotalCost:       h.TotalCost(),
			GainLoss:        h.UnrealizedGainLoss(),
			GainLossPercent: h.UnrealizedGainLossPercent(),
		})
	}

	overview.TotalGainLoss = overview.TotalValue - overview.TotalCost
	if overview.TotalCost > 0 {
		overview.TotalGainLossPercent = overview.TotalGainLoss / overview.TotalCost * 100
	}
	return overview, nil
}

// AddHolding adds shares to the portfolio. Adding a symbol the user already
// holds merges into a single row with a weighted-average cost.
func (s *portfolioService) AddHolding(ctx context.Context, userID uint, req *dto.AddHoldingRequest) (*entity.PortfolioHolding, error) {
	if req.Shares <= 0 || req.AverageCost <= 0 {
		return nil, ErrInvalidHolding
	}

	stock, err := s.GetOrCreateStock(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	existing, err := s.holdingRepo.GetActiveByUserAndStock(ctx, userID, stock.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		totalShares := existing.Shares + req.Shares
		existing.AverageCost = (existing.Shares*existing.AverageCost + req.Shares*req.AverageCost) / totalShares
		existing.Shares = totalShares
		if err := s.holdingRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		existing.Stock = *stock
		return existing, nil
	}

	holding := &entity.PortfolioHolding{
		UserID:       userID,
		StockID:      stock.ID,
		Shares:       req.Shares,
		AverageCost:  req.AverageCost,
		PurchaseDate: req.PurchaseDate,
		IsActive:     true,
	}
	if err := s.holdingRepo.Create(ctx, holding); err != nil {
		return nil, err
	}
	holding.Stock = *stock
	return holding, nil
}

// RemoveHolding deactivates the user's holding for the symbol. The row is
// kept for history; the stock row stays untouched.
func (s *portfolioService) RemoveHolding(ctx context.Context, userID uint, symbol string) error {
	stock, err := s.stockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return err
	}
	if stock == nil {
		return ErrHoldingNotFound
	}

	removed, err := s.holdingRepo.Deactivate(ctx, userID, stock.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrHoldingNotFound
	}
	return nil
}

// SyncHoldings imports the configured holdings source into the portfolio.
// Source rows merge through AddHolding, so re-syncing an already imported
// portfolio keeps the weighted-average semantics.
func (s *portfolioService) SyncHoldings(ctx context.Context, userID uint, credential string) (*dto.SyncResult, error) {
	brokerHoldings, err := s.holdingsSource.FetchHoldings(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holdings from %s: %w", s.holdingsSource.Provider(), err)
	}

	result := &dto.SyncResult{
		Source:    s.holdingsSource.Provider(),
		Timestamp: time.Now().UTC(),
	}
	for _, bh := range brokerHoldings {
		if bh.Quantity <= 0 || bh.AverageCost <= 0 {
			result.SkippedCount++
			continue
		}
		_, err := s.AddHolding(ctx, userID, &dto.AddHoldingRequest{
			Symbol:      bh.Symbol,
			Shares:      bh.Quantity,
			AverageCost: bh.AverageCost,
		})
		if err != nil {
			s.logger.Warn("Failed to sync holding",
				logger.StringField("symbol", bh.Symbol), logger.ErrorField(err))
			result.SkippedCount++
			continue
		}
		result.SyncedCount++
	}

	s.logger.Info("Holdings sync completed",
		logger.StringField("source", result.Source),
		logger.IntField("synced", result.SyncedCount),
		logger.IntField("skipped", result.SkippedCount),
	)
	return result, nil
}

// GetPriceHistory returns the OHLCV series for charting. Series are cached
// in memory per symbol and period for the staleness window.
func (s *portfolioService) GetPriceHistory(ctx context.Context, symbol, period string) (*dto.PriceHistoryResponse, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	cacheKey := symbol + ":" + period

	if cached, ok := s.historyCache.Get(cacheKey); ok {
		return cached.(*dto.PriceHistoryResponse), nil
	}

	bars, err := s.marketDataRepo.GetPriceHistory(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	resp := &dto.PriceHistoryResponse{
		Symbol: symbol,
		Period: period,
		Data:   bars,
	}
	s.historyCache.Set(cacheKey, resp, gocache.DefaultExpiration)
	return resp, nil
}

// GetOrCreateStock resolves the symbol to a stock row, creating it from
// provider fundamentals on first reference. An unresolvable symbol returns
// repository.ErrSymbolNotFound and creates nothing.
func (s *portfolioService) GetOrCreateStock(ctx context.Context, symbol string) (*entity.Stock, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	stock, err := s.stockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		s.refreshStockIfStale(ctx, stock)
		return stock, nil
	}

	fundamentals, err := s.marketDataRepo.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	stock = &entity.Stock{
		Symbol:        symbol,
		CompanyName:   fundamentals.CompanyName,
		Sector:        fundamentals.Sector,
		CurrentPrice:  fundamentals.CurrentPrice,
		PreviousClose: fundamentals.PreviousClose,
		MarketCap:     fundamentals.MarketCap,
		PERatio:       fundamentals.PERatio,
		LastUpdated:   time.Now().UTC(),
	}
	if err := s.stockRepo.Create(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// refreshStockIfStale re-fetches quote fields when the cached row is older
// than the staleness window. Failures are logged and the stale row is used.
func (s *portfolioService) refreshStockIfStale(ctx context.Context, stock *entity.Stock) {
	if stock == nil || stock.ID == 0 || !stock.IsStale(common.StockStalenessWindow) {
		return
	}

	fundamentals, err := s.marketDataRepo.GetFundamentals(ctx, stock.Symbol)
	if err != nil {
		s.logger.Warn("Failed to refresh stale stock, using cached data",
			logger.StringField("symbol", stock.Symbol), logger.ErrorField(err))
		return
	}

	stock.CurrentPrice = fundamentals.CurrentPrice
	stock.PreviousClose = fundamentals.PreviousClose
	stock.MarketCap = fundamentals.MarketCap
	stock.PERatio = fundamentals.PERatio
	if fundamentals.CompanyName != "" {
		stock.CompanyName = fundamentals.CompanyName
	}
	if fundamentals.Sector != "" {
		stock.Sector = fundamentals.Sector
	}
	stock.LastUpdated = time.Now().UTC()

	if err := s.stockRepo.Update(ctx, stock); err != nil {
		s.logger.Warn("Failed to persist refreshed stock",
			logger.StringField("symbol", stock.Symbol), logger.ErrorField(err))
	}
}
