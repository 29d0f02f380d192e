package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"river-portfolio/internal/entity"
	"river-portfolio/internal/server/dto"
	"river-portfolio/internal/server/repository"
)

// fakeMarketDataRepo returns canned market data and counts calls.
type fakeMarketDataRepo struct {
	mu sync.Mutex

	fundamentals    *dto.Fundamentals
	fundamentalsErr error
	news            []dto.NewsItem
	newsErr         error
	technicals      *dto.TechnicalSnapshot
	technicalsErr   error
	history         []dto.OHLCV
	historyErr      error

	historyCalls int
}

func (f *fakeMarketDataRepo) GetFundamentals(_ context.Context, _ string) (*dto.Fundamentals, error) {
	return f.fundamentals, f.fundamentalsErr
}

func (f *fakeMarketDataRepo) GetRecentNews(_ context.Context, _ string, _ int) ([]dto.NewsItem, error) {
	return f.news, f.newsErr
}

func (f *fakeMarketDataRepo) GetPriceHistory(_ context.Context, _ string, _ string) ([]dto.OHLCV, error) {
	f.mu.Lock()
	f.historyCalls++
	f.mu.Unlock()
	return f.history, f.historyErr
}

func (f *fakeMarketDataRepo) GetTechnicalIndicators(_ context.Context, _ string) (*dto.TechnicalSnapshot, error) {
	return f.technicals, f.technicalsErr
}

// fakeAIRepo returns canned analyses and counts model calls per method.
type fakeAIRepo struct {
	mu sync.Mutex

	enabled       bool
	analyzeErr    error
	synthesizeErr error
	synthesis     dto.SynthesisResult

	sentimentCalls   int
	technicalCalls   int
	fundamentalCalls int
	synthesizeCalls  int
}

func (f *fakeAIRepo) Enabled() bool { return f.enabled }

func (f *fakeAIRepo) AnalyzeSentiment(_ context.Context, _ string, _ []dto.NewsItem) (*dto.AnalyzerResult, error) {
	f.mu.Lock()
	f.sentimentCalls++
	f.mu.Unlock()
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return &dto.AnalyzerResult{Score: 0.6, Reasoning: "positive coverage"}, nil
}

func (f *fakeAIRepo) AnalyzeTechnicals(_ context.Context, _ string, _ *dto.TechnicalSnapshot) (*dto.AnalyzerResult, error) {
	f.mu.Lock()
	f.technicalCalls++
	f.mu.Unlock()
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return &dto.AnalyzerResult{Score: 0.4, Reasoning: "above moving averages"}, nil
}

func (f *fakeAIRepo) AnalyzeFundamentals(_ context.Context, _ string, _ *dto.Fundamentals) (*dto.AnalyzerResult, error) {
	f.mu.Lock()
	f.fundamentalCalls++
	f.mu.Unlock()
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return &dto.AnalyzerResult{Score: 0.2, Reasoning: "fair valuation"}, nil
}

func (f *fakeAIRepo) Synthesize(_ context.Context, _ string, _ *dto.Fundamentals, _, _, _ dto.AnalyzerResult) (*dto.SynthesisResult, error) {
	f.mu.Lock()
	f.synthesizeCalls++
	f.mu.Unlock()
	if f.synthesizeErr != nil {
		return nil, f.synthesizeErr
	}
	s := f.synthesis
	return &s, nil
}

// fakeStockRepo is an in-memory StockRepository.
type fakeStockRepo struct {
	mu     sync.Mutex
	nextID uint
	stocks map[string]*entity.Stock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{nextID: 1, stocks: map[string]*entity.Stock{}}
}

func (f *fakeStockRepo) GetBySymbol(_ context.Context, symbol string) (*entity.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stocks[symbol]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStockRepo) GetByID(_ context.Context, id uint) (*entity.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stocks {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStockRepo) GetAll(_ context.Context) ([]entity.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Stock, 0, len(f.stocks))
	for _, s := range f.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStockRepo) Create(_ context.Context, stock *entity.Stock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stock.ID = f.nextID
	f.nextID++
	cp := *stock
	f.stocks[stock.Symbol] = &cp
	return nil
}

func (f *fakeStockRepo) Update(_ context.Context, stock *entity.Stock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *stock
	f.stocks[stock.Symbol] = &cp
	return nil
}

// fakeHoldingRepo is an in-memory HoldingRepository. Listing mimics the
// real repository's Stock preload through the linked stock repo.
type fakeHoldingRepo struct {
	mu       sync.Mutex
	nextID   uint
	holdings []*entity.PortfolioHolding
	stocks   *fakeStockRepo
}

func newFakeHoldingRepo(stocks *fakeStockRepo) *fakeHoldingRepo {
	return &fakeHoldingRepo{nextID: 1, stocks: stocks}
}

func (f *fakeHoldingRepo) GetActiveByUserID(_ context.Context, userID uint) ([]entity.PortfolioHolding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.PortfolioHolding
	for _, h := range f.holdings {
		if h.UserID == userID && h.IsActive {
			cp := *h
			if f.stocks != nil {
				if s, _ := f.stocks.GetByID(context.Background(), h.StockID); s != nil {
					cp.Stock = *s
				}
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeHoldingRepo) GetActiveByUserAndStock(_ context.Context, userID, stockID uint) (*entity.PortfolioHolding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holdings {
		if h.UserID == userID && h.StockID == stockID && h.IsActive {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeHoldingRepo) Create(_ context.Context, holding *entity.PortfolioHolding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	holding.ID = f.nextID
	f.nextID++
	cp := *holding
	f.holdings = append(f.holdings, &cp)
	return nil
}

func (f *fakeHoldingRepo) Update(_ context.Context, holding *entity.PortfolioHolding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, h := range f.holdings {
		if h.ID == holding.ID {
			cp := *holding
			f.holdings[i] = &cp
			return nil
		}
	}
	return errors.New("holding not found")
}

func (f *fakeHoldingRepo) Deactivate(_ context.Context, userID, stockID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holdings {
		if h.UserID == userID && h.StockID == stockID && h.IsActive {
			h.IsActive = false
			return true, nil
		}
	}
	return false, nil
}

// fakeRecommendationRepo is an in-memory RecommendationRepository. It mimics
// the transactional CreateWithChange by appending both rows atomically under
// one lock.
type fakeRecommendationRepo struct {
	mu      sync.Mutex
	nextID  int64
	recs    []entity.Recommendation
	changes []entity.RecommendationChange

	createErr error
}

func newFakeRecommendationRepo() *fakeRecommendationRepo {
	return &fakeRecommendationRepo{nextID: 1}
}

func (f *fakeRecommendationRepo) GetLatestByStockID(_ context.Context, stockID uint) (*entity.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.recs) - 1; i >= 0; i-- {
		if f.recs[i].StockID == stockID {
			cp := f.recs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRecommendationRepo) GetHistoryByStockID(_ context.Context, stockID uint, limit int) ([]entity.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Recommendation
	for i := len(f.recs) - 1; i >= 0; i-- {
		if f.recs[i].StockID == stockID {
			out = append(out, f.recs[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRecommendationRepo) Create(_ context.Context, rec *entity.Recommendation) error {
	return f.CreateWithChange(context.Background(), rec, nil)
}

func (f *fakeRecommendationRepo) CreateWithChange(_ context.Context, rec *entity.Recommendation, change *entity.RecommendationChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	rec.ID = f.nextID
	f.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	f.recs = append(f.recs, *rec)
	if change != nil {
		change.ID = f.nextID
		f.nextID++
		if change.CreatedAt.IsZero() {
			change.CreatedAt = time.Now()
		}
		f.changes = append(f.changes, *change)
	}
	return nil
}

func (f *fakeRecommendationRepo) GetChangesSince(_ context.Context, since time.Time, limit int) ([]entity.RecommendationChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.RecommendationChange
	for i := len(f.changes) - 1; i >= 0; i-- {
		if !f.changes[i].CreatedAt.Before(since) {
			out = append(out, f.changes[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRecommendationRepo) GetChangesByStockID(_ context.Context, stockID uint) ([]entity.RecommendationChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.RecommendationChange
	for _, c := range f.changes {
		if c.StockID == stockID {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeHoldingsSource returns canned broker holdings.
type fakeHoldingsSource struct {
	provider string
	holdings []dto.BrokerHolding
	err      error
}

func (f *fakeHoldingsSource) Provider() string { return f.provider }

func (f *fakeHoldingsSource) FetchHoldings(_ context.Context, _ string) ([]dto.BrokerHolding, error) {
	return f.holdings, f.err
}

// fakeAnalyzer returns per-symbol canned analysis results.
type fakeAnalyzer struct {
	mu      sync.Mutex
	results map[string]*dto.AnalysisResult
	errs    map[string]error
	calls   int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, symbol string) (*dto.AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if r, ok := f.results[symbol]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repository.ErrSymbolNotFound
}
