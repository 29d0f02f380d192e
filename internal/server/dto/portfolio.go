package dto

import "time"

// AddHoldingRequest adds shares of a symbol to the caller's portfolio.
// Adding a symbol that is already held merges into a weighted-average cost.
type AddHoldingRequest struct {
	Symbol       string     `json:"symbol"`
	Shares       float64    `json:"shares"`
	AverageCost  float64    `json:"average_cost"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
}

// HoldingResponse is one holding row with derived valuation fields.
type HoldingResponse struct {
	Symbol          string  `json:"symbol"`
	CompanyName     string  `json:"company_name"`
	Shares          float64 `json:"shares"`
	AverageCost     float64 `json:"average_cost"`
	CurrentPrice    float64 `json:"current_price"`
	CurrentValue    float64 `json:"current_value"`
	TotalCost       float64 `json:"total_cost"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
}

// PortfolioOverviewResponse aggregates the caller's active holdings.
type PortfolioOverviewResponse struct {
	TotalValue           float64           `json:"total_value"`
	TotalCost            float64           `json:"total_cost"`
	TotalGainLoss        float64           `json:"total_gain_loss"`
	TotalGainLossPercent float64           `json:"total_gain_loss_percent"`
	StockCount           int               `json:"stock_count"`
	Holdings             []HoldingResponse `json:"holdings"`
}

// PriceHistoryResponse is the OHLCV series for one symbol and period.
type PriceHistoryResponse struct {
	Symbol string  `json:"symbol"`
	Period string  `json:"period"`
	Data   []OHLCV `json:"data"`
}

// SyncResult summarizes one holdings-source sync pass.
type SyncResult struct {
	Source       string    `json:"source"`
	SyncedCount  int       `json:"synced_count"`
	SkippedCount int       `json:"skipped_count"`
	Timestamp    time.Time `json:"timestamp"`
}
