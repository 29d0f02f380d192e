package dto

import "time"

// Fundamentals bundles the fundamental metrics for one symbol as returned by
// the market-data provider. Ratio fields are pointers because the provider
// omits them for many instruments.
type Fundamentals struct {
	Symbol         string   `json:"symbol"`
	CompanyName    string   `json:"company_name"`
	Sector         string   `json:"sector"`
	Industry       string   `json:"industry"`
	CurrentPrice   float64  `json:"current_price"`
	PreviousClose  float64  `json:"previous_close"`
	MarketCap      int64    `json:"market_cap"`
	PERatio        *float64 `json:"pe_ratio,omitempty"`
	EPS            *float64 `json:"eps,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
	ForwardPE      *float64 `json:"forward_pe,omitempty"`
	PriceToBook    *float64 `json:"price_to_book,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnEquity *float64 `json:"roe,omitempty"`
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`
	DividendYield  *float64 `json:"dividend_yield,omitempty"`
	Beta           *float64 `json:"beta,omitempty"`
	TargetPrice    *float64 `json:"target_price,omitempty"`
}

// NewsItem is one headline with its publication metadata.
type NewsItem struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	URL         string     `json:"url"`
}

// OHLCV is one daily bar of price history.
type OHLCV struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// TechnicalSnapshot holds the indicators computed from three months of daily
// history. MA and RSI fields are nil when there is not enough history to
// compute them; absent is reported as absent, never as zero.
type TechnicalSnapshot struct {
	CurrentPrice      float64  `json:"current_price"`
	MA20              *float64 `json:"ma_20,omitempty"`
	MA50              *float64 `json:"ma_50,omitempty"`
	RSI               *float64 `json:"rsi,omitempty"`
	PriceVsMA20Pct    *float64 `json:"price_vs_ma20_percent,omitempty"`
	PriceVsMA50Pct    *float64 `json:"price_vs_ma50_percent,omitempty"`
	VolumeRatio       float64  `json:"volume_ratio"`
	Momentum1WeekPct  float64  `json:"momentum_1w_percent"`
	Momentum1MonthPct float64  `json:"momentum_1m_percent"`
}

// BrokerHolding is one holding row as reported by an external holdings
// source (demo seed, brokerage, or account aggregator).
type BrokerHolding struct {
	Symbol      string  `json:"symbol"`
	ISIN        string  `json:"isin,omitempty"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"average_cost"`
}
