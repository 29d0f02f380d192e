package entity

import "time"

// Stock is a tradable instrument and its cached market attributes. Rows are
// created lazily the first time a holding or analysis references an unseen
// symbol, mutated by staleness refreshes, and never deleted while a holding
// references them.
type Stock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Symbol        string    `gorm:"type:varchar(20);unique;not null" json:"symbol"`
	CompanyName   string    `gorm:"not null" json:"company_name"`
	Sector        string    `json:"sector"`
	CurrentPrice  float64   `json:"current_price"`
	PreviousClose float64   `json:"previous_close"`
	MarketCap     int64     `json:"market_cap"`
	PERatio       *float64  `json:"pe_ratio,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Stock model.
func (Stock) TableName() string {
	return "stocks"
}

// IsStale reports whether the cached quote fields are older than the given
// window. Callers are responsible for checking this before triggering a
// refresh; the market-data gateway itself does not cache.
func (s *Stock) IsStale(window time.Duration) bool {
	return s.LastUpdated.IsZero() || time.Since(s.LastUpdated) > window
}
