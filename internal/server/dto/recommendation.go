package dto

import (
	"encoding/json"
	"time"
)

// RecommendationSummary is the latest verdict attached to a stock listing.
type RecommendationSummary struct {
	Action           string     `json:"action"`
	Confidence       float64    `json:"confidence"`
	Reasoning        string     `json:"reasoning"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
	NewsSentiment    float64    `json:"news_sentiment"`
	TechnicalScore   float64    `json:"technical_score"`
	FundamentalScore float64    `json:"fundamental_score"`
}

// StockWithRecommendation is one portfolio stock with its holding valuation
// and latest recommendation.
type StockWithRecommendation struct {
	Symbol             string                `json:"symbol"`
	CompanyName        string                `json:"company_name"`
	CurrentPrice       float64               `json:"current_price"`
	PreviousClose      float64               `json:"previous_close"`
	PriceChangePercent float64               `json:"price_change_percent"`
	Shares             float64               `json:"shares"`
	CurrentValue       float64               `json:"current_value"`
	GainLoss           float64               `json:"gain_loss"`
	GainLossPercent    float64               `json:"gain_loss_percent"`
	Recommendation     RecommendationSummary `json:"recommendation"`
}

// RecommendationChangeResponse is one recent recommendation transition for a
// stock still held in the portfolio.
type RecommendationChangeResponse struct {
	Symbol                 string    `json:"symbol"`
	CompanyName            string    `json:"company_name"`
	CurrentPrice           float64   `json:"current_price"`
	PreviousRecommendation string    `json:"previous_recommendation"`
	NewRecommendation      string    `json:"new_recommendation"`
	ChangeDate             time.Time `json:"change_date"`
	CurrentValue           float64   `json:"current_value"`
	Confidence             float64   `json:"confidence"`
	Reasoning              string    `json:"reasoning"`
}

// RecommendationResponse is the full latest recommendation for one symbol.
type RecommendationResponse struct {
	Symbol              string          `json:"symbol"`
	CompanyName         string          `json:"company_name"`
	Action              string          `json:"recommendation"`
	ConfidenceScore     float64         `json:"confidence_score"`
	Reasoning           string          `json:"reasoning"`
	NewsSentiment       float64         `json:"news_sentiment"`
	TechnicalScore      float64         `json:"technical_score"`
	FundamentalScore    float64         `json:"fundamental_score"`
	CreatedAt           time.Time       `json:"created_at"`
	RecentNews          json.RawMessage `json:"recent_news,omitempty"`
	TechnicalIndicators json.RawMessage `json:"technical_indicators,omitempty"`
}
