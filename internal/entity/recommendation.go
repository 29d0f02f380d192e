package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation is an immutable, timestamped BUY/HOLD/SELL verdict with its
// supporting component scores and captured input snapshots. Rows are
// append-only; the latest recommendation for a stock is the one with the
// most recent creation timestamp.
type Recommendation struct {
	ID               int64          `gorm:"primaryKey" json:"id"`
	StockID          uint           `gorm:"not null;index:idx_stock_created" json:"stock_id"`
	Action           string         `gorm:"type:varchar(10);not null" json:"action"`
	ConfidenceScore  float64        `json:"confidence_score"`
	Reasoning        string         `gorm:"type:text" json:"reasoning"`
	NewsSentiment    float64        `json:"news_sentiment"`
	TechnicalScore   float64        `json:"technical_score"`
	FundamentalScore float64        `json:"fundamental_score"`
	RecentNews       datatypes.JSON `gorm:"type:jsonb" json:"recent_news"`
	TechnicalData    datatypes.JSON `gorm:"column:technical_indicators;type:jsonb" json:"technical_indicators"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index:idx_stock_created" json:"created_at"`

	Stock Stock `gorm:"foreignKey:StockID" json:"-"`
}

// TableName specifies the table name for the Recommendation model.
func (Recommendation) TableName() string {
	return "recommendations"
}

// RecommendationChange records a transition between two consecutive distinct
// recommendation actions for one stock. Created only when a newly recorded
// action differs from the immediately preceding one. Append-only.
type RecommendationChange struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	StockID        uint      `gorm:"not null;index" json:"stock_id"`
	PreviousAction string    `gorm:"type:varchar(10);not null" json:"previous_action"`
	NewAction      string    `gorm:"type:varchar(10);not null" json:"new_action"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Stock Stock `gorm:"foreignKey:StockID" json:"-"`
}

// TableName specifies the table name for the RecommendationChange model.
func (RecommendationChange) TableName() string {
	return "recommendation_changes"
}
