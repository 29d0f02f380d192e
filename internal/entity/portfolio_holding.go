package entity

import "time"

// PortfolioHolding is a quantity of one stock owned by one user with a cost
// basis. Repeated adds of the same symbol merge into a weighted-average
// cost; removal is a soft delete via the active flag.
type PortfolioHolding struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	StockID      uint       `gorm:"not null" json:"stock_id"`
	Shares       float64    `gorm:"not null" json:"shares"`
	AverageCost  float64    `gorm:"not null" json:"average_cost"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Stock Stock `gorm:"foreignKey:StockID" json:"stock"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for the PortfolioHolding model.
func (PortfolioHolding) TableName() string {
	return "portfolio_holdings"
}

// CurrentValue is the holding's value at the stock's last known price.
func (h *PortfolioHolding) CurrentValue() float64 {
	return h.Shares * h.Stock.CurrentPrice
}

// TotalCost is the holding's cost basis.
func (h *PortfolioHolding) TotalCost() float64 {
	return h.Shares * h.AverageCost
}

// UnrealizedGainLoss is the difference between current value and cost basis.
func (h *PortfolioHolding) UnrealizedGainLoss() float64 {
	return h.CurrentValue() - h.TotalCost()
}

// UnrealizedGainLossPercent is the gain/loss as a percentage of cost basis.
func (h *PortfolioHolding) UnrealizedGainLossPercent() float64 {
	cost := h.TotalCost()
	if cost <= 0 {
		return 0
	}
	return h.UnrealizedGainLoss() / cost * 100
}
