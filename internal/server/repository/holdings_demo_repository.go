package repository

import (
	"context"

	"river-portfolio/internal/server/dto"
)

type demoHoldingsRepository struct{}

// NewDemoHoldingsRepository creates a holdings source that returns a fixed
// sample portfolio. Used when no brokerage is connected.
func NewDemoHoldingsRepository() HoldingsSourceRepository {
	return &demoHoldingsRepository{}
}

func (r *demoHoldingsRepository) Provider() string {
	return "demo"
}

func (r *demoHoldingsRepository) FetchHoldings(_ context.Context, _ string) ([]dto.BrokerHolding, error) {
	return []dto.BrokerHolding{
		{Symbol: "AAPL", Quantity: 50, AverageCost: 145.30},
		{Symbol: "META", Quantity: 35, AverageCost: 185.90},
		{Symbol: "GOOGL", Quantity: 25, AverageCost: 125.50},
		{Symbol: "MSFT", Quantity: 60, AverageCost: 280.75},
		{Symbol: "TSLA", Quantity: 40, AverageCost: 220.15},
		{Symbol: "NVDA", Quantity: 15, AverageCost: 420.80},
	}, nil
}
