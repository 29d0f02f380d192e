package repository

import (
	"fmt"

	"river-portfolio/internal/server/config"
	"river-portfolio/pkg/logger"
)

// NewHoldingsSourceRepository returns the holdings source selected by the
// holdings.source config key.
func NewHoldingsSourceRepository(cfg *config.Config, log *logger.Logger) (HoldingsSourceRepository, error) {
	switch cfg.Holdings.Source {
	case "", "demo":
		return NewDemoHoldingsRepository(), nil
	case "upstox":
		return NewUpstoxHoldingsRepository(cfg, log), nil
	case "setu":
		return NewSetuHoldingsRepository(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown holdings source: %s", cfg.Holdings.Source)
	}
}
