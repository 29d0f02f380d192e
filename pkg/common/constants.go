package common

import "time"

const (
	// Recommendation actions.
	ActionBuy  = "BUY"
	ActionHold = "HOLD"
	ActionSell = "SELL"

	// RecommendationLockPrefix is the advisory-lock key prefix used to
	// serialize concurrent refreshes of the same symbol.
	RecommendationLockPrefix = "lock:recommendation:"

	// StockStalenessWindow is how old cached instrument quote fields may be
	// before the caller must refresh them from the market-data provider.
	StockStalenessWindow = 15 * time.Minute

	// NewsSnapshotSize is the number of news items captured with each
	// recommendation.
	NewsSnapshotSize = 5
)

// ValidAction reports whether s is one of BUY, HOLD or SELL.
func ValidAction(s string) bool {
	return s == ActionBuy || s == ActionHold || s == ActionSell
}
