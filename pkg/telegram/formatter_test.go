package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRefreshSummaryMessage(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	changes := []RecommendationChangeAlert{
		{Symbol: "AAPL", PreviousAction: "HOLD", NewAction: "BUY", Confidence: 0.8},
		{Symbol: "TSLA", PreviousAction: "BUY", NewAction: "SELL", Confidence: 0.65},
	}

	msg := FormatRefreshSummaryMessage(at, 4, 5, changes)

	assert.Contains(t, msg, "2025-06-01 09:30:00")
	assert.Contains(t, msg, "Updated 4/5 stocks")
	assert.Contains(t, msg, "*AAPL*: HOLD → BUY (confidence 80%)")
	assert.Contains(t, msg, "*TSLA*: BUY → SELL (confidence 65%)")
}

func TestFormatRefreshSummaryMessage_NoChanges(t *testing.T) {
	msg := FormatRefreshSummaryMessage(time.Now(), 5, 5, nil)
	assert.Contains(t, msg, "No recommendation changes.")
}

func TestActionIcon(t *testing.T) {
	assert.Equal(t, "📈", actionIcon("BUY"))
	assert.Equal(t, "📉", actionIcon("SELL"))
	assert.Equal(t, "➖", actionIcon("HOLD"))
	assert.Equal(t, "➖", actionIcon("whatever"))
}
