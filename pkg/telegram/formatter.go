package telegram

import (
	"fmt"
	"strings"
	"time"
)

// RecommendationChangeAlert describes one recommendation transition for
// notification purposes.
type RecommendationChangeAlert struct {
	Symbol         string
	PreviousAction string
	NewAction      string
	Confidence     float64
}

// FormatRefreshSummaryMessage builds the alert sent after a portfolio
// refresh that produced recommendation changes.
func FormatRefreshSummaryMessage(at time.Time, updated, total int, changes []RecommendationChangeAlert) string {
	var b strings.Builder
	b.WriteString("📊 *Portfolio Refresh Complete*\n")
	b.WriteString(fmt.Sprintf("🕐 %s\n", at.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("✅ Updated %d/%d stocks\n\n", updated, total))

	if len(changes) == 0 {
		b.WriteString("No recommendation changes.")
		return b.String()
	}

	b.WriteString("*Recommendation Changes:*\n")
	for _, c := range changes {
		b.WriteString(fmt.Sprintf("%s *%s*: %s → %s (confidence %.0f%%)\n",
			actionIcon(c.NewAction), c.Symbol, c.PreviousAction, c.NewAction, c.Confidence*100))
	}
	return b.String()
}

// FormatErrorAlertMessage builds a generic error alert.
func FormatErrorAlertMessage(at time.Time, message string) string {
	return fmt.Sprintf("🚨 *Error Alert*\n🕐 %s\n%s", at.Format("2006-01-02 15:04:05"), message)
}

func actionIcon(action string) string {
	switch action {
	case "BUY":
		return "📈"
	case "SELL":
		return "📉"
	default:
		return "➖"
	}
}
