package dto

import "time"

// AnalyzerResult is the outcome of one component analysis. Degraded marks
// the neutral fallback produced when input data is absent or the model call
// failed; callers branch on it instead of catching errors.
type AnalyzerResult struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
	Degraded  bool    `json:"degraded,omitempty"`
}

// NeutralAnalyzerResult builds the degraded zero-score fallback with the
// given reason.
func NeutralAnalyzerResult(reason string) AnalyzerResult {
	return AnalyzerResult{Score: 0, Reasoning: reason, Degraded: true}
}

// SynthesisResult is the synthesizer's final verdict.
type SynthesisResult struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Degraded   bool    `json:"degraded,omitempty"`
}

// AnalysisResult is the aggregate record produced by one full analysis of a
// symbol: the final verdict, the three component results, and the captured
// input snapshots.
type AnalysisResult struct {
	Symbol              string             `json:"symbol"`
	Action              string             `json:"recommendation"`
	ConfidenceScore     float64            `json:"confidence_score"`
	Reasoning           string             `json:"reasoning"`
	NewsSentiment       float64            `json:"news_sentiment"`
	TechnicalScore      float64            `json:"technical_score"`
	FundamentalScore    float64            `json:"fundamental_score"`
	RecentNews          []NewsItem         `json:"recent_news"`
	TechnicalIndicators *TechnicalSnapshot `json:"technical_indicators,omitempty"`
	AnalyzedAt          time.Time          `json:"analysis_timestamp"`
}

// RefreshSummary is the aggregate outcome of one portfolio-wide refresh.
// Errors holds one human-readable string per failed symbol; successes are
// committed regardless of failures elsewhere in the batch.
type RefreshSummary struct {
	UpdatedCount int       `json:"updated_count"`
	ChangedCount int       `json:"changed_count"`
	TotalStocks  int       `json:"total_stocks"`
	Errors       []string  `json:"errors"`
	Timestamp    time.Time `json:"timestamp"`
}
