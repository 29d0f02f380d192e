package dto

// GeminiAPIRequest is the request payload for the Gemini API.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content represents the content of a request or response.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a part of the content.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the response from the Gemini API.
type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

// SentimentPayload is the structured output expected from the news
// sentiment prompt.
type SentimentPayload struct {
	SentimentScore float64 `json:"sentiment_score"`
	Reasoning      string  `json:"reasoning"`
}

// TechnicalPayload is the structured output expected from the technical
// analysis prompt.
type TechnicalPayload struct {
	TechnicalScore float64 `json:"technical_score"`
	Reasoning      string  `json:"reasoning"`
}

// FundamentalPayload is the structured output expected from the fundamental
// analysis prompt.
type FundamentalPayload struct {
	FundamentalScore float64 `json:"fundamental_score"`
	Reasoning        string  `json:"reasoning"`
}

// SynthesisPayload is the structured output expected from the final
// recommendation prompt.
type SynthesisPayload struct {
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}
