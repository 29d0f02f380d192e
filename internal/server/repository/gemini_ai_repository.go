package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"river-portfolio/internal/server/config"
	"river-portfolio/internal/server/dto"
	"river-portfolio/pkg/common"
	"river-portfolio/pkg/logger"
	"river-portfolio/pkg/ratelimit"
)

// geminiAIRepository is an implementation of AIRepository that uses the
// Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository. A nil
// genAiClient (no API key configured) yields a disabled repository whose
// callers must fall back to the documented neutral results.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) Enabled() bool {
	return r.cfg.Gemini.APIKey != "" && r.genAiClient != nil
}

// AnalyzeSentiment scores recent news headlines on a -1..+1 scale.
func (r *geminiAIRepository) AnalyzeSentiment(ctx context.Context, symbol string, news []dto.NewsItem) (*dto.AnalyzerResult, error) {
	prompt := BuildSentimentPrompt(symbol, news)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payload dto.SentimentPayload
	if err := r.decodeCandidate(geminiResp, &payload); err != nil {
		return nil, err
	}

	return &dto.AnalyzerResult{
		Score:     clampScore(payload.SentimentScore),
		Reasoning: payload.Reasoning,
	}, nil
}

// AnalyzeTechnicals scores the indicator snapshot on a -1..+1 scale.
func (r *geminiAIRepository) AnalyzeTechnicals(ctx context.Context, symbol string, snapshot *dto.TechnicalSnapshot) (*dto.AnalyzerResult, error) {
	prompt := BuildTechnicalPrompt(symbol, snapshot)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payload dto.TechnicalPayload
	if err := r.decodeCandidate(geminiResp, &payload); err != nil {
		return nil, err
	}

	return &dto.AnalyzerResult{
		Score:     clampScore(payload.TechnicalScore),
		Reasoning: payload.Reasoning,
	}, nil
}

// AnalyzeFundamentals scores the fundamental metrics on a -1..+1 scale.
func (r *geminiAIRepository) AnalyzeFundamentals(ctx context.Context, symbol string, fundamentals *dto.Fundamentals) (*dto.AnalyzerResult, error) {
	prompt := BuildFundamentalPrompt(symbol, fundamentals)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payload dto.FundamentalPayload
	if err := r.decodeCandidate(geminiResp, &payload); err != nil {
		return nil, err
	}

	return &dto.AnalyzerResult{
		Score:     clampScore(payload.FundamentalScore),
		Reasoning: payload.Reasoning,
	}, nil
}

// Synthesize combines the three component analyses into the final verdict.
// Unknown actions in the response degrade to HOLD.
func (r *geminiAIRepository) Synthesize(ctx context.Context, symbol string, fundamentals *dto.Fundamentals, sentiment, technical, fundamental dto.AnalyzerResult) (*dto.SynthesisResult, error) {
	prompt := BuildSynthesisPrompt(symbol, fundamentals, sentiment, technical, fundamental)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var payload dto.SynthesisPayload
	if err := r.decodeCandidate(geminiResp, &payload); err != nil {
		return nil, err
	}

	action := strings.ToUpper(strings.TrimSpace(payload.Recommendation))
	if !common.ValidAction(action) {
		r.logger.Warn("Gemini returned unknown recommendation action",
			logger.StringField("symbol", symbol),
			logger.StringField("action", payload.Recommendation),
		)
		action = common.ActionHold
	}

	return &dto.SynthesisResult{
		Action:     action,
		Confidence: clampConfidence(payload.Confidence),
		Reasoning:  payload.Reasoning,
	}, nil
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

// decodeCandidate unwraps the first candidate's text, strips the markdown
// code fence the model wraps JSON in, and decodes it into out.
func (r *geminiAIRepository) decodeCandidate(resp *dto.GeminiAPIResponse, out any) error {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := resp.Candidates[0].Content.Parts[0].Text
	jsonString = strings.Trim(jsonString, "`json\n`")

	if err := json.Unmarshal([]byte(jsonString), out); err != nil {
		r.logger.Error("Failed to unmarshal analysis result from Gemini response",
			logger.ErrorField(err), logger.StringField("response", jsonString))
		return fmt.Errorf("failed to unmarshal analysis result from Gemini response: %w", err)
	}
	return nil
}

func clampScore(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func clampConfidence(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
