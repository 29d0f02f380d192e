package repository

import (
	"fmt"
	"strings"

	"river-portfolio/internal/server/dto"
)

func fmtFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// BuildSentimentPrompt builds the news-sentiment analysis prompt. Only the
// first five headlines are included, summaries truncated to 200 characters.
func BuildSentimentPrompt(symbol string, news []dto.NewsItem) string {
	var sb strings.Builder
	for i, item := range news {
		if i >= 5 {
			break
		}
		summary := item.Summary
		if len(summary) > 200 {
			summary = summary[:200] + "..."
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", item.Title, summary))
	}

	return fmt.Sprintf(`Analyze the sentiment of recent news for %s stock.

Recent News:
%s
Based on this news, provide:
1. A sentiment score from -1 (very negative) to +1 (very positive)
2. Brief reasoning for the sentiment score

Focus on news that could impact stock price and investor sentiment.
Be objective and consider both positive and negative aspects.

Respond in JSON format:
{
    "sentiment_score": <number between -1 and 1>,
    "reasoning": "<brief explanation>"
}`, symbol, sb.String())
}

// BuildTechnicalPrompt builds the technical-indicator analysis prompt.
func BuildTechnicalPrompt(symbol string, snapshot *dto.TechnicalSnapshot) string {
	return fmt.Sprintf(`Analyze the technical indicators for %s stock:

Technical Data:
- Current Price: $%.2f
- 20-day MA: $%s
- 50-day MA: $%s
- RSI: %s
- Price vs 20-day MA: %s%%
- Price vs 50-day MA: %s%%
- Volume Ratio: %.2f
- 1-week Momentum: %.2f%%
- 1-month Momentum: %.2f%%

Provide:
1. A technical score from -1 (very bearish) to +1 (very bullish)
2. Brief reasoning based on the technical indicators

Consider:
- RSI levels (overbought >70, oversold <30)
- Price relative to moving averages
- Momentum trends
- Volume patterns

Respond in JSON format:
{
    "technical_score": <number between -1 and 1>,
    "reasoning": "<brief technical analysis>"
}`, symbol, snapshot.CurrentPrice,
		fmtFloat(snapshot.MA20), fmtFloat(snapshot.MA50), fmtFloat(snapshot.RSI),
		fmtFloat(snapshot.PriceVsMA20Pct), fmtFloat(snapshot.PriceVsMA50Pct),
		snapshot.VolumeRatio, snapshot.Momentum1WeekPct, snapshot.Momentum1MonthPct)
}

// BuildFundamentalPrompt builds the fundamental-metrics analysis prompt.
func BuildFundamentalPrompt(symbol string, f *dto.Fundamentals) string {
	marketCap := "N/A"
	if f.MarketCap > 0 {
		marketCap = fmt.Sprintf("$%d", f.MarketCap)
	}

	return fmt.Sprintf(`Analyze the fundamental metrics for %s (%s):

Fundamental Data:
- Sector: %s
- Market Cap: %s
- P/E Ratio: %s
- Forward P/E: %s
- Price to Book: %s
- Debt to Equity: %s
- ROE: %s
- Revenue Growth: %s
- Earnings Growth: %s
- Dividend Yield: %s
- Beta: %s

Provide:
1. A fundamental score from -1 (poor fundamentals) to +1 (strong fundamentals)
2. Brief reasoning based on the fundamental analysis

Consider:
- Valuation metrics (P/E, P/B ratios)
- Financial health (debt levels, ROE)
- Growth prospects (revenue/earnings growth)
- Dividend sustainability
- Sector comparisons where relevant

Respond in JSON format:
{
    "fundamental_score": <number between -1 and 1>,
    "reasoning": "<brief fundamental analysis>"
}`, symbol, orNA(f.CompanyName), orNA(f.Sector), marketCap,
		fmtFloat(f.PERatio), fmtFloat(f.ForwardPE), fmtFloat(f.PriceToBook),
		fmtFloat(f.DebtToEquity), fmtFloat(f.ReturnOnEquity),
		fmtFloat(f.RevenueGrowth), fmtFloat(f.EarningsGrowth),
		fmtFloat(f.DividendYield), fmtFloat(f.Beta))
}

// BuildSynthesisPrompt builds the final-recommendation prompt from the three
// component analyses.
func BuildSynthesisPrompt(symbol string, f *dto.Fundamentals, sentiment, technical, fundamental dto.AnalyzerResult) string {
	companyName := "N/A"
	currentPrice := "N/A"
	if f != nil {
		companyName = orNA(f.CompanyName)
		currentPrice = fmt.Sprintf("$%.2f", f.CurrentPrice)
	}

	return fmt.Sprintf(`Generate a final investment recommendation for %s (%s)
based on comprehensive analysis:

Analysis Summary:
- News Sentiment Score: %.2f
  Reasoning: %s

- Technical Analysis Score: %.2f
  Reasoning: %s

- Fundamental Analysis Score: %.2f
  Reasoning: %s

Current Price: %s

Based on this comprehensive analysis, provide:
1. Final recommendation: BUY, HOLD, or SELL
2. Confidence score from 0 to 1 (how confident you are in this recommendation)
3. Detailed reasoning that synthesizes all three analyses

Guidelines:
- BUY: Strong positive signals across multiple analyses
- HOLD: Mixed signals or modest positive/negative indicators
- SELL: Strong negative signals or significant risk factors

Consider the weight of each analysis type and how they complement or contradict each other.

Respond in JSON format:
{
    "recommendation": "<BUY|HOLD|SELL>",
    "confidence": <number between 0 and 1>,
    "reasoning": "<detailed explanation combining all analyses>"
}`, symbol, companyName,
		sentiment.Score, sentiment.Reasoning,
		technical.Score, technical.Reasoning,
		fundamental.Score, fundamental.Reasoning,
		currentPrice)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
