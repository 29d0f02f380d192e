package config

import (
	"time"

	"river-portfolio/pkg/config"
)

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	NewsBaseURL         string `mapstructure:"news_base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Refresh holds settings for the portfolio refresh driver.
type Refresh struct {
	MaxConcurrentAnalyses int           `mapstructure:"max_concurrent_analyses"`
	AnalysisTimeout       time.Duration `mapstructure:"analysis_timeout"`
}

// Upstox holds the brokerage holdings-source configuration.
type Upstox struct {
	BaseURL string `mapstructure:"base_url"`
}

// Setu holds the account-aggregator holdings-source configuration.
type Setu struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Holdings selects and configures the holdings source.
type Holdings struct {
	Source string `mapstructure:"source"` // demo | upstox | setu
	Upstox Upstox `mapstructure:"upstox"`
	Setu   Setu   `mapstructure:"setu"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the portfolio server.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Gemini       Gemini          `mapstructure:"gemini"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Refresh      Refresh         `mapstructure:"refresh"`
	Holdings     Holdings        `mapstructure:"holdings"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the server configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Refresh.MaxConcurrentAnalyses <= 0 {
		cfg.Refresh.MaxConcurrentAnalyses = 5
	}
	if cfg.Refresh.AnalysisTimeout <= 0 {
		cfg.Refresh.AnalysisTimeout = 3 * time.Minute
	}
	return &cfg, nil
}
