package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"

	"river-portfolio/internal/server/config"
	delivery "river-portfolio/internal/server/delivery/http"
	_ "river-portfolio/internal/server/docs"
	"river-portfolio/internal/server/repository"
	"river-portfolio/internal/server/service"
	"river-portfolio/pkg/locks"
	"river-portfolio/pkg/logger"
	"river-portfolio/pkg/postgres"
	"river-portfolio/pkg/redis"
	"river-portfolio/pkg/telegram"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio server",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Portfolio Server", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	stockRepo := repository.NewStockRepository(db.DB)
	holdingRepo := repository.NewHoldingRepository(db.DB)
	recRepo := repository.NewRecommendationRepository(db.DB)
	marketDataRepo := repository.NewYahooFinanceRepository(cfg, appLogger)

	holdingsSource, err := repository.NewHoldingsSourceRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize holdings source", logger.ErrorField(err))
	}
	appLogger.Info("Holdings source configured", logger.StringField("provider", holdingsSource.Provider()))

	// Initialize AI provider. A missing API key is allowed; analyses then
	// degrade to the documented HOLD fallback.
	var genAiClient *genai.Client
	if cfg.Gemini.APIKey != "" {
		genAiClient, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
	} else {
		appLogger.Warn("Gemini API key not configured, recommendations will use the HOLD fallback")
	}
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	} else {
		notifier = telegram.NewNoopNotifier()
	}

	locker := locks.NewRedisLocker(redisClient.Client, cfg.App.Name)

	// Initialize services
	portfolioSvc := service.NewPortfolioService(cfg, appLogger, stockRepo, holdingRepo, marketDataRepo, holdingsSource)
	analyzerSvc := service.NewStockAnalyzerService(marketDataRepo, aiRepo, appLogger)
	recommendationSvc := service.NewRecommendationService(cfg, appLogger, analyzerSvc, portfolioSvc, stockRepo, holdingRepo, recRepo, locker, notifier)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(delivery.DemoSession(userRepo, appLogger))

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolio"))

	stockHandler := delivery.NewStockHandler(portfolioSvc, recommendationSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1.Group("/stocks"))

	recommendationHandler := delivery.NewRecommendationHandler(recommendationSvc, appLogger)
	recommendationHandler.RegisterRoutes(apiV1.Group("/recommendations"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title River Portfolio API
// @version 1.0
// @description Portfolio tracking and AI stock recommendation server.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "river-portfolio"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing river-portfolio CLI: %s\n", err)
		os.Exit(1)
	}
}
