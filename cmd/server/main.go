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

	"github.com/yourorg/portfolio-tracker/internal/client"
	"github.com/yourorg/portfolio-tracker/internal/config"
	"github.com/yourorg/portfolio-tracker/internal/handler"
	"github.com/yourorg/portfolio-tracker/internal/kafka"
	"github.com/yourorg/portfolio-tracker/internal/middleware"
	"github.com/yourorg/portfolio-tracker/internal/ratelimit"
	"github.com/yourorg/portfolio-tracker/internal/repository"
	"github.com/yourorg/portfolio-tracker/internal/scheduler"
	"github.com/yourorg/portfolio-tracker/internal/service"
	"github.com/yourorg/portfolio-tracker/internal/validator"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Register custom request validations
	if err := validator.RegisterCustomValidations(); err != nil {
		logger.Fatal("Failed to register validations", zap.Error(err))
	}

	// Connect to database
	db, err := connectToDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	quoteRepo := repository.NewQuoteRepository(db, logger)
	historyRepo := repository.NewPriceHistoryRepository(db, logger)
	thresholdRepo := repository.NewThresholdRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)
	portfolioRepo := repository.NewPortfolioRepository(db, logger)
	transactionRepo := repository.NewTransactionRepository(db, logger)
	auditRepo := repository.NewAuditRepository(db, logger)

	// Initialize external quote provider and its pacer
	quoteClient := client.NewAlphaVantageClient(cfg.Provider, logger)
	pacer := ratelimit.NewIntervalLimiter(cfg.Provider.RequestInterval)

	// Initialize Kafka producer (optional)
	var producer *kafka.Producer
	var events service.EventPublisher
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka, logger)
		defer producer.Close()
		events = producer
	}

	// Initialize Redis cache client (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	// Initialize services
	alertService := service.NewAlertService(thresholdRepo, notificationRepo, transactionRepo, events, logger)
	refreshService := service.NewRefreshService(
		quoteClient,
		pacer,
		quoteRepo,
		historyRepo,
		transactionRepo,
		auditRepo,
		alertService,
		logger,
	)
	marketDataService := service.NewMarketDataService(quoteRepo, historyRepo, logger)
	portfolioService := service.NewPortfolioService(portfolioRepo, transactionRepo, quoteRepo, logger)
	thresholdService := service.NewThresholdService(thresholdRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	auditService := service.NewAuditService(auditRepo, logger)

	// Initialize handlers
	refreshHandler := handler.NewRefreshHandler(refreshService, logger)
	marketDataHandler := handler.NewMarketDataHandler(marketDataService, logger)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService, logger)
	thresholdHandler := handler.NewThresholdHandler(thresholdService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	auditHandler := handler.NewAuditHandler(auditService, logger)

	// Set up HTTP server with Gin
	router := setupRouter(
		refreshHandler,
		marketDataHandler,
		portfolioHandler,
		thresholdHandler,
		notificationHandler,
		auditHandler,
		redisClient,
		logger,
		cfg,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the periodic refresh if configured
	var refreshScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		refreshScheduler = scheduler.NewScheduler(refreshService, cfg.Scheduler.RefreshSpec, logger)
		if err := refreshScheduler.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if refreshScheduler != nil {
		refreshScheduler.Stop()
	}

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func connectToDB(dbConfig config.DatabaseConfig, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	var db *sqlx.DB
	operation := func() error {
		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			logger.Warn("Database not ready, retrying", zap.Error(err))
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	refreshHandler *handler.RefreshHandler,
	marketDataHandler *handler.MarketDataHandler,
	portfolioHandler *handler.PortfolioHandler,
	thresholdHandler *handler.ThresholdHandler,
	notificationHandler *handler.NotificationHandler,
	auditHandler *handler.AuditHandler,
	redisClient *redis.Client,
	logger *zap.Logger,
	cfg *config.Config,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Public market data reads, cached when Redis is configured
		quotes := v1.Group("/quotes")
		{
			if redisClient != nil {
				quotes.Use(middleware.RedisCache(redisClient, middleware.CacheConfig{
					Enabled:         true,
					DefaultDuration: cfg.Redis.CacheTTL,
					PrefixKey:       "quotes",
				}, logger))
			}

			quotes.GET("", marketDataHandler.GetQuotes)
			quotes.GET("/:symbol", marketDataHandler.GetQuote)
			quotes.GET("/:symbol/history", marketDataHandler.GetHistory)
		}

		// Authenticated refresh of the caller's held symbols
		refresh := v1.Group("/market-data/refresh")
		{
			refresh.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))
			refresh.POST("", refreshHandler.RefreshMarketData)
		}

		// Portfolio and transaction routes
		portfolios := v1.Group("/portfolios")
		{
			portfolios.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))

			portfolios.GET("", portfolioHandler.ListPortfolios)
			portfolios.POST("", portfolioHandler.CreatePortfolio)
			portfolios.GET("/:id/transactions", portfolioHandler.ListTransactions)
			portfolios.POST("/:id/transactions", portfolioHandler.RecordTransaction)
			portfolios.GET("/:id/holdings", portfolioHandler.GetHoldings)
		}

		// Alert threshold routes
		thresholds := v1.Group("/alert-thresholds")
		{
			thresholds.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))

			thresholds.GET("", thresholdHandler.ListThresholds)
			thresholds.PUT("", thresholdHandler.UpsertThreshold)
			thresholds.DELETE("/:symbol", thresholdHandler.DeleteThreshold)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))

			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkAsRead)
			notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))
		admin.Use(middleware.RequireRole("admin", logger))
		{
			admin.GET("/audit-log", auditHandler.ListAuditEntries)
			admin.POST("/market-data/refresh-all", refreshHandler.RefreshAllMarketData)
		}
	}
	return router
}
