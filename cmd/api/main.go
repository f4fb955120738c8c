package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thaifolio/internal/app"
	"thaifolio/internal/config"
	"thaifolio/internal/handlers"
	"thaifolio/internal/logger"
	"thaifolio/internal/middleware"
	"thaifolio/internal/realtime"
	"thaifolio/internal/services"
	"thaifolio/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "thaifolio/internal/docs" // Import swagger docs
)

// @title           Thaifolio API
// @version         1.0
// @description     Thaifolio tracks a THB/USD portfolio of cash wallets and investments: buys, sells, currency exchange, valuation, live prices and AI analysis.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	// Database
	dbManager, err := app.OpenDatabase(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("Closing database", "error", err)
		}
	}()

	// External collaborators
	gateway, closeGateway := app.MarketGateway(ctx, appConfig)
	defer closeGateway()

	analyzer, err := app.Analyzer(ctx, appConfig)
	if err != nil {
		return err
	}

	// Initialize services
	hub := realtime.NewHub()
	defer hub.Close()

	svc, err := app.NewServices(ctx, appConfig, dbManager.DB(), gateway, analyzer, hub)
	if err != nil {
		return err
	}
	defer svc.Portfolio.Stop()

	scheduler := services.NewRefreshScheduler(svc.Market, appConfig.RefreshInterval, appConfig.RefreshAlways)
	go scheduler.Run(ctx)

	// Initialize handlers
	authHandler, err := handlers.NewAuthHandler(appConfig.OwnerPassphrase, []byte(appConfig.JWTSecret), appConfig.JWTExpirationDur)
	if err != nil {
		return fmt.Errorf("failed to initialise auth: %w", err)
	}
	if !authHandler.Enabled() {
		log.Warn("OWNER_PASSPHRASE is not set; the API is open to anyone who can reach it")
	}
	assetHandler := handlers.NewAssetHandler(svc.Portfolio, svc.Market)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	marketHandler := handlers.NewMarketHandler(svc.Market)
	analysisHandler := handlers.NewAnalysisHandler(svc.Analysis)
	historyHandler := handlers.NewHistoryHandler(svc.History)
	activityHandler := handlers.NewActivityHandler(svc.Activity)
	pipelineHandler := handlers.NewPipelineHandler(svc.Market)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging("/api/health"))
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_clients": hub.Clients()})
	})

	// API v1 group
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(appConfig.APIRateLimit, appConfig.APIRateBurst))

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/token", authHandler.Token)

	// Pipeline routes (API key)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/refresh", pipelineHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware([]byte(appConfig.JWTSecret), authHandler.Enabled()))

	protected.GET("/ws", gin.WrapF(hub.ServeWS))

	// Asset routes
	protected.GET("/assets", assetHandler.ListAssets)
	protected.DELETE("/assets/:id", assetHandler.DeleteAsset)
	protected.POST("/wallets", assetHandler.AddWallet)
	protected.POST("/wallets/:id/transactions", assetHandler.Transact)
	protected.POST("/investments", assetHandler.Buy)
	protected.POST("/investments/:id/sell", assetHandler.Sell)
	protected.POST("/exchange", assetHandler.Exchange)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("/export", portfolioHandler.Export)
	portfolio.POST("/import", portfolioHandler.Import)
	portfolio.POST("/consolidate", portfolioHandler.Consolidate)
	portfolio.GET("/summary", portfolioHandler.Summary)

	// Market routes
	market := protected.Group("/market")
	market.POST("/refresh", marketHandler.Refresh)
	market.GET("/search", marketHandler.Search)
	market.GET("/info", marketHandler.Info)
	market.GET("/status", marketHandler.Status)
	protected.GET("/news", marketHandler.News)

	// Analysis routes
	analysisRoutes := protected.Group("/analysis")
	analysisRoutes.GET("/mode", analysisHandler.GetMode)
	analysisRoutes.POST("/portfolio", analysisHandler.AnalyzePortfolio)
	analysisRoutes.POST("/news", analysisHandler.AnalyzeNews)
	analysisRoutes.POST("/article", analysisHandler.AnalyzeArticle)
	analysisRoutes.POST("/chat", analysisHandler.Chat)

	// History and activity
	protected.GET("/history", historyHandler.List)
	protected.GET("/history/daily", historyHandler.Daily)
	protected.GET("/activity", activityHandler.List)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Thaifolio server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
