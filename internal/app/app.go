// Package app assembles the services shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"thaifolio/internal/analysis"
	"thaifolio/internal/config"
	"thaifolio/internal/database"
	"thaifolio/internal/ledger"
	"thaifolio/internal/logger"
	"thaifolio/internal/marketdata"
	"thaifolio/internal/services"
	"thaifolio/internal/storage"
)

// Analyzer providers.
const (
	ProviderBackend = "backend"
	ProviderGemini  = "gemini"
)

// Bangkok is the zone daily valuation points are bucketed in.
var Bangkok = mustLocation("Asia/Bangkok")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 7*60*60)
	}
	return loc
}

// Policy builds the ledger policy from configuration.
func Policy(cfg *config.Config) (ledger.Policy, error) {
	funding, ok := ledger.ParseFundingPolicy(cfg.ExternalFundingPolicy)
	if !ok {
		return ledger.Policy{}, fmt.Errorf("unknown EXTERNAL_FUNDING_POLICY %q", cfg.ExternalFundingPolicy)
	}
	proceeds, ok := ledger.ParseProceedsPolicy(cfg.ProceedsPolicy)
	if !ok {
		return ledger.Policy{}, fmt.Errorf("unknown PROCEEDS_POLICY %q", cfg.ProceedsPolicy)
	}
	rate := ledger.DefaultFallbackRate
	if cfg.FallbackExchangeRate != "" {
		r, err := decimal.NewFromString(cfg.FallbackExchangeRate)
		if err != nil || !r.IsPositive() {
			return ledger.Policy{}, fmt.Errorf("invalid FALLBACK_EXCHANGE_RATE %q", cfg.FallbackExchangeRate)
		}
		rate = r
	}
	return ledger.Policy{ExternalFunding: funding, FallbackRate: rate, Proceeds: proceeds}, nil
}

// OpenDatabase connects to the configured database and migrates it.
func OpenDatabase(cfg *config.Config) (*database.Manager, error) {
	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := manager.Migrate(); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return manager, nil
}

// MarketGateway returns the market data client, fronted by the redis quote
// cache when REDIS_URL is set. An unreachable redis is logged and skipped.
// The returned close func is never nil.
func MarketGateway(ctx context.Context, cfg *config.Config) (marketdata.Gateway, func()) {
	client := marketdata.NewClient(cfg.MarketAPIURL, &http.Client{Timeout: cfg.MarketTimeout}, cfg.MarketTimeout, cfg.MarketRateLimit, cfg.MarketRateBurst)
	if cfg.RedisURL == "" {
		return client, func() {}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rdb, err := marketdata.NewRedisClient(pingCtx, cfg.RedisURL)
	if err != nil {
		logger.Get().Warnw("Quote cache disabled", "error", err)
		return client, func() {}
	}
	logger.Get().Infow("Quote cache enabled", "ttl", cfg.QuoteCacheTTL)
	return marketdata.NewCachedGateway(client, rdb, cfg.QuoteCacheTTL), func() { closeRedis(rdb) }
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		logger.Get().Warnw("Closing redis", "error", err)
	}
}

// Analyzer returns the configured AI analysis provider.
func Analyzer(ctx context.Context, cfg *config.Config) (analysis.Analyzer, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "", ProviderBackend:
		return analysis.NewBackendAnalyzer(cfg.MarketAPIURL, &http.Client{Timeout: 2 * time.Minute}), nil
	case ProviderGemini:
		return analysis.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q (use backend or gemini)", cfg.AIProvider)
	}
}

// Services is the wired application layer.
type Services struct {
	Store     *storage.Store
	Portfolio *services.PortfolioService
	Market    services.MarketServicer
	Analysis  services.AnalysisServicer
	History   services.HistoryServicer
	Activity  services.ActivityServicer
}

// NewServices wires the application services over db. publisher may be nil.
// The portfolio is loaded and its background writer started; callers Stop it.
func NewServices(ctx context.Context, cfg *config.Config, db *gorm.DB, gateway marketdata.Gateway, analyzer analysis.Analyzer, publisher services.Publisher) (*Services, error) {
	policy, err := Policy(cfg)
	if err != nil {
		return nil, err
	}

	store := storage.New(db)
	history := services.NewHistoryService(store, cfg.HistoryMaxPoints, cfg.DailyMaxPoints, Bangkok)
	activity := services.NewActivityService(db)

	opts := services.PortfolioOptions{
		Engine:    ledger.NewEngine(policy, nil),
		Store:     store,
		History:   history,
		Activity:  activity,
		Publisher: publisher,
		SeedDemo:  cfg.SeedDemo,
	}
	portfolio := services.NewPortfolioService(opts)
	portfolio.Start(ctx)
	if err := portfolio.Load(ctx); err != nil {
		portfolio.Stop()
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	s := &Services{
		Store:     store,
		Portfolio: portfolio,
		History:   history,
		Activity:  activity,
	}
	if gateway != nil {
		s.Market = services.NewMarketService(gateway, portfolio)
	}
	if analyzer != nil {
		s.Analysis = services.NewAnalysisService(analyzer, portfolio, store)
	}
	return s, nil
}
