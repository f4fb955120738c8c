package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thaifolio/internal/analysis"
	"thaifolio/internal/config"
	"thaifolio/internal/ledger"
	"thaifolio/internal/marketdata"
	"thaifolio/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		ExternalFundingPolicy: "manual_rate",
		FallbackExchangeRate:  "35",
		ProceedsPolicy:        "sole_usd_wallet",
		MarketAPIURL:          "http://127.0.0.1:1",
		HistoryMaxPoints:      50,
		DailyMaxPoints:        365,
		AIProvider:            "backend",
	}
}

func TestPolicy(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := Policy(testConfig())
		require.NoError(t, err)
		assert.Equal(t, ledger.FundingManualRate, p.ExternalFunding)
		assert.Equal(t, ledger.ProceedsSoleUSDWallet, p.Proceeds)
		assert.True(t, p.FallbackRate.Equal(testutil.D("35")))
	})

	t.Run("custom fallback rate", func(t *testing.T) {
		cfg := testConfig()
		cfg.FallbackExchangeRate = "33.25"
		cfg.ProceedsPolicy = "new_wallet"
		p, err := Policy(cfg)
		require.NoError(t, err)
		assert.True(t, p.FallbackRate.Equal(testutil.D("33.25")))
		assert.Equal(t, ledger.ProceedsNewWallet, p.Proceeds)
	})

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown funding policy", func(c *config.Config) { c.ExternalFundingPolicy = "borrow" }},
		{"unknown proceeds policy", func(c *config.Config) { c.ProceedsPolicy = "anywhere" }},
		{"non-numeric rate", func(c *config.Config) { c.FallbackExchangeRate = "abc" }},
		{"zero rate", func(c *config.Config) { c.FallbackExchangeRate = "0" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			_, err := Policy(cfg)
			assert.Error(t, err)
		})
	}
}

func TestAnalyzer(t *testing.T) {
	a, err := Analyzer(context.Background(), testConfig())
	require.NoError(t, err)
	assert.IsType(t, &analysis.BackendAnalyzer{}, a)

	cfg := testConfig()
	cfg.AIProvider = "openai"
	_, err = Analyzer(context.Background(), cfg)
	assert.Error(t, err)
}

func TestMarketGateway_WithoutRedis(t *testing.T) {
	gw, closeFn := MarketGateway(context.Background(), testConfig())
	defer closeFn()
	assert.IsType(t, &marketdata.Client{}, gw)
}

func TestMarketGateway_UnreachableRedisFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	gw, closeFn := MarketGateway(context.Background(), cfg)
	defer closeFn()
	assert.IsType(t, &marketdata.Client{}, gw)
}

func TestMarketGateway_HonoursMarketTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(time.Second):
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig()
	cfg.MarketAPIURL = srv.URL
	cfg.MarketTimeout = 100 * time.Millisecond
	gw, closeFn := MarketGateway(context.Background(), cfg)
	defer closeFn()

	start := time.Now()
	_, err := gw.Search(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 700*time.Millisecond)
}

func TestNewServices_SeedsDemoPortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testConfig()
	cfg.SeedDemo = true

	ctx := context.Background()
	svc, err := NewServices(ctx, cfg, db, nil, nil, nil)
	require.NoError(t, err)
	svc.Portfolio.Stop()

	assert.Nil(t, svc.Market)
	assert.Nil(t, svc.Analysis)
	assert.Len(t, svc.Portfolio.Assets(), 3)

	stored, err := svc.Store.GetAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestNewServices_RejectsBadPolicy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testConfig()
	cfg.ProceedsPolicy = "nowhere"

	_, err := NewServices(context.Background(), cfg, db, nil, nil, nil)
	assert.Error(t, err)
}
