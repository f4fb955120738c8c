package handlers

import (
	"context"
	"time"

	"thaifolio/internal/analysis"
	"thaifolio/internal/ledger"
	"thaifolio/internal/markethours"
	"thaifolio/internal/marketdata"
	"thaifolio/internal/models"
	"thaifolio/internal/pagination"
	"thaifolio/internal/services"
	"thaifolio/internal/valuation"
)

// --- mock portfolio service ---

type mockPortfolioService struct {
	assets        []ledger.Asset
	lastActor     services.Actor
	addWalletFn   func(in ledger.AddCashInput) (*ledger.Asset, error)
	buyFn         func(in ledger.BuyInput) (*ledger.Asset, error)
	sellFn        func(in ledger.SellInput) error
	exchangeFn    func(in ledger.ExchangeInput) error
	transactFn    func(in ledger.TransactionInput) error
	deleteFn      func(id int64) error
	exportFn      func() ([]byte, error)
	importFn      func(payload []byte) (services.ImportResult, error)
	consolidateFn func() (int, error)
}

func (m *mockPortfolioService) Load(context.Context) error { return nil }

func (m *mockPortfolioService) Assets() []ledger.Asset { return ledger.Clone(m.assets) }

func (m *mockPortfolioService) Summary() valuation.Report { return valuation.BuildReport(m.assets) }

func (m *mockPortfolioService) AddWalletCash(_ context.Context, actor services.Actor, in ledger.AddCashInput) (*ledger.Asset, error) {
	m.lastActor = actor
	if m.addWalletFn != nil {
		return m.addWalletFn(in)
	}
	return &ledger.Asset{}, nil
}

func (m *mockPortfolioService) Buy(_ context.Context, actor services.Actor, in ledger.BuyInput) (*ledger.Asset, error) {
	m.lastActor = actor
	if m.buyFn != nil {
		return m.buyFn(in)
	}
	return &ledger.Asset{Symbol: in.Symbol, Profile: in.Profile}, nil
}

func (m *mockPortfolioService) Sell(_ context.Context, actor services.Actor, in ledger.SellInput) error {
	m.lastActor = actor
	if m.sellFn != nil {
		return m.sellFn(in)
	}
	return nil
}

func (m *mockPortfolioService) Exchange(_ context.Context, actor services.Actor, in ledger.ExchangeInput) error {
	m.lastActor = actor
	if m.exchangeFn != nil {
		return m.exchangeFn(in)
	}
	return nil
}

func (m *mockPortfolioService) Transact(_ context.Context, actor services.Actor, in ledger.TransactionInput) error {
	m.lastActor = actor
	if m.transactFn != nil {
		return m.transactFn(in)
	}
	return nil
}

func (m *mockPortfolioService) Delete(_ context.Context, actor services.Actor, id int64) error {
	m.lastActor = actor
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockPortfolioService) Export() ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn()
	}
	return ledger.Export(m.assets)
}

func (m *mockPortfolioService) Import(_ context.Context, actor services.Actor, payload []byte) (services.ImportResult, error) {
	m.lastActor = actor
	if m.importFn != nil {
		return m.importFn(payload)
	}
	return services.ImportResult{}, nil
}

func (m *mockPortfolioService) Consolidate(_ context.Context, actor services.Actor) (int, error) {
	m.lastActor = actor
	if m.consolidateFn != nil {
		return m.consolidateFn()
	}
	return 0, nil
}

func (m *mockPortfolioService) ApplyQuotes(map[string]ledger.Quote) int { return 0 }

func (m *mockPortfolioService) SetProfile(string, ledger.Profile) {}

func (m *mockPortfolioService) Flush(context.Context) error { return nil }

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

// --- mock market service ---

type mockMarketService struct {
	refreshFn func() (*services.RefreshResult, error)
	searchFn  func(query string) ([]marketdata.SearchResult, error)
	infoFn    func(symbol string) (*marketdata.SymbolInfo, error)
	newsFn    func(category string, page int, query string) ([]marketdata.NewsItem, error)
	open      bool
	enriched  chan string
	refreshed int
}

func (m *mockMarketService) RefreshPrices(context.Context) (*services.RefreshResult, error) {
	m.refreshed++
	if m.refreshFn != nil {
		return m.refreshFn()
	}
	return &services.RefreshResult{}, nil
}

func (m *mockMarketService) Search(_ context.Context, query string) ([]marketdata.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(query)
	}
	return nil, nil
}

func (m *mockMarketService) SymbolInfo(_ context.Context, symbol string) (*marketdata.SymbolInfo, error) {
	if m.infoFn != nil {
		return m.infoFn(symbol)
	}
	return &marketdata.SymbolInfo{Symbol: symbol}, nil
}

func (m *mockMarketService) EnrichProfile(_ context.Context, symbol string) {
	if m.enriched != nil {
		m.enriched <- symbol
	}
}

func (m *mockMarketService) News(_ context.Context, category string, page int, query string) ([]marketdata.NewsItem, error) {
	if m.newsFn != nil {
		return m.newsFn(category, page, query)
	}
	return nil, nil
}

func (m *mockMarketService) Status(at time.Time) markethours.Status {
	return markethours.Status{At: at, Open: m.open, Sessions: map[string]bool{"NYSE": m.open, "SET": false}}
}

var _ services.MarketServicer = (*mockMarketService)(nil)

// --- mock analysis service ---

type mockAnalysisService struct {
	portfolioFn func(mode, language string) (string, error)
	newsFn      func(req analysis.NewsRequest) (string, error)
	articleFn   func(req analysis.ArticleRequest) (string, error)
	chatFn      func(req analysis.ChatRequest) (string, error)
	mode        analysis.Mode
}

func (m *mockAnalysisService) AnalyzePortfolio(_ context.Context, mode, language string) (string, error) {
	if m.portfolioFn != nil {
		return m.portfolioFn(mode, language)
	}
	return "", nil
}

func (m *mockAnalysisService) AnalyzeNews(_ context.Context, req analysis.NewsRequest) (string, error) {
	if m.newsFn != nil {
		return m.newsFn(req)
	}
	return "", nil
}

func (m *mockAnalysisService) AnalyzeArticle(_ context.Context, req analysis.ArticleRequest) (string, error) {
	if m.articleFn != nil {
		return m.articleFn(req)
	}
	return "", nil
}

func (m *mockAnalysisService) Chat(_ context.Context, req analysis.ChatRequest) (string, error) {
	if m.chatFn != nil {
		return m.chatFn(req)
	}
	return "", nil
}

func (m *mockAnalysisService) Mode(context.Context) analysis.Mode {
	if m.mode == "" {
		return analysis.DefaultMode
	}
	return m.mode
}

var _ services.AnalysisServicer = (*mockAnalysisService)(nil)

// --- mock history and activity services ---

type mockHistoryService struct {
	listFn  func(page pagination.PageRequest) (*pagination.PageResponse[models.ValuationPoint], error)
	dailyFn func() ([]models.DailyValuation, error)
}

func (m *mockHistoryService) Record(context.Context, time.Time, valuation.Breakdown) {}

func (m *mockHistoryService) RealTime(context.Context) ([]models.ValuationPoint, error) {
	return nil, nil
}

func (m *mockHistoryService) List(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.ValuationPoint], error) {
	if m.listFn != nil {
		return m.listFn(page)
	}
	resp := pagination.NewPageResponse([]models.ValuationPoint{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

func (m *mockHistoryService) Daily(context.Context) ([]models.DailyValuation, error) {
	if m.dailyFn != nil {
		return m.dailyFn()
	}
	return []models.DailyValuation{}, nil
}

var _ services.HistoryServicer = (*mockHistoryService)(nil)

type mockActivityService struct {
	listFn func(action string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error)
}

func (m *mockActivityService) Log(context.Context, services.Actor, string, int64, map[string]any) {}

func (m *mockActivityService) List(_ context.Context, action string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error) {
	if m.listFn != nil {
		return m.listFn(action, page)
	}
	resp := pagination.NewPageResponse([]models.ActivityLog{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

var _ services.ActivityServicer = (*mockActivityService)(nil)
