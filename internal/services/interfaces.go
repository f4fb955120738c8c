package services

import (
	"context"
	"time"

	"thaifolio/internal/analysis"
	"thaifolio/internal/ledger"
	"thaifolio/internal/markethours"
	"thaifolio/internal/marketdata"
	"thaifolio/internal/models"
	"thaifolio/internal/pagination"
	"thaifolio/internal/valuation"
)

// Store is the persistence gateway. Implemented by storage.Store.
type Store interface {
	GetAssets(ctx context.Context) ([]ledger.Asset, error)
	SaveAssets(ctx context.Context, assets []ledger.Asset) error
	GetHistory(ctx context.Context) ([]models.ValuationPoint, error)
	ListHistory(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.ValuationPoint], error)
	AppendHistoryPoint(ctx context.Context, p models.ValuationPoint) error
	TrimHistory(ctx context.Context, maxPoints int) error
	GetDailyHistory(ctx context.Context) ([]models.DailyValuation, error)
	SaveDailyPoint(ctx context.Context, p models.DailyValuation) error
	TrimDailyHistory(ctx context.Context, maxPoints int) error
	GetSetting(ctx context.Context, key string, dst interface{}) (bool, error)
	SaveSetting(ctx context.Context, key string, value interface{}) error
}

// Publisher receives portfolio change events. Implemented by realtime.Hub.
type Publisher interface {
	Publish(event string, payload interface{})
}

// Actor identifies who triggered a ledger operation, for the activity log.
type Actor struct {
	IPAddress string
}

// PortfolioServicer is the state container for the ledger: it owns the
// current asset list and applies every ledger operation to it.
type PortfolioServicer interface {
	Load(ctx context.Context) error
	Assets() []ledger.Asset
	Summary() valuation.Report
	AddWalletCash(ctx context.Context, actor Actor, in ledger.AddCashInput) (*ledger.Asset, error)
	Buy(ctx context.Context, actor Actor, in ledger.BuyInput) (*ledger.Asset, error)
	Sell(ctx context.Context, actor Actor, in ledger.SellInput) error
	Exchange(ctx context.Context, actor Actor, in ledger.ExchangeInput) error
	Transact(ctx context.Context, actor Actor, in ledger.TransactionInput) error
	Delete(ctx context.Context, actor Actor, id int64) error
	Export() ([]byte, error)
	Import(ctx context.Context, actor Actor, payload []byte) (ImportResult, error)
	Consolidate(ctx context.Context, actor Actor) (int, error)
	ApplyQuotes(quotes map[string]ledger.Quote) int
	SetProfile(symbol string, profile ledger.Profile)
	Flush(ctx context.Context) error
}

// RefreshResult is the outcome of one price refresh.
type RefreshResult struct {
	Symbols  int           `json:"symbols"`
	Updated  int           `json:"updated"`
	Skipped  bool          `json:"skipped"`
	Duration time.Duration `json:"duration_ns"`
}

// MarketServicer fetches live market data and applies it to the portfolio.
type MarketServicer interface {
	RefreshPrices(ctx context.Context) (*RefreshResult, error)
	Search(ctx context.Context, query string) ([]marketdata.SearchResult, error)
	SymbolInfo(ctx context.Context, symbol string) (*marketdata.SymbolInfo, error)
	EnrichProfile(ctx context.Context, symbol string)
	News(ctx context.Context, category string, page int, query string) ([]marketdata.NewsItem, error)
	Status(at time.Time) markethours.Status
}

// AnalysisServicer produces AI commentary.
type AnalysisServicer interface {
	AnalyzePortfolio(ctx context.Context, mode string, language string) (string, error)
	AnalyzeNews(ctx context.Context, req analysis.NewsRequest) (string, error)
	AnalyzeArticle(ctx context.Context, req analysis.ArticleRequest) (string, error)
	Chat(ctx context.Context, req analysis.ChatRequest) (string, error)
	Mode(ctx context.Context) analysis.Mode
}

// HistoryServicer records and reads valuation history.
type HistoryServicer interface {
	Record(ctx context.Context, at time.Time, breakdown valuation.Breakdown)
	RealTime(ctx context.Context) ([]models.ValuationPoint, error)
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.ValuationPoint], error)
	Daily(ctx context.Context) ([]models.DailyValuation, error)
}

// ActivityServicer records applied ledger operations.
type ActivityServicer interface {
	Log(ctx context.Context, actor Actor, action string, assetID int64, details map[string]any)
	List(ctx context.Context, action string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error)
}
