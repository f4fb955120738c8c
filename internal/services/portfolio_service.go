package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/ledger"
	"thaifolio/internal/logger"
	"thaifolio/internal/models"
	"thaifolio/internal/valuation"
)

// EventPortfolioUpdated is published after every change to the asset list.
const EventPortfolioUpdated = "portfolio.updated"

// PortfolioOptions configures a PortfolioService.
type PortfolioOptions struct {
	Engine    *ledger.Engine
	Store     Store
	History   HistoryServicer
	Activity  ActivityServicer
	Publisher Publisher
	SeedDemo  bool
	Now       func() time.Time
}

// PortfolioService owns the in-memory asset list. Ledger operations run
// under mu; persistence and history are handed to a background writer that
// only ever keeps the newest pending list.
type PortfolioService struct {
	mu     sync.Mutex
	assets []ledger.Asset

	engine    *ledger.Engine
	store     Store
	history   HistoryServicer
	activity  ActivityServicer
	publisher Publisher
	seedDemo  bool
	now       func() time.Time
	log       *zap.SugaredLogger

	pending chan []ledger.Asset
	wg      sync.WaitGroup
	started bool
	stopped bool
}

var _ PortfolioServicer = (*PortfolioService)(nil)

// NewPortfolioService creates a PortfolioService. Store, History,
// Activity and Publisher are all optional.
func NewPortfolioService(opts PortfolioOptions) *PortfolioService {
	engine := opts.Engine
	if engine == nil {
		engine = ledger.NewEngine(ledger.DefaultPolicy(), nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &PortfolioService{
		assets:    []ledger.Asset{},
		engine:    engine,
		store:     opts.Store,
		history:   opts.History,
		activity:  opts.Activity,
		publisher: opts.Publisher,
		seedDemo:  opts.SeedDemo,
		now:       now,
		log:       logger.Component("portfolio"),
		pending:   make(chan []ledger.Asset, 1),
	}
}

// DemoPortfolio is the starting portfolio of a fresh installation.
func DemoPortfolio() []ledger.Asset {
	one := decimal.NewFromInt(1)
	return []ledger.Asset{
		{ID: 1, Name: "Kasikorn Bank", Symbol: "KBANK", Category: ledger.CategoryWallet, Currency: ledger.THB,
			Type: "Cash", Quantity: decimal.NewFromInt(50000), Price: one, ExchangeRate: one},
		{ID: 2, Name: "USD Cash", Symbol: "USD", Category: ledger.CategoryWallet, Currency: ledger.USD,
			Type: "Cash", Quantity: decimal.NewFromInt(1000), Price: one, ExchangeRate: decimal.RequireFromString("35.50")},
		{ID: 3, Name: "Apple Inc.", Symbol: "AAPL", Category: ledger.CategoryInvestment, Currency: ledger.USD,
			Type: "Stock", Quantity: decimal.NewFromInt(10), Price: decimal.RequireFromString("185.50"),
			ExchangeRate: decimal.RequireFromString("35.50")},
	}
}

// Start launches the background writer. It stops when ctx is done or Stop
// is called.
func (s *PortfolioService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.store == nil {
		return
	}
	s.started = true
	s.wg.Add(1)
	go s.writer(ctx)
}

// Stop closes the writer after it has saved the last pending list.
func (s *PortfolioService) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.pending)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *PortfolioService) writer(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case assets, ok := <-s.pending:
			if !ok {
				return
			}
			s.write(context.WithoutCancel(ctx), assets)
		case <-ctx.Done():
			// Drain what is already queued so the last edit is not lost.
			select {
			case assets, ok := <-s.pending:
				if ok {
					s.write(context.WithoutCancel(ctx), assets)
				}
			default:
			}
			return
		}
	}
}

func (s *PortfolioService) write(ctx context.Context, assets []ledger.Asset) {
	if err := s.store.SaveAssets(ctx, assets); err != nil {
		s.log.Errorw("Failed to persist portfolio", "assets", len(assets), "error", err)
	}
	if s.history != nil {
		s.history.Record(ctx, s.now(), valuation.Summarize(assets))
	}
}

// Flush writes the current list synchronously.
func (s *PortfolioService) Flush(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	assets := s.assets
	s.mu.Unlock()

	if err := s.store.SaveAssets(ctx, assets); err != nil {
		return err
	}
	if s.history != nil {
		s.history.Record(ctx, s.now(), valuation.Summarize(assets))
	}
	return nil
}

// enqueue hands assets to the writer, replacing any list still waiting.
// Callers hold mu, so there is a single producer.
func (s *PortfolioService) enqueue(assets []ledger.Asset) {
	if !s.started || s.stopped {
		return
	}
	select {
	case s.pending <- assets:
	default:
		select {
		case <-s.pending:
		default:
		}
		s.pending <- assets
	}
}

// Load reads the stored list, seeding the demo portfolio on first run, and
// consolidates duplicate positions. A failing store leaves the service
// running in memory.
func (s *PortfolioService) Load(ctx context.Context) error {
	var stored []ledger.Asset
	if s.store != nil {
		var err error
		stored, err = s.store.GetAssets(ctx)
		if err != nil {
			s.log.Warnw("Storage unavailable, continuing in memory", "error", err)
		}
	}

	dirty := false
	if stored == nil {
		if s.seedDemo {
			stored = DemoPortfolio()
			dirty = true
		} else {
			stored = []ledger.Asset{}
		}
	}

	consolidated := ledger.Consolidate(stored)
	if len(consolidated) != len(stored) {
		s.log.Infow("Consolidated duplicate positions", "before", len(stored), "after", len(consolidated))
		dirty = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = consolidated
	if dirty {
		s.enqueue(consolidated)
	}
	return nil
}

// Assets returns a copy of the current list.
func (s *PortfolioService) Assets() []ledger.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Clone(s.assets)
}

// Summary derives the valuation report from the current list.
func (s *PortfolioService) Summary() valuation.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return valuation.BuildReport(s.assets)
}

// commit replaces the list and fans the change out. Callers hold mu.
func (s *PortfolioService) commit(next []ledger.Asset) {
	s.assets = next
	s.enqueue(next)
	if s.publisher != nil {
		s.publisher.Publish(EventPortfolioUpdated, UpdateEvent{
			Assets: ledger.Clone(next),
			Report: valuation.BuildReport(next),
		})
	}
}

// UpdateEvent is the payload of EventPortfolioUpdated.
type UpdateEvent struct {
	Assets []ledger.Asset    `json:"assets"`
	Report valuation.Report `json:"report"`
}

func (s *PortfolioService) record(ctx context.Context, actor Actor, action string, assetID int64, details map[string]any) {
	if s.activity != nil {
		s.activity.Log(ctx, actor, action, assetID, details)
	}
}

// AddWalletCash opens a new cash wallet.
func (s *PortfolioService) AddWalletCash(ctx context.Context, actor Actor, in ledger.AddCashInput) (*ledger.Asset, error) {
	s.mu.Lock()
	next, wallet, err := s.engine.AddWalletCash(s.assets, in)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.commit(next)
	s.mu.Unlock()

	s.record(ctx, actor, models.ActionAddWallet, wallet.ID, map[string]any{
		"name": wallet.Name, "currency": wallet.Currency, "quantity": wallet.Quantity.String(),
	})
	return &wallet, nil
}

// Buy records a purchase and returns the resulting (possibly merged) position.
func (s *PortfolioService) Buy(ctx context.Context, actor Actor, in ledger.BuyInput) (*ledger.Asset, error) {
	s.mu.Lock()
	next, position, err := s.engine.Buy(s.assets, in)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.commit(next)
	s.mu.Unlock()

	s.record(ctx, actor, models.ActionBuy, position.ID, map[string]any{
		"symbol": position.Symbol, "quantity": in.Quantity.String(), "price": in.Price.String(),
		"funding_wallet_id": in.FundingWalletID,
	})
	return &position, nil
}

// Sell records a sale.
func (s *PortfolioService) Sell(ctx context.Context, actor Actor, in ledger.SellInput) error {
	s.mu.Lock()
	next, err := s.engine.Sell(s.assets, in)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.commit(next)
	s.mu.Unlock()

	s.record(ctx, actor, models.ActionSell, in.ID, map[string]any{
		"quantity": in.Quantity.String(), "price": in.Price.String(),
	})
	return nil
}

// Exchange converts cash between wallets.
func (s *PortfolioService) Exchange(ctx context.Context, actor Actor, in ledger.ExchangeInput) error {
	s.mu.Lock()
	next, err := s.engine.Exchange(s.assets, in)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.commit(next)
	s.mu.Unlock()

	s.record(ctx, actor, models.ActionExchange, in.SourceID, map[string]any{
		"direction": in.Direction, "amount": in.Amount.String(), "rate": in.Rate.String(),
		"destination_id": in.DestinationID,
	})
	return nil
}

// Transact deposits into or withdraws from a wallet.
func (s *PortfolioService) Transact(ctx context.Context, actor Actor, in ledger.TransactionInput) error {
	s.mu.Lock()
	next, err := s.engine.Transact(s.assets, in)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.commit(next)
	s.mu.Unlock()

	action := models.ActionDeposit
	if in.Type == ledger.Withdraw {
		action = models.ActionWithdraw
	}
	s.record(ctx, actor, action, in.WalletID, map[string]any{"amount": in.Amount.String()})
	return nil
}

// Delete removes an asset.
func (s *PortfolioService) Delete(ctx context.Context, actor Actor, id int64) error {
	s.mu.Lock()
	i := ledger.Find(s.assets, id)
	if i < 0 {
		s.mu.Unlock()
		return apperrors.ErrAssetNotFound
	}
	removed := s.assets[i]
	next, _ := ledger.Delete(s.assets, id)
	s.commit(next)
	s.mu.Unlock()

	s.record(ctx, actor, models.ActionDelete, id, map[string]any{"name": removed.Name, "symbol": removed.Symbol})
	return nil
}

// Export serializes the current list.
func (s *PortfolioService) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := ledger.Export(s.assets)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

// ImportResult counts the records read and the assets kept after merging.
type ImportResult struct {
	Records int `json:"records"`
	Assets  int `json:"assets"`
}

// Import replaces the whole list with payload, consolidated.
func (s *PortfolioService) Import(ctx context.Context, actor Actor, payload []byte) (ImportResult, error) {
	imported, err := ledger.Import(payload)
	if err != nil {
		return ImportResult{}, err
	}
	next := ledger.Consolidate(imported)

	s.mu.Lock()
	s.commit(next)
	s.mu.Unlock()

	s.record(ctx, actor, models.ActionImport, 0, map[string]any{
		"records": len(imported), "assets": len(next),
	})
	return ImportResult{Records: len(imported), Assets: len(next)}, nil
}

// Consolidate merges duplicate positions and returns how many rows were
// folded away.
func (s *PortfolioService) Consolidate(ctx context.Context, actor Actor) (int, error) {
	s.mu.Lock()
	next := ledger.Consolidate(s.assets)
	removed := len(s.assets) - len(next)
	if removed > 0 {
		s.commit(next)
	}
	s.mu.Unlock()

	if removed > 0 {
		s.record(ctx, actor, models.ActionConsolidate, 0, map[string]any{"removed": removed})
	}
	return removed, nil
}

// ApplyQuotes sets live market data on the current list by symbol.
func (s *PortfolioService) ApplyQuotes(quotes map[string]ledger.Quote) int {
	if len(quotes) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, updated := ledger.ApplyQuotes(s.assets, func(symbol string) (ledger.Quote, bool) {
		q, ok := quotes[symbol]
		return q, ok
	})
	if updated > 0 {
		s.commit(next)
	}
	return updated
}

// SetProfile attaches sector and industry to the position for symbol.
func (s *PortfolioService) SetProfile(symbol string, profile ledger.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ledger.SetProfile(s.assets, symbol, profile))
}
