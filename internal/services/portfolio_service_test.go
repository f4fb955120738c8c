package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"thaifolio/internal/ledger"
	"thaifolio/internal/models"
	"thaifolio/internal/testutil"
)

func newLoadedService(t *testing.T, assets []ledger.Asset) *PortfolioService {
	t.Helper()
	svc := NewPortfolioService(PortfolioOptions{Engine: newTestEngine()})
	_, err := svc.Import(context.Background(), Actor{}, mustExport(t, assets))
	testutil.AssertNoError(t, err)
	return svc
}

func mustExport(t *testing.T, assets []ledger.Asset) []byte {
	t.Helper()
	data, err := ledger.Export(assets)
	testutil.AssertNoError(t, err)
	return data
}

func TestPortfolioLoad(t *testing.T) {
	t.Run("seeds_demo_on_first_run", func(t *testing.T) {
		_, store := setupStore(t)
		svc := NewPortfolioService(PortfolioOptions{Engine: newTestEngine(), Store: store, SeedDemo: true})
		ctx := context.Background()

		testutil.AssertNoError(t, svc.Load(ctx))
		if got := len(svc.Assets()); got != 3 {
			t.Fatalf("expected 3 demo assets, got %d", got)
		}
		testutil.AssertNoError(t, svc.Flush(ctx))

		saved, err := store.GetAssets(ctx)
		testutil.AssertNoError(t, err)
		if len(saved) != 3 || saved[2].Symbol != "AAPL" {
			t.Errorf("expected demo portfolio persisted, got %+v", saved)
		}
	})

	t.Run("empty_without_seed", func(t *testing.T) {
		_, store := setupStore(t)
		svc := NewPortfolioService(PortfolioOptions{Store: store})
		testutil.AssertNoError(t, svc.Load(context.Background()))
		if got := len(svc.Assets()); got != 0 {
			t.Errorf("expected empty portfolio, got %d", got)
		}
	})

	t.Run("consolidates_stored_duplicates", func(t *testing.T) {
		_, store := setupStore(t)
		ctx := context.Background()
		testutil.AssertNoError(t, store.SaveAssets(ctx, []ledger.Asset{
			testutil.Investment(1, "AAPL", "5", "100", "35"),
			testutil.THBWallet(2, "KBANK", "10"),
			testutil.Investment(3, "AAPL", "5", "200", "35"),
		}))

		svc := NewPortfolioService(PortfolioOptions{Store: store, SeedDemo: true})
		testutil.AssertNoError(t, svc.Load(ctx))

		assets := svc.Assets()
		if len(assets) != 2 {
			t.Fatalf("expected 2 assets after consolidation, got %d", len(assets))
		}
		if !assets[0].Quantity.Equal(decimal.NewFromInt(10)) || !assets[0].Price.Equal(decimal.NewFromInt(150)) {
			t.Errorf("unexpected merged position %+v", assets[0])
		}
	})

	t.Run("storage_unavailable_runs_in_memory", func(t *testing.T) {
		svc := NewPortfolioService(PortfolioOptions{Store: failingStore{}, SeedDemo: true})
		testutil.AssertNoError(t, svc.Load(context.Background()))
		if got := len(svc.Assets()); got != 3 {
			t.Errorf("expected demo portfolio in memory, got %d", got)
		}
	})
}

func TestPortfolioImportPersists(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)
	svc := NewPortfolioService(PortfolioOptions{Engine: newTestEngine(), Store: store})
	testutil.AssertNoError(t, svc.Load(ctx))

	_, err := svc.Import(ctx, Actor{}, []byte(`[
		{"id": 7, "name": "KBANK", "category": "Wallet", "currency": "THB", "quantity": 1, "price": 1, "exchangeRate": 1},
		{"id": 7, "name": "Dime", "category": "Wallet", "currency": "USD", "quantity": 1, "price": 1, "exchangeRate": 35}
	]`))
	testutil.AssertAppError(t, err, "INVALID_FORMAT")
	if got := len(svc.Assets()); got != 0 {
		t.Fatalf("rejected import changed state: %d assets", got)
	}

	result, err := svc.Import(ctx, Actor{}, []byte(`[
		{"id": 7, "name": "KBANK", "category": "Wallet", "currency": "THB", "quantity": 1000, "price": 1, "exchangeRate": 1},
		{"id": 8, "name": "Apple", "symbol": "AAPL", "category": "Investment", "currency": "USD",
		 "type": "Stock", "quantity": 2, "price": 100, "exchangeRate": 35},
		{"id": 9, "name": "Apple", "symbol": "AAPL", "category": "Investment", "currency": "USD",
		 "type": "Stock", "quantity": 2, "price": 200, "exchangeRate": 35}
	]`))
	testutil.AssertNoError(t, err)
	if result.Records != 3 || result.Assets != 2 {
		t.Errorf("import result = %+v, want 3 records and 2 assets", result)
	}
	testutil.AssertNoError(t, svc.Flush(ctx))

	reloaded := NewPortfolioService(PortfolioOptions{Engine: newTestEngine(), Store: store})
	testutil.AssertNoError(t, reloaded.Load(ctx))
	assets := reloaded.Assets()
	testutil.AssertIDs(t, assets, 7, 8)
	testutil.AssertDecimal(t, "KBANK quantity", assets[0].Quantity, "1000")
	testutil.AssertDecimal(t, "AAPL price", assets[1].Price, "150")
}

func TestPortfolioOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("buy_funded_from_wallet", func(t *testing.T) {
		svc := newLoadedService(t, []ledger.Asset{testutil.USDWallet(1, "USD", "1000", "35.5")})

		pos, err := svc.Buy(ctx, Actor{}, ledger.BuyInput{
			Symbol: "aapl", Type: "Stock", Price: testutil.D("100"), Quantity: testutil.D("5"), FundingWalletID: 1,
		})
		testutil.AssertNoError(t, err)
		if pos.Symbol != "AAPL" || !pos.ExchangeRate.Equal(testutil.D("35.5")) {
			t.Errorf("unexpected position %+v", pos)
		}
		if w := svc.Assets()[0]; !w.Quantity.Equal(testutil.D("500")) {
			t.Errorf("expected wallet 500, got %s", w.Quantity)
		}
	})

	t.Run("failed_operation_leaves_state", func(t *testing.T) {
		svc := newLoadedService(t, []ledger.Asset{testutil.USDWallet(1, "USD", "10", "35")})
		before := svc.Assets()

		_, err := svc.Buy(ctx, Actor{}, ledger.BuyInput{
			Symbol: "AAPL", Price: testutil.D("100"), Quantity: testutil.D("1"), FundingWalletID: 1,
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")
		if !ledger.EqualLists(before, svc.Assets()) {
			t.Error("state changed after failed buy")
		}
	})

	t.Run("sell_exchange_transact", func(t *testing.T) {
		svc := newLoadedService(t, []ledger.Asset{
			testutil.THBWallet(1, "KBANK", "10000"),
			testutil.USDWallet(2, "USD", "0", "35"),
			testutil.Investment(3, "AAPL", "7", "100", "35"),
		})

		testutil.AssertNoError(t, svc.Sell(ctx, Actor{}, ledger.SellInput{ID: 3, Quantity: testutil.D("3"), Price: testutil.D("150")}))
		testutil.AssertNoError(t, svc.Exchange(ctx, Actor{}, ledger.ExchangeInput{
			SourceID: 1, Direction: ledger.THBToUSD, Amount: testutil.D("3500"), Rate: testutil.D("35"), DestinationID: 2,
		}))
		testutil.AssertNoError(t, svc.Transact(ctx, Actor{}, ledger.TransactionInput{
			WalletID: 1, Type: ledger.Withdraw, Amount: testutil.D("500"),
		}))

		assets := svc.Assets()
		if !assets[0].Quantity.Equal(testutil.D("6000")) {
			t.Errorf("expected THB 6000, got %s", assets[0].Quantity)
		}
		if !assets[1].Quantity.Equal(testutil.D("550")) {
			t.Errorf("expected USD 550, got %s", assets[1].Quantity)
		}
		if !assets[2].Quantity.Equal(testutil.D("4")) {
			t.Errorf("expected 4 AAPL, got %s", assets[2].Quantity)
		}
	})

	t.Run("delete_unknown", func(t *testing.T) {
		svc := newLoadedService(t, testutil.SamplePortfolio())
		testutil.AssertAppError(t, svc.Delete(ctx, Actor{}, 999), "ASSET_NOT_FOUND")
		testutil.AssertNoError(t, svc.Delete(ctx, Actor{}, 2))
		if got := len(svc.Assets()); got != 2 {
			t.Errorf("expected 2 assets, got %d", got)
		}
	})

	t.Run("import_rejects_bad_payload", func(t *testing.T) {
		svc := newLoadedService(t, testutil.SamplePortfolio())
		_, err := svc.Import(ctx, Actor{}, []byte(`{"id":1}`))
		testutil.AssertAppError(t, err, "INVALID_FORMAT")
		if got := len(svc.Assets()); got != 3 {
			t.Errorf("import failure changed state: %d assets", got)
		}
	})

	t.Run("export_round_trip", func(t *testing.T) {
		svc := newLoadedService(t, testutil.SamplePortfolio())
		data, err := svc.Export()
		testutil.AssertNoError(t, err)
		back, err := ledger.Import(data)
		testutil.AssertNoError(t, err)
		if !ledger.EqualLists(back, svc.Assets()) {
			t.Error("export did not round trip")
		}
	})

	t.Run("apply_quotes_and_profile", func(t *testing.T) {
		svc := newLoadedService(t, testutil.SamplePortfolio())
		n := svc.ApplyQuotes(map[string]ledger.Quote{"AAPL": {Price: testutil.D("200")}, "MSFT": {Price: testutil.D("1")}})
		if n != 1 {
			t.Errorf("expected 1 update, got %d", n)
		}
		svc.SetProfile("AAPL", ledger.Profile{Sector: "Technology"})

		aapl := svc.Assets()[2]
		if aapl.Market == nil || !aapl.Market.Price.Equal(testutil.D("200")) {
			t.Errorf("expected market price 200, got %+v", aapl.Market)
		}
		if aapl.Profile == nil || aapl.Profile.Sector != "Technology" {
			t.Errorf("expected profile, got %+v", aapl.Profile)
		}
	})
}

func TestPortfolioSideEffects(t *testing.T) {
	db, store := setupStore(t)
	pub := &recordingPublisher{}
	history := NewHistoryService(store, 50, 365, nil)
	svc := NewPortfolioService(PortfolioOptions{
		Engine:    newTestEngine(),
		Store:     store,
		History:   history,
		Activity:  NewActivityService(db),
		Publisher: pub,
		Now:       (&tickingClock{now: time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)}).Now,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	testutil.AssertNoError(t, svc.Load(ctx))
	svc.Start(ctx)

	_, err := svc.AddWalletCash(ctx, Actor{IPAddress: "10.0.0.1"}, ledger.AddCashInput{
		Name: "KBANK", Currency: ledger.THB, Quantity: testutil.D("1000"),
	})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, svc.Transact(ctx, Actor{}, ledger.TransactionInput{
		WalletID: 100, Type: ledger.Deposit, Amount: testutil.D("500"),
	}))
	svc.Stop()

	if pub.count() != 2 {
		t.Errorf("expected 2 published events, got %d", pub.count())
	}

	saved, err := store.GetAssets(ctx)
	testutil.AssertNoError(t, err)
	if len(saved) != 1 || !saved[0].Quantity.Equal(testutil.D("1500")) {
		t.Errorf("expected latest list persisted, got %+v", saved)
	}

	points, err := history.RealTime(ctx)
	testutil.AssertNoError(t, err)
	if len(points) == 0 || !points[len(points)-1].Value.Equal(testutil.D("1500")) {
		t.Errorf("expected history ending at 1500, got %+v", points)
	}

	var logs []models.ActivityLog
	db.Order("created_at ASC").Find(&logs)
	if len(logs) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(logs))
	}
	if logs[0].Action != models.ActionAddWallet || logs[0].IPAddress != "10.0.0.1" {
		t.Errorf("unexpected first entry %+v", logs[0])
	}
	if logs[1].Action != models.ActionDeposit || logs[1].AssetID != 100 {
		t.Errorf("unexpected second entry %+v", logs[1])
	}
}

func TestPortfolioConsolidate(t *testing.T) {
	svc := NewPortfolioService(PortfolioOptions{})
	// Import consolidates, so duplicates can only come from stored state.
	svc.assets = []ledger.Asset{
		testutil.Investment(1, "AAPL", "1", "100", "35"),
		testutil.Investment(2, "AAPL", "1", "300", "35"),
	}

	removed, err := svc.Consolidate(context.Background(), Actor{})
	testutil.AssertNoError(t, err)
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	removed, _ = svc.Consolidate(context.Background(), Actor{})
	if removed != 0 {
		t.Errorf("expected idempotent consolidate, got %d", removed)
	}
}
