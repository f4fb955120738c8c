package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"thaifolio/internal/ledger"
	"thaifolio/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// D parses a decimal literal, panicking on malformed input.
func D(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// THBWallet returns a THB cash wallet holding qty.
func THBWallet(id int64, name, qty string) ledger.Asset {
	return ledger.Asset{
		ID: id, Name: name, Symbol: "THB", Category: ledger.CategoryWallet, Currency: ledger.THB,
		Type: "Cash", Quantity: D(qty), Price: decimal.NewFromInt(1), ExchangeRate: decimal.NewFromInt(1),
	}
}

// USDWallet returns a USD cash wallet holding qty bought at rate.
func USDWallet(id int64, name, qty, rate string) ledger.Asset {
	return ledger.Asset{
		ID: id, Name: name, Symbol: "USD", Category: ledger.CategoryWallet, Currency: ledger.USD,
		Type: "Cash", Quantity: D(qty), Price: decimal.NewFromInt(1), ExchangeRate: D(rate),
	}
}

// Investment returns a USD stock position.
func Investment(id int64, symbol, qty, price, rate string) ledger.Asset {
	return ledger.Asset{
		ID: id, Name: symbol, Symbol: symbol, Category: ledger.CategoryInvestment, Currency: ledger.USD,
		Type: "Stock", Quantity: D(qty), Price: D(price), ExchangeRate: D(rate),
	}
}

// SamplePortfolio returns a small portfolio with one asset of each kind.
func SamplePortfolio() []ledger.Asset {
	return []ledger.Asset{
		THBWallet(1, "KBANK", "50000"),
		USDWallet(2, "USD Cash", "1000", "35.5"),
		Investment(3, "AAPL", "10", "185.5", "35.5"),
	}
}

// CreateTestValuationPoint inserts a valuation point recorded at the given time.
func CreateTestValuationPoint(t *testing.T, db *gorm.DB, at time.Time, value string) *models.ValuationPoint {
	t.Helper()

	p := &models.ValuationPoint{
		RecordedAt:     at,
		Value:          D(value),
		InvestmentsTHB: decimal.Zero,
		CashTHB:        D(value),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test valuation point: %v", err)
	}
	return p
}

// CreateTestActivity inserts an activity log entry.
func CreateTestActivity(t *testing.T, db *gorm.DB, action string, assetID int64) *models.ActivityLog {
	t.Helper()

	entry := &models.ActivityLog{
		Action:  action,
		AssetID: assetID,
		Details: fmt.Sprintf(`{"fixture":%d}`, nextID()),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test activity: %v", err)
	}
	return entry
}
