// Package valuation derives read-only aggregates from a ledger asset list:
// THB totals, per-holding P&L, portfolio statistics and allocation by type.
package valuation

import (
	"github.com/shopspring/decimal"

	"thaifolio/internal/ledger"
)

var hundred = decimal.NewFromInt(100)

// TotalTHB sums quantity * (market price or cost price) * exchange rate.
func TotalTHB(assets []ledger.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(a.Quantity.Mul(a.MarketPrice()).Mul(a.ExchangeRate))
	}
	return total
}

// Breakdown splits the THB value of a portfolio by asset group.
type Breakdown struct {
	InvestmentsTHB decimal.Decimal `json:"investments_thb"`
	USDWalletsTHB  decimal.Decimal `json:"usd_wallets_thb"`
	THBWalletsTHB  decimal.Decimal `json:"thb_wallets_thb"`
	GrandTotalTHB  decimal.Decimal `json:"grand_total_thb"`
}

// Summarize computes the THB breakdown. The grand total is the sum of the three groups.
func Summarize(assets []ledger.Asset) Breakdown {
	b := Breakdown{
		InvestmentsTHB: TotalTHB(ledger.Investments(assets)),
		USDWalletsTHB:  TotalTHB(ledger.Wallets(assets, ledger.USD)),
		THBWalletsTHB:  TotalTHB(ledger.Wallets(assets, ledger.THB)),
	}
	b.GrandTotalTHB = b.InvestmentsTHB.Add(b.USDWalletsTHB).Add(b.THBWalletsTHB)
	return b
}

// Holding is the P&L view of a single investment.
type Holding struct {
	ID          int64           `json:"id"`
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	MarketPrice decimal.Decimal `json:"market_price"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	MarketValue decimal.Decimal `json:"market_value"`
	PnL         decimal.Decimal `json:"pnl"`
	PnLPercent  decimal.Decimal `json:"pnl_percent"`
	ValueTHB    decimal.Decimal `json:"value_thb"`
}

// Evaluate computes P&L for one investment. PnLPercent is 0 when the cost basis is 0.
func Evaluate(a ledger.Asset) Holding {
	cost := a.CostBasis()
	market := a.MarketPrice().Mul(a.Quantity)
	pnl := market.Sub(cost)
	return Holding{
		ID:          a.ID,
		Symbol:      a.Symbol,
		Name:        a.Name,
		Type:        a.Type,
		Quantity:    a.Quantity,
		Price:       a.Price,
		MarketPrice: a.MarketPrice(),
		CostBasis:   cost,
		MarketValue: market,
		PnL:         pnl,
		PnLPercent:  percent(pnl, cost),
		ValueTHB:    market.Mul(a.ExchangeRate),
	}
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
