package valuation

import (
	"github.com/shopspring/decimal"

	"thaifolio/internal/ledger"
)

// Performer identifies the best or worst holding by P&L percent.
type Performer struct {
	Symbol     string          `json:"symbol"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent decimal.Decimal `json:"pnl_percent"`
}

// TypeSummary contains summary data for a single investment type.
type TypeSummary struct {
	ValueTHB decimal.Decimal `json:"value_thb"`
	Count    int             `json:"count"`
}

// Stats are the portfolio-wide investment statistics.
type Stats struct {
	TotalCost          decimal.Decimal        `json:"total_cost"`
	TotalMarketValue   decimal.Decimal        `json:"total_market_value"`
	TotalPnL           decimal.Decimal        `json:"total_pnl"`
	TotalPnLPercent    decimal.Decimal        `json:"total_pnl_percent"`
	Best               *Performer             `json:"best"`
	Worst              *Performer             `json:"worst"`
	DailyChange        decimal.Decimal        `json:"daily_change"`
	DailyChangePercent decimal.Decimal        `json:"daily_change_percent"`
	HoldingsByType     map[string]TypeSummary `json:"holdings_by_type"`
}

// Compute derives Stats from the investments in assets. Best and Worst are
// nil without investments; on ties the first holding in list order wins.
func Compute(assets []ledger.Asset) Stats {
	s := Stats{
		TotalCost:        decimal.Zero,
		TotalMarketValue: decimal.Zero,
		DailyChange:      decimal.Zero,
		HoldingsByType:   make(map[string]TypeSummary),
	}

	for _, a := range ledger.Investments(assets) {
		h := Evaluate(a)
		s.TotalCost = s.TotalCost.Add(h.CostBasis)
		s.TotalMarketValue = s.TotalMarketValue.Add(h.MarketValue)

		if s.Best == nil || h.PnLPercent.GreaterThan(s.Best.PnLPercent) {
			s.Best = &Performer{Symbol: h.Symbol, PnL: h.PnL, PnLPercent: h.PnLPercent}
		}
		if s.Worst == nil || h.PnLPercent.LessThan(s.Worst.PnLPercent) {
			s.Worst = &Performer{Symbol: h.Symbol, PnL: h.PnL, PnLPercent: h.PnLPercent}
		}

		if a.Market != nil && a.Market.Change.Valid {
			s.DailyChange = s.DailyChange.Add(a.Market.Change.Decimal.Mul(a.Quantity))
		}

		ts := s.HoldingsByType[a.Type]
		ts.ValueTHB = ts.ValueTHB.Add(h.ValueTHB)
		ts.Count++
		s.HoldingsByType[a.Type] = ts
	}

	s.TotalPnL = s.TotalMarketValue.Sub(s.TotalCost)
	s.TotalPnLPercent = percent(s.TotalPnL, s.TotalCost)
	s.DailyChangePercent = percent(s.DailyChange, s.TotalMarketValue.Sub(s.DailyChange))
	return s
}

// Report bundles every derived view of a portfolio.
type Report struct {
	Breakdown Breakdown `json:"breakdown"`
	Stats     Stats     `json:"stats"`
	Holdings  []Holding `json:"holdings"`
}

// BuildReport computes the breakdown, stats and per-holding P&L.
func BuildReport(assets []ledger.Asset) Report {
	invs := ledger.Investments(assets)
	holdings := make([]Holding, 0, len(invs))
	for _, a := range invs {
		holdings = append(holdings, Evaluate(a))
	}
	return Report{
		Breakdown: Summarize(assets),
		Stats:     Compute(assets),
		Holdings:  holdings,
	}
}
