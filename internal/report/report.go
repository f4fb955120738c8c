// Package report renders portfolio views as markdown for terminals and
// chat front-ends.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"thaifolio/internal/ledger"
	"thaifolio/internal/markethours"
	"thaifolio/internal/valuation"
)

// Money formats an amount in the given ISO currency, rounded to the
// currency's minor unit.
func Money(d decimal.Decimal, code string) string {
	// money.New is the only way to get a non-nil currency with its formatter.
	cur := *money.New(0, code).Currency()
	minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// SignedMoney is Money with an explicit sign; zero renders as "-".
func SignedMoney(d decimal.Decimal, code string) string {
	switch {
	case d.IsZero():
		return "-"
	case d.IsPositive():
		return "+" + Money(d, code)
	}
	return "-" + Money(d.Abs(), code)
}

// Percent renders a percentage with two decimals and a sign.
func Percent(d decimal.Decimal) string {
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// Summary renders the totals, holdings and wallets of a portfolio.
func Summary(assets []ledger.Asset, at time.Time) string {
	r := valuation.BuildReport(assets)
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio summary on %s\n\n", at.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total value: **%s**\n\n", Money(r.Breakdown.GrandTotalTHB, "THB"))

	fmt.Fprintln(&b, "| Group | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Investments | %s |\n", Money(r.Breakdown.InvestmentsTHB, "THB"))
	fmt.Fprintf(&b, "| USD wallets | %s |\n", Money(r.Breakdown.USDWalletsTHB, "THB"))
	fmt.Fprintf(&b, "| THB wallets | %s |\n", Money(r.Breakdown.THBWalletsTHB, "THB"))
	fmt.Fprintln(&b)

	if len(r.Holdings) > 0 {
		writeHoldings(&b, r)
	}
	writeWallets(&b, assets)
	return b.String()
}

func writeHoldings(b *strings.Builder, r valuation.Report) {
	s := r.Stats
	fmt.Fprintf(b, "## Investments\n\n")
	fmt.Fprintln(b, "| Symbol | Quantity | Avg cost | Price | Value | Value (THB) | P&L | P&L % |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, h := range r.Holdings {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			h.Symbol,
			h.Quantity.String(),
			Money(h.Price, "USD"),
			Money(h.MarketPrice, "USD"),
			Money(h.MarketValue, "USD"),
			Money(h.ValueTHB, "THB"),
			SignedMoney(h.PnL, "USD"),
			Percent(h.PnLPercent),
		)
	}
	fmt.Fprintln(b)

	fmt.Fprintf(b, "- Cost basis: %s\n", Money(s.TotalCost, "USD"))
	fmt.Fprintf(b, "- Market value: %s\n", Money(s.TotalMarketValue, "USD"))
	fmt.Fprintf(b, "- Unrealized P&L: %s (%s)\n", SignedMoney(s.TotalPnL, "USD"), Percent(s.TotalPnLPercent))
	fmt.Fprintf(b, "- Today: %s (%s)\n", SignedMoney(s.DailyChange, "USD"), Percent(s.DailyChangePercent))
	if s.Best != nil && s.Worst != nil {
		fmt.Fprintf(b, "- Best: %s %s\n", s.Best.Symbol, Percent(s.Best.PnLPercent))
		fmt.Fprintf(b, "- Worst: %s %s\n", s.Worst.Symbol, Percent(s.Worst.PnLPercent))
	}
	fmt.Fprintln(b)

	types := make([]string, 0, len(s.HoldingsByType))
	for t := range s.HoldingsByType {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Fprintf(b, "### Allocation by type\n\n")
	fmt.Fprintln(b, "| Type | Holdings | Value (THB) |")
	fmt.Fprintln(b, "|:---|---:|---:|")
	for _, t := range types {
		ts := s.HoldingsByType[t]
		name := t
		if name == "" {
			name = "other"
		}
		fmt.Fprintf(b, "| %s | %d | %s |\n", name, ts.Count, Money(ts.ValueTHB, "THB"))
	}
	fmt.Fprintln(b)
}

func writeWallets(b *strings.Builder, assets []ledger.Asset) {
	var wallets []ledger.Asset
	for _, a := range assets {
		if a.IsWallet() {
			wallets = append(wallets, a)
		}
	}
	if len(wallets) == 0 {
		return
	}

	fmt.Fprintf(b, "## Wallets\n\n")
	fmt.Fprintln(b, "| Wallet | Balance | Rate | Value (THB) |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|")
	for _, w := range wallets {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			w.Name,
			Money(w.Quantity, string(w.Currency)),
			w.ExchangeRate.StringFixed(2),
			Money(w.Quantity.Mul(w.ExchangeRate), "THB"),
		)
	}
	fmt.Fprintln(b)
}

// MarketStatus renders the open state of each trading session.
func MarketStatus(st markethours.Status) string {
	var b strings.Builder
	state := "closed"
	if st.Open {
		state = "open"
	}
	fmt.Fprintf(&b, "# Markets are %s\n\n", state)
	fmt.Fprintf(&b, "Checked at %s\n\n", st.At.UTC().Format(time.RFC3339))

	names := make([]string, 0, len(st.Sessions))
	for name := range st.Sessions {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(&b, "| Market | Status |")
	fmt.Fprintln(&b, "|:---|:---:|")
	for _, name := range names {
		s := "closed"
		if st.Sessions[name] {
			s = "open"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", name, s)
	}
	return b.String()
}
