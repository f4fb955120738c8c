// Package ledger implements the portfolio ledger engine: a set of pure
// transition functions over a list of cash wallets and investment positions.
// No function in this package mutates its input; each returns a new list.
package ledger

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Category determines which operations apply to an asset.
type Category string

const (
	CategoryWallet     Category = "Wallet"
	CategoryInvestment Category = "Investment"
)

// Currency is the denomination of an asset.
type Currency string

const (
	THB Currency = "THB"
	USD Currency = "USD"
)

// Opposite returns the other supported currency.
func (c Currency) Opposite() Currency {
	if c == THB {
		return USD
	}
	return THB
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool { return c == THB || c == USD }

// Quote is the last fetched live market data for an investment.
type Quote struct {
	Price         decimal.Decimal
	PreviousClose decimal.NullDecimal
	Change        decimal.NullDecimal
	ChangePercent decimal.NullDecimal
}

// Profile is descriptive metadata for an investment.
type Profile struct {
	Sector   string
	Industry string
}

// Asset is a single ledger record. Wallets never carry Market or Profile;
// those parts are only set on investments.
type Asset struct {
	ID       int64
	Name     string
	Symbol   string
	Category Category
	Currency Currency
	Type     string

	Quantity decimal.Decimal
	// Price is the weighted-average USD cost per unit for investments, 1 for wallets.
	Price decimal.Decimal
	// ExchangeRate is the THB-per-USD acquisition rate of the cost basis.
	ExchangeRate decimal.Decimal

	Market  *Quote
	Profile *Profile

	// Extra holds fields seen on import that the ledger does not interpret,
	// including known fields whose values could not be decoded.
	Extra map[string]json.RawMessage
}

// IsWallet reports whether the asset is a cash wallet.
func (a Asset) IsWallet() bool { return a.Category == CategoryWallet }

// IsInvestment reports whether the asset is an investment position.
func (a Asset) IsInvestment() bool { return a.Category == CategoryInvestment }

// CostBasis returns quantity * price.
func (a Asset) CostBasis() decimal.Decimal { return a.Quantity.Mul(a.Price) }

// MarketPrice returns the live price when one is known and positive, else the cost price.
func (a Asset) MarketPrice() decimal.Decimal {
	if a.Market != nil && a.Market.Price.IsPositive() {
		return a.Market.Price
	}
	return a.Price
}

// Clone returns a deep copy of the asset.
func (a Asset) Clone() Asset {
	c := a
	if a.Market != nil {
		m := *a.Market
		c.Market = &m
	}
	if a.Profile != nil {
		p := *a.Profile
		c.Profile = &p
	}
	if a.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(a.Extra))
		for k, v := range a.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// Equal reports whether two assets hold the same values. Decimals are
// compared numerically, so 1.50 equals 1.5.
func (a Asset) Equal(b Asset) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Symbol != b.Symbol ||
		a.Category != b.Category || a.Currency != b.Currency || a.Type != b.Type {
		return false
	}
	if !a.Quantity.Equal(b.Quantity) || !a.Price.Equal(b.Price) || !a.ExchangeRate.Equal(b.ExchangeRate) {
		return false
	}
	if !quoteEqual(a.Market, b.Market) {
		return false
	}
	if (a.Profile == nil) != (b.Profile == nil) {
		return false
	}
	if a.Profile != nil && *a.Profile != *b.Profile {
		return false
	}
	if len(a.Extra) != len(b.Extra) {
		return false
	}
	for k, v := range a.Extra {
		w, ok := b.Extra[k]
		if !ok || !bytes.Equal(compact(v), compact(w)) {
			return false
		}
	}
	return true
}

func quoteEqual(a, b *Quote) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Price.Equal(b.Price) &&
		nullEqual(a.PreviousClose, b.PreviousClose) &&
		nullEqual(a.Change, b.Change) &&
		nullEqual(a.ChangePercent, b.ChangePercent)
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// EqualLists reports whether two lists hold equal assets in the same order.
func EqualLists(a, b []Asset) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the list.
func Clone(assets []Asset) []Asset {
	out := make([]Asset, len(assets))
	for i, a := range assets {
		out[i] = a.Clone()
	}
	return out
}

// Find returns the index of the asset with the given id, or -1.
func Find(assets []Asset, id int64) int {
	for i := range assets {
		if assets[i].ID == id {
			return i
		}
	}
	return -1
}

// Investments returns the investment subset in list order.
func Investments(assets []Asset) []Asset {
	return filter(assets, func(a Asset) bool { return a.IsInvestment() })
}

// Wallets returns the wallets of the given currency in list order.
func Wallets(assets []Asset, cur Currency) []Asset {
	return filter(assets, func(a Asset) bool { return a.IsWallet() && a.Currency == cur })
}

// Symbols returns the distinct investment symbols in list order.
func Symbols(assets []Asset) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range assets {
		if a.IsInvestment() && a.Symbol != "" && !seen[a.Symbol] {
			seen[a.Symbol] = true
			out = append(out, a.Symbol)
		}
	}
	return out
}

func filter(assets []Asset, keep func(Asset) bool) []Asset {
	var out []Asset
	for _, a := range assets {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
