// Package marketdata talks to the external pricing and news service and
// caches its quotes in Redis.
package marketdata

import (
	"context"
	"strings"

	"thaifolio/internal/ledger"
)

// SearchResult is one symbol match.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
	Currency string `json:"currency,omitempty"`
}

// SymbolInfo is descriptive metadata for one symbol.
type SymbolInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// Profile converts the info into ledger metadata.
func (i SymbolInfo) Profile() ledger.Profile {
	return ledger.Profile{Sector: i.Sector, Industry: i.Industry}
}

// NewsItem is a single headline.
type NewsItem struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Link        string `json:"link,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// News categories accepted by the backend.
var NewsCategories = []string{"general", "stock", "crypto", "forex", "thai"}

// Gateway is the market data capability the application depends on.
// Any call may fail; callers treat failure as "no update".
type Gateway interface {
	GetPrices(ctx context.Context, symbols []string) (map[string]ledger.Quote, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	SymbolInfo(ctx context.Context, symbol string) (*SymbolInfo, error)
	News(ctx context.Context, category string, page int, query string) ([]NewsItem, error)
}

// aliases maps bare crypto tickers to the provider's USD pair symbols.
var aliases = map[string]string{
	"BTC":  "BTC-USD",
	"ETH":  "ETH-USD",
	"SOL":  "SOL-USD",
	"BNB":  "BNB-USD",
	"USDT": "USDT-USD",
}

// ProviderSymbol returns the symbol the provider quotes for a ledger symbol.
func ProviderSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if alias, ok := aliases[s]; ok {
		return alias
	}
	return s
}

// ProviderSymbols maps ledger symbols to distinct provider symbols. The
// returned map translates each provider symbol back to the ledger symbols
// that requested it.
func ProviderSymbols(symbols []string) ([]string, map[string][]string) {
	back := make(map[string][]string, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		p := ProviderSymbol(s)
		if _, seen := back[p]; !seen {
			out = append(out, p)
		}
		back[p] = append(back[p], s)
	}
	return out, back
}
