package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"thaifolio/internal/ledger"
)

// Client communicates with the pricing/news backend over HTTP. Outbound
// requests are throttled by a token bucket so a burst of refreshes cannot
// overrun the provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a backend client. A nil httpClient gets one with timeout.
// A non-positive perSecond disables throttling.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, perSecond float64, burst int) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// priceEntry is the object form of a quote. Older backends answer with a
// bare number instead.
type priceEntry struct {
	Price         decimal.NullDecimal `json:"price"`
	PreviousClose decimal.NullDecimal `json:"previousClose"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"changePercent"`
}

func decodeQuote(raw json.RawMessage) (ledger.Quote, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var e priceEntry
		if err := json.Unmarshal(raw, &e); err != nil || !e.Price.Valid || !e.Price.Decimal.IsPositive() {
			return ledger.Quote{}, false
		}
		q := ledger.Quote{
			Price:         e.Price.Decimal,
			PreviousClose: e.PreviousClose,
			Change:        e.Change,
			ChangePercent: e.ChangePercent,
		}
		if !q.Change.Valid && q.PreviousClose.Valid {
			q.Change = decimal.NewNullDecimal(q.Price.Sub(q.PreviousClose.Decimal))
		}
		if !q.ChangePercent.Valid && q.Change.Valid && q.PreviousClose.Valid && !q.PreviousClose.Decimal.IsZero() {
			q.ChangePercent = decimal.NewNullDecimal(q.Change.Decimal.Div(q.PreviousClose.Decimal).Mul(decimal.NewFromInt(100)))
		}
		return q, true
	}

	var price decimal.NullDecimal
	if err := json.Unmarshal(raw, &price); err != nil || !price.Valid || !price.Decimal.IsPositive() {
		return ledger.Quote{}, false
	}
	return ledger.Quote{Price: price.Decimal}, true
}

// GetPrices fetches quotes for the given provider symbols. Symbols the
// provider could not price (missing, null or zero) are left out.
func (c *Client) GetPrices(ctx context.Context, symbols []string) (map[string]ledger.Quote, error) {
	quotes := make(map[string]ledger.Quote)
	if len(symbols) == 0 {
		return quotes, nil
	}

	var raw map[string]json.RawMessage
	if err := c.getJSON(ctx, "/prices", url.Values{"symbols": {strings.Join(symbols, ",")}}, &raw); err != nil {
		return nil, err
	}
	for symbol, entry := range raw {
		if q, ok := decodeQuote(entry); ok {
			quotes[strings.ToUpper(symbol)] = q
		}
	}
	return quotes, nil
}

// Search returns symbols matching query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var raw []struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		Exchange string `json:"exchDisp"`
		Currency string `json:"currency"`
	}
	if err := c.getJSON(ctx, "/search", url.Values{"q": {query}}, &raw); err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(raw))
	for _, r := range raw {
		results = append(results, SearchResult{
			Symbol:   r.Symbol,
			Name:     r.Name,
			Exchange: r.Exchange,
			Type:     r.Type,
			Currency: r.Currency,
		})
	}
	return results, nil
}

// SymbolInfo returns sector and industry metadata for symbol.
func (c *Client) SymbolInfo(ctx context.Context, symbol string) (*SymbolInfo, error) {
	var info SymbolInfo
	if err := c.getJSON(ctx, "/info", url.Values{"symbol": {symbol}}, &info); err != nil {
		return nil, err
	}
	if info.Symbol == "" {
		info.Symbol = symbol
	}
	return &info, nil
}

// News returns one page of headlines for category, optionally filtered.
func (c *Client) News(ctx context.Context, category string, page int, query string) ([]NewsItem, error) {
	q := url.Values{"category": {category}, "page": {strconv.Itoa(page)}}
	if query != "" {
		q.Set("symbol", query)
	}
	var items []NewsItem
	if err := c.getJSON(ctx, "/news", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}
