package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"thaifolio/internal/ledger"
	"thaifolio/internal/logger"
)

const (
	// DefaultQuoteTTL is how long a quote is served without asking the provider.
	DefaultQuoteTTL = 60 * time.Second

	// StaleTTL is how long a quote stays available as a fallback when the
	// provider is failing.
	StaleTTL = 24 * time.Hour

	// InfoTTL is how long symbol metadata is cached.
	InfoTTL = 7 * 24 * time.Hour

	// KeyPrefix is the prefix for quote cache keys.
	KeyPrefix = "price:"

	infoPrefix = "info:"
)

// cachedQuote is the Redis representation of a quote.
type cachedQuote struct {
	Symbol        string              `json:"symbol"`
	Price         decimal.Decimal     `json:"price"`
	PreviousClose decimal.NullDecimal `json:"previous_close"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (c cachedQuote) quote() ledger.Quote {
	return ledger.Quote{
		Price:         c.Price,
		PreviousClose: c.PreviousClose,
		Change:        c.Change,
		ChangePercent: c.ChangePercent,
	}
}

func quoteKey(symbol string) string { return fmt.Sprintf("%s%s:usd", KeyPrefix, symbol) }
func staleKey(symbol string) string { return fmt.Sprintf("%s%s:usd:stale", KeyPrefix, symbol) }

// CachedGateway serves quotes from Redis when fresh, asks the wrapped
// gateway for the rest, and falls back to stale quotes when it fails.
type CachedGateway struct {
	next   Gateway
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewCachedGateway wraps next with a Redis quote cache.
func NewCachedGateway(next Gateway, client *redis.Client, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &CachedGateway{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    logger.Component("quote_cache"),
	}
}

// NewRedisClient parses a redis:// URL and verifies the server responds.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// GetPrices returns cached quotes for symbols, fetching the misses.
func (g *CachedGateway) GetPrices(ctx context.Context, symbols []string) (map[string]ledger.Quote, error) {
	quotes := g.getMultiple(ctx, symbols, quoteKey)

	var missing []string
	for _, s := range symbols {
		if _, ok := quotes[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return quotes, nil
	}

	fetched, err := g.next.GetPrices(ctx, missing)
	if err != nil {
		stale := g.getMultiple(ctx, missing, staleKey)
		if len(stale) == 0 && len(quotes) == 0 {
			return nil, err
		}
		g.log.Warnw("Serving stale quotes", "missing", len(missing), "stale", len(stale), "error", err)
		for s, q := range stale {
			quotes[s] = q
		}
		return quotes, nil
	}

	g.store(ctx, fetched)
	for s, q := range fetched {
		quotes[s] = q
	}
	return quotes, nil
}

func (g *CachedGateway) getMultiple(ctx context.Context, symbols []string, key func(string) string) map[string]ledger.Quote {
	result := make(map[string]ledger.Quote)
	if len(symbols) == 0 {
		return result
	}

	pipe := g.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(symbols))
	for i, s := range symbols {
		cmds[i] = pipe.Get(ctx, key(s))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		g.log.Warnw("Quote cache read failed", "error", err)
		return result
	}

	for i, cmd := range cmds {
		val, err := cmd.Result()
		if err != nil {
			continue
		}
		var cached cachedQuote
		if err := json.Unmarshal([]byte(val), &cached); err != nil {
			continue
		}
		result[symbols[i]] = cached.quote()
	}
	return result
}

func (g *CachedGateway) store(ctx context.Context, quotes map[string]ledger.Quote) {
	if len(quotes) == 0 {
		return
	}
	now := time.Now().UTC()
	pipe := g.client.Pipeline()
	for s, q := range quotes {
		data, err := json.Marshal(cachedQuote{
			Symbol:        s,
			Price:         q.Price,
			PreviousClose: q.PreviousClose,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
			UpdatedAt:     now,
		})
		if err != nil {
			continue
		}
		pipe.Set(ctx, quoteKey(s), data, g.ttl)
		pipe.Set(ctx, staleKey(s), data, StaleTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		g.log.Warnw("Quote cache write failed", "error", err)
	}
}

// Search is not cached.
func (g *CachedGateway) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return g.next.Search(ctx, query)
}

// SymbolInfo caches metadata for InfoTTL.
func (g *CachedGateway) SymbolInfo(ctx context.Context, symbol string) (*SymbolInfo, error) {
	key := infoPrefix + symbol
	val, err := g.client.Get(ctx, key).Result()
	if err == nil {
		var info SymbolInfo
		if json.Unmarshal([]byte(val), &info) == nil {
			return &info, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		g.log.Warnw("Info cache read failed", "symbol", symbol, "error", err)
	}

	info, err := g.next.SymbolInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(info); err == nil {
		if err := g.client.Set(ctx, key, data, InfoTTL).Err(); err != nil {
			g.log.Warnw("Info cache write failed", "symbol", symbol, "error", err)
		}
	}
	return info, nil
}

// News is not cached.
func (g *CachedGateway) News(ctx context.Context, category string, page int, query string) ([]NewsItem, error) {
	return g.next.News(ctx, category, page, query)
}

// Clear removes every cached quote.
func (g *CachedGateway) Clear(ctx context.Context) error {
	iter := g.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()

	pipe := g.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= 100 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			pipe = g.client.Pipeline()
			count = 0
		}
	}
	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return iter.Err()
}
