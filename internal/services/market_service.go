package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/ledger"
	"thaifolio/internal/logger"
	"thaifolio/internal/markethours"
	"thaifolio/internal/marketdata"
)

// marketService applies live market data to the portfolio.
type marketService struct {
	gateway   marketdata.Gateway
	portfolio PortfolioServicer
	log       *zap.SugaredLogger
}

// NewMarketService creates a new MarketServicer.
func NewMarketService(gateway marketdata.Gateway, portfolio PortfolioServicer) MarketServicer {
	return &marketService{
		gateway:   gateway,
		portfolio: portfolio,
		log:       logger.Component("market"),
	}
}

// RefreshPrices fetches quotes for every held symbol and applies them to the
// list as it is when the quotes arrive.
func (s *marketService) RefreshPrices(ctx context.Context) (*RefreshResult, error) {
	start := time.Now()
	symbols := ledger.Symbols(ledger.Investments(s.portfolio.Assets()))
	result := &RefreshResult{Symbols: len(symbols)}
	if len(symbols) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	providerSymbols, back := marketdata.ProviderSymbols(symbols)
	quotes, err := s.gateway.GetPrices(ctx, providerSymbols)
	if err != nil {
		s.log.Warnw("Price refresh failed", "symbols", len(symbols), "error", err)
		return nil, apperrors.Wrap(apperrors.ErrMarketDataUnavailable, err)
	}

	bySymbol := make(map[string]ledger.Quote, len(quotes))
	for provider, q := range quotes {
		for _, symbol := range back[provider] {
			bySymbol[symbol] = q
		}
	}

	result.Updated = s.portfolio.ApplyQuotes(bySymbol)
	result.Duration = time.Since(start)
	s.log.Infow("Prices refreshed", "symbols", result.Symbols, "updated", result.Updated, "duration", result.Duration)
	return result, nil
}

// Search returns symbols matching query.
func (s *marketService) Search(ctx context.Context, query string) ([]marketdata.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []marketdata.SearchResult{}, nil
	}
	results, err := s.gateway.Search(ctx, query)
	if err != nil {
		s.log.Warnw("Symbol search failed", "query", query, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrMarketDataUnavailable, err)
	}
	return results, nil
}

// SymbolInfo returns metadata for symbol.
func (s *marketService) SymbolInfo(ctx context.Context, symbol string) (*marketdata.SymbolInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Symbol is required")
	}
	info, err := s.gateway.SymbolInfo(ctx, marketdata.ProviderSymbol(symbol))
	if err != nil {
		s.log.Warnw("Symbol info failed", "symbol", symbol, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrMarketDataUnavailable, err)
	}
	return info, nil
}

// EnrichProfile looks up sector and industry for a held symbol. Failures
// are only logged.
func (s *marketService) EnrichProfile(ctx context.Context, symbol string) {
	info, err := s.SymbolInfo(ctx, symbol)
	if err != nil {
		return
	}
	if info.Sector == "" && info.Industry == "" {
		return
	}
	s.portfolio.SetProfile(strings.ToUpper(strings.TrimSpace(symbol)), info.Profile())
}

// News returns a page of headlines.
func (s *marketService) News(ctx context.Context, category string, page int, query string) ([]marketdata.NewsItem, error) {
	if category == "" {
		category = "general"
	}
	if page < 0 {
		page = 0
	}
	items, err := s.gateway.News(ctx, category, page, strings.TrimSpace(query))
	if err != nil {
		s.log.Warnw("News fetch failed", "category", category, "page", page, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrMarketDataUnavailable, err)
	}
	if items == nil {
		items = []marketdata.NewsItem{}
	}
	return items, nil
}

// Status reports which exchanges are open at the given time.
func (s *marketService) Status(at time.Time) markethours.Status {
	return markethours.Check(at)
}
