package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"thaifolio/internal/analysis"
	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/ledger"
	"thaifolio/internal/logger"
)

// SettingAnalysisMode is the settings key of the last chosen strategy.
const SettingAnalysisMode = "analysis_mode"

// analysisService builds analysis requests from the portfolio.
type analysisService struct {
	analyzer  analysis.Analyzer
	portfolio PortfolioServicer
	store     Store
	log       *zap.SugaredLogger
}

// NewAnalysisService creates a new AnalysisServicer. store may be nil, in
// which case the chosen mode is not remembered.
func NewAnalysisService(analyzer analysis.Analyzer, portfolio PortfolioServicer, store Store) AnalysisServicer {
	return &analysisService{
		analyzer:  analyzer,
		portfolio: portfolio,
		store:     store,
		log:       logger.Component("analysis"),
	}
}

// Mode returns the remembered strategy, or the default.
func (s *analysisService) Mode(ctx context.Context) analysis.Mode {
	if s.store == nil {
		return analysis.DefaultMode
	}
	var saved string
	ok, err := s.store.GetSetting(ctx, SettingAnalysisMode, &saved)
	if err != nil || !ok {
		return analysis.DefaultMode
	}
	if m, ok := analysis.ParseMode(saved); ok {
		return m
	}
	return analysis.DefaultMode
}

// PortfolioItems converts investments into the analyst's view.
func PortfolioItems(assets []ledger.Asset) []analysis.PortfolioItem {
	invs := ledger.Investments(assets)
	items := make([]analysis.PortfolioItem, 0, len(invs))
	for _, a := range invs {
		item := analysis.PortfolioItem{
			Symbol:       a.Symbol,
			Name:         a.Name,
			Quantity:     a.Quantity,
			AvgPrice:     a.Price,
			CurrentPrice: a.MarketPrice(),
			Value:        a.MarketPrice().Mul(a.Quantity),
		}
		if a.Profile != nil {
			item.Sector = a.Profile.Sector
			item.Industry = a.Profile.Industry
		}
		items = append(items, item)
	}
	return items
}

// AnalyzePortfolio reviews the current investments. An empty mode uses the
// remembered one; a valid mode is remembered for next time.
func (s *analysisService) AnalyzePortfolio(ctx context.Context, mode string, language string) (string, error) {
	var m analysis.Mode
	if strings.TrimSpace(mode) == "" {
		m = s.Mode(ctx)
	} else {
		parsed, ok := analysis.ParseMode(mode)
		if !ok {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown analysis mode")
		}
		m = parsed
		if s.store != nil {
			if err := s.store.SaveSetting(ctx, SettingAnalysisMode, string(m)); err != nil {
				s.log.Warnw("Failed to save analysis mode", "error", err)
			}
		}
	}

	items := PortfolioItems(s.portfolio.Assets())
	if len(items) == 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolio has no investments to analyze")
	}

	out, err := s.analyzer.AnalyzePortfolio(ctx, analysis.PortfolioRequest{Portfolio: items, Mode: m, Language: language})
	return s.result(out, err, "portfolio")
}

// AnalyzeNews summarises a batch of headlines.
func (s *analysisService) AnalyzeNews(ctx context.Context, req analysis.NewsRequest) (string, error) {
	if len(req.News) == 0 {
		return "", apperrors.WithMessage(apperrors.ErrMissingRequiredField, "News items are required")
	}
	out, err := s.analyzer.AnalyzeNews(ctx, req)
	return s.result(out, err, "news")
}

// AnalyzeArticle explains one headline.
func (s *analysisService) AnalyzeArticle(ctx context.Context, req analysis.ArticleRequest) (string, error) {
	if strings.TrimSpace(req.Article.Title) == "" {
		return "", apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Article title is required")
	}
	out, err := s.analyzer.AnalyzeArticle(ctx, req)
	return s.result(out, err, "article")
}

// Chat answers a question.
func (s *analysisService) Chat(ctx context.Context, req analysis.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Message is required")
	}
	out, err := s.analyzer.Chat(ctx, req)
	return s.result(out, err, "chat")
}

func (s *analysisService) result(out string, err error, kind string) (string, error) {
	if err != nil {
		s.log.Warnw("Analysis failed", "kind", kind, "error", err)
		return "", apperrors.Wrap(apperrors.ErrAnalysisUnavailable, err)
	}
	return out, nil
}
