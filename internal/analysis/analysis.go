// Package analysis produces AI-written commentary on the portfolio, market
// news and free-form questions.
package analysis

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"thaifolio/internal/marketdata"
)

// Mode is an investment strategy the portfolio is judged against.
type Mode string

const (
	ModeDefensive        Mode = "The Defensive"
	ModeIncome           Mode = "The Income Portfolio"
	ModeBalanced         Mode = "The Balanced"
	ModeGrowth           Mode = "The Growth Portfolio"
	ModeAggressiveGrowth Mode = "The Aggressive Growth Portfolio"

	DefaultMode = ModeBalanced
)

var strategies = map[Mode]string{
	ModeDefensive:        "Prioritize capital preservation and low volatility. Criticize high-risk speculative assets. Favor blue chips, bonds, and consumer staples.",
	ModeIncome:           "Focus on maximizing stable cash flow via dividends and REITs. Criticize low-yield growth stocks.",
	ModeBalanced:         "Seek a mix of growth and stability. Ensure moderate risk exposure with decent potential returns.",
	ModeGrowth:           "Prioritize capital appreciation. Tolerate higher volatility for higher returns. Favor tech and expanding sectors.",
	ModeAggressiveGrowth: "Maximize potential returns with high risk tolerance. Look for moonshots and high-beta assets. Criticize overly safe/low-return allocations.",
}

// Modes lists every strategy in increasing order of risk.
func Modes() []Mode {
	return []Mode{ModeDefensive, ModeIncome, ModeBalanced, ModeGrowth, ModeAggressiveGrowth}
}

// ParseMode reports whether s names a known strategy.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	_, ok := strategies[m]
	return m, ok
}

// Strategy returns the instruction for m, falling back to the default mode.
func (m Mode) Strategy() string {
	if s, ok := strategies[m]; ok {
		return s
	}
	return strategies[DefaultMode]
}

// PortfolioItem is one investment as presented to the analyst.
type PortfolioItem struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgPrice     decimal.Decimal `json:"avgPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Value        decimal.Decimal `json:"value"`
	Sector       string          `json:"sector"`
	Industry     string          `json:"industry"`
}

// PortfolioRequest asks for a strategy review of the holdings.
type PortfolioRequest struct {
	Portfolio []PortfolioItem `json:"portfolio"`
	Mode      Mode            `json:"mode"`
	Language  string          `json:"language"`
}

// NewsRequest asks for a market summary of several headlines.
type NewsRequest struct {
	News     []marketdata.NewsItem `json:"news"`
	Language string                `json:"language"`
}

// ArticleRequest asks for a deep read of one headline.
type ArticleRequest struct {
	Article  marketdata.NewsItem `json:"article"`
	Language string              `json:"language"`
}

// ChatMessage is one prior turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is a user message with the conversation so far.
type ChatRequest struct {
	Message  string        `json:"message"`
	History  []ChatMessage `json:"history"`
	Language string        `json:"language"`
}

// Analyzer produces markdown analysis text.
type Analyzer interface {
	AnalyzePortfolio(ctx context.Context, req PortfolioRequest) (string, error)
	AnalyzeNews(ctx context.Context, req NewsRequest) (string, error)
	AnalyzeArticle(ctx context.Context, req ArticleRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Clean strips model reasoning blocks and surrounding whitespace.
func Clean(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToHTML renders GitHub-flavoured markdown as HTML.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
