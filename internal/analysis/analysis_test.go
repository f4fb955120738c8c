package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"thaifolio/internal/marketdata"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no_think", "## Summary", "## Summary"},
		{"think_block", "<think>\nplanning...\n</think>\n\n## Summary", "## Summary"},
		{"two_blocks", "<think>a</think>A<think>b</think>B", "AB"},
		{"whitespace", "  text \n", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestToHTML(t *testing.T) {
	html, err := ToHTML("# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<table>")
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("The Growth Portfolio")
	assert.True(t, ok)
	assert.Equal(t, ModeGrowth, m)

	_, ok = ParseMode("YOLO")
	assert.False(t, ok)

	assert.Len(t, Modes(), 5)
	assert.Equal(t, ModeBalanced.Strategy(), Mode("YOLO").Strategy())
}

func TestPortfolioPrompt(t *testing.T) {
	p := portfolioPrompt(PortfolioRequest{
		Portfolio: []PortfolioItem{{
			Symbol: "AAPL", Name: "Apple", Quantity: decimal.NewFromInt(10),
			CurrentPrice: decimal.NewFromInt(200), Value: decimal.NewFromInt(2000),
		}},
		Mode:     "unknown",
		Language: "th",
	})
	assert.Contains(t, p, "Total Value: $2000.00")
	assert.Contains(t, p, "'The Balanced' strategy")
	assert.Contains(t, p, "Sector: Unknown")
	assert.Contains(t, p, `"th"`)
}

func TestBackendAnalyzer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/analyze":
			assert.Equal(t, "The Balanced", body["mode"])
			_, _ = w.Write([]byte(`{"analysis":"<think>x</think>portfolio ok"}`))
		case "/news/analyze":
			_, _ = w.Write([]byte(`{"analysis":"news ok"}`))
		case "/news/analyze/article":
			_, _ = w.Write([]byte(`{"analysis":"article ok"}`))
		case "/chat":
			assert.Equal(t, "hello", body["message"])
			_, _ = w.Write([]byte(`{"response":"hi there"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewBackendAnalyzer(srv.URL, srv.Client())
	ctx := context.Background()

	out, err := a.AnalyzePortfolio(ctx, PortfolioRequest{})
	require.NoError(t, err)
	assert.Equal(t, "portfolio ok", out)

	out, err = a.AnalyzeNews(ctx, NewsRequest{News: []marketdata.NewsItem{{Title: "t"}}})
	require.NoError(t, err)
	assert.Equal(t, "news ok", out)

	out, err = a.AnalyzeArticle(ctx, ArticleRequest{Article: marketdata.NewsItem{Title: "t"}})
	require.NoError(t, err)
	assert.Equal(t, "article ok", out)

	out, err = a.Chat(ctx, ChatRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestBackendAnalyzer_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewBackendAnalyzer(srv.URL, srv.Client()).AnalyzeNews(context.Background(), NewsRequest{})
	assert.ErrorContains(t, err, "unexpected status 502")
}

type fakeChat struct {
	reply    string
	err      error
	prompts  []string
	history  []*genai.Content
	instruct string
}

func (f *fakeChat) Send(_ context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range parts {
		f.prompts = append(f.prompts, p.Text)
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: f.reply}}},
	}}}, nil
}

func fakeGemini(chat *fakeChat) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		model: "test-model",
		start: func(_ context.Context, instruction string, history []*genai.Content) (chatSession, error) {
			chat.instruct = instruction
			chat.history = history
			return chat, nil
		},
	}
}

func TestGeminiAnalyzer_Portfolio(t *testing.T) {
	chat := &fakeChat{reply: "<think>hmm</think>Looks diversified"}
	g := fakeGemini(chat)

	out, err := g.AnalyzePortfolio(context.Background(), PortfolioRequest{Mode: ModeDefensive})
	require.NoError(t, err)
	assert.Equal(t, "Looks diversified", out)
	require.Len(t, chat.prompts, 1)
	assert.True(t, strings.Contains(chat.prompts[0], "The Defensive"))
	assert.Equal(t, advisorInstruction, chat.instruct)
}

func TestGeminiAnalyzer_ChatHistoryRoles(t *testing.T) {
	chat := &fakeChat{reply: "answer"}
	g := fakeGemini(chat)

	_, err := g.Chat(context.Background(), ChatRequest{
		Message: "and now?",
		History: []ChatMessage{{Role: "user", Content: "q"}, {Role: "assistant", Content: "a"}},
	})
	require.NoError(t, err)
	require.Len(t, chat.history, 2)
	assert.Equal(t, "user", chat.history[0].Role)
	assert.Equal(t, "model", chat.history[1].Role)
	assert.Equal(t, []string{"and now?"}, chat.prompts)
}

func TestGeminiAnalyzer_Errors(t *testing.T) {
	_, err := fakeGemini(&fakeChat{err: errors.New("quota")}).AnalyzeNews(context.Background(), NewsRequest{})
	assert.ErrorContains(t, err, "quota")

	_, err = fakeGemini(&fakeChat{}).AnalyzeArticle(context.Background(), ArticleRequest{})
	require.NoError(t, err)
}
