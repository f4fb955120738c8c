package analysis

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

type chatSession interface {
	Send(ctx context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer writes analysis with Google's Gemini models.
type GeminiAnalyzer struct {
	model string
	start func(ctx context.Context, instruction string, history []*genai.Content) (chatSession, error)
}

// NewGeminiAnalyzer creates a Gemini client. An empty apiKey falls back to
// the GEMINI_API_KEY / GOOGLE_API_KEY environment handled by the SDK.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	var cfg *genai.ClientConfig
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	g := &GeminiAnalyzer{model: model}
	g.start = func(ctx context.Context, instruction string, history []*genai.Content) (chatSession, error) {
		config := &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		}
		return client.Chats.Create(ctx, g.model, config, history)
	}
	return g, nil
}

func (g *GeminiAnalyzer) ask(ctx context.Context, instruction string, history []*genai.Content, prompt string) (string, error) {
	chat, err := g.start(ctx, instruction, history)
	if err != nil {
		return "", fmt.Errorf("starting chat: %w", err)
	}
	resp, err := chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("sending prompt: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from %s", g.model)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return Clean(b.String()), nil
}

// AnalyzePortfolio reviews holdings against the requested strategy.
func (g *GeminiAnalyzer) AnalyzePortfolio(ctx context.Context, req PortfolioRequest) (string, error) {
	return g.ask(ctx, advisorInstruction, nil, portfolioPrompt(req))
}

// AnalyzeNews summarises a batch of headlines.
func (g *GeminiAnalyzer) AnalyzeNews(ctx context.Context, req NewsRequest) (string, error) {
	return g.ask(ctx, newsInstruction, nil, newsPrompt(req))
}

// AnalyzeArticle explains one headline.
func (g *GeminiAnalyzer) AnalyzeArticle(ctx context.Context, req ArticleRequest) (string, error) {
	return g.ask(ctx, newsInstruction, nil, articlePrompt(req))
}

// Chat answers req.Message in the context of req.History.
func (g *GeminiAnalyzer) Chat(ctx context.Context, req ChatRequest) (string, error) {
	history := make([]*genai.Content, 0, len(req.History))
	for _, m := range req.History {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	return g.ask(ctx, chatInstruction+languageLine(req.Language), history, req.Message)
}
