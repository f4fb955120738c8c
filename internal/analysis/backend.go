package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BackendAnalyzer delegates to the pricing/news backend's AI endpoints.
type BackendAnalyzer struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendAnalyzer creates an analyzer for the backend at baseURL. AI calls
// are slow, so the default client allows a generous timeout.
func NewBackendAnalyzer(baseURL string, httpClient *http.Client) *BackendAnalyzer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &BackendAnalyzer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (a *BackendAnalyzer) post(ctx context.Context, path string, body interface{}, dst interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calling %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

type analysisResponse struct {
	Analysis string `json:"analysis"`
}

func (a *BackendAnalyzer) analyze(ctx context.Context, path string, body interface{}) (string, error) {
	var resp analysisResponse
	if err := a.post(ctx, path, body, &resp); err != nil {
		return "", err
	}
	return Clean(resp.Analysis), nil
}

// AnalyzePortfolio calls /analyze.
func (a *BackendAnalyzer) AnalyzePortfolio(ctx context.Context, req PortfolioRequest) (string, error) {
	if req.Mode == "" {
		req.Mode = DefaultMode
	}
	return a.analyze(ctx, "/analyze", req)
}

// AnalyzeNews calls /news/analyze.
func (a *BackendAnalyzer) AnalyzeNews(ctx context.Context, req NewsRequest) (string, error) {
	return a.analyze(ctx, "/news/analyze", req)
}

// AnalyzeArticle calls /news/analyze/article.
func (a *BackendAnalyzer) AnalyzeArticle(ctx context.Context, req ArticleRequest) (string, error) {
	return a.analyze(ctx, "/news/analyze/article", req)
}

// Chat calls /chat.
func (a *BackendAnalyzer) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	if err := a.post(ctx, "/chat", req, &resp); err != nil {
		return "", err
	}
	return Clean(resp.Response), nil
}
