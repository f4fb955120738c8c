package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"thaifolio/internal/handlers"
	"thaifolio/internal/marketdata"
	"thaifolio/internal/markethours"
	"thaifolio/internal/middleware"
	"thaifolio/internal/services"
)

// closedMarket reports both exchanges shut and counts refreshes.
type closedMarket struct {
	refreshed int
}

func (m *closedMarket) RefreshPrices(context.Context) (*services.RefreshResult, error) {
	m.refreshed++
	return &services.RefreshResult{Symbols: 2, Updated: 2}, nil
}

func (m *closedMarket) Search(context.Context, string) ([]marketdata.SearchResult, error) {
	return nil, nil
}

func (m *closedMarket) SymbolInfo(_ context.Context, symbol string) (*marketdata.SymbolInfo, error) {
	return &marketdata.SymbolInfo{Symbol: symbol}, nil
}

func (m *closedMarket) EnrichProfile(context.Context, string) {}

func (m *closedMarket) News(context.Context, string, int, string) ([]marketdata.NewsItem, error) {
	return nil, nil
}

func (m *closedMarket) Status(at time.Time) markethours.Status {
	return markethours.Status{At: at, Sessions: map[string]bool{"NYSE": false, "SET": false}}
}

func pipelineRouter(apiKey string, market services.MarketServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pipeline := r.Group("/pipeline", middleware.PipelineAuthMiddleware(apiKey))
	pipeline.POST("/refresh", handlers.NewPipelineHandler(market).Refresh)
	return r
}

func TestPipelineRefresh_KeyAndForce(t *testing.T) {
	tests := []struct {
		name          string
		configuredKey string
		requestKey    string
		path          string
		wantStatus    int
		wantErrorCode string
		wantRefreshed int
		wantSkipped   bool
	}{
		{
			name:          "closed_markets_skip",
			configuredKey: "refresh-key-7f3a",
			requestKey:    "refresh-key-7f3a",
			path:          "/pipeline/refresh",
			wantStatus:    http.StatusOK,
			wantSkipped:   true,
		},
		{
			name:          "force_refreshes_while_closed",
			configuredKey: "refresh-key-7f3a",
			requestKey:    "refresh-key-7f3a",
			path:          "/pipeline/refresh?force=true",
			wantStatus:    http.StatusOK,
			wantRefreshed: 1,
		},
		{
			name:          "unparseable_force_is_false",
			configuredKey: "refresh-key-7f3a",
			requestKey:    "refresh-key-7f3a",
			path:          "/pipeline/refresh?force=please",
			wantStatus:    http.StatusOK,
			wantSkipped:   true,
		},
		{
			name:          "force_does_not_bypass_key",
			configuredKey: "refresh-key-7f3a",
			requestKey:    "refresh-key",
			path:          "/pipeline/refresh?force=true",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_API_KEY",
		},
		{
			name:          "missing_key",
			configuredKey: "refresh-key-7f3a",
			path:          "/pipeline/refresh?force=true",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_API_KEY",
		},
		{
			name:          "pipeline_disabled",
			configuredKey: "",
			requestKey:    "any-key",
			path:          "/pipeline/refresh?force=true",
			wantStatus:    http.StatusServiceUnavailable,
			wantErrorCode: "PIPELINE_NOT_CONFIGURED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market := &closedMarket{}
			req := httptest.NewRequest(http.MethodPost, tt.path, http.NoBody)
			if tt.requestKey != "" {
				req.Header.Set(middleware.APIKeyHeader, tt.requestKey)
			}
			rec := httptest.NewRecorder()
			pipelineRouter(tt.configuredKey, market).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if market.refreshed != tt.wantRefreshed {
				t.Errorf("refreshed %d times, want %d", market.refreshed, tt.wantRefreshed)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse response body: %v", err)
			}
			if tt.wantErrorCode != "" {
				errObj, _ := body["error"].(map[string]interface{})
				if code, _ := errObj["code"].(string); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
				return
			}
			if skipped, _ := body["skipped"].(bool); skipped != tt.wantSkipped {
				t.Errorf("skipped = %v, want %v", skipped, tt.wantSkipped)
			}
		})
	}
}
