package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/marketdata"
	"thaifolio/internal/services"
)

func setupMarketRouter(handler *MarketHandler) *gin.Engine {
	r := gin.New()
	r.POST("/market/refresh", handler.Refresh)
	r.GET("/market/search", handler.Search)
	r.GET("/market/info", handler.Info)
	r.GET("/market/status", handler.Status)
	r.GET("/news", handler.News)
	return r
}

func TestMarketHandler_Refresh(t *testing.T) {
	t.Run("returns refresh result", func(t *testing.T) {
		svc := &mockMarketService{
			refreshFn: func() (*services.RefreshResult, error) {
				return &services.RefreshResult{Symbols: 2, Updated: 2}, nil
			},
		}
		r := setupMarketRouter(NewMarketHandler(svc))

		rec := doRequest(r, "POST", "/market/refresh", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["updated"].(float64) != 2 {
			t.Error("expected updated=2")
		}
	})

	t.Run("returns 502 when provider fails", func(t *testing.T) {
		svc := &mockMarketService{
			refreshFn: func() (*services.RefreshResult, error) {
				return nil, apperrors.Wrap(apperrors.ErrMarketDataUnavailable, errors.New("timeout"))
			},
		}
		r := setupMarketRouter(NewMarketHandler(svc))

		rec := doRequest(r, "POST", "/market/refresh", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MARKET_DATA_UNAVAILABLE")
	})
}

func TestMarketHandler_Search(t *testing.T) {
	var got string
	svc := &mockMarketService{
		searchFn: func(q string) ([]marketdata.SearchResult, error) {
			got = q
			return []marketdata.SearchResult{{Symbol: "PTT.BK", Name: "PTT PCL", Exchange: "SET"}}, nil
		},
	}
	r := setupMarketRouter(NewMarketHandler(svc))

	rec := doRequest(r, "GET", "/market/search?q=ptt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != "ptt" {
		t.Errorf("query = %q", got)
	}
	if len(parseJSON(t, rec)["results"].([]interface{})) != 1 {
		t.Error("expected one result")
	}

	rec = doRequest(r, "GET", "/market/search?q=%20", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank query, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "MISSING_REQUIRED_FIELD")
}

func TestMarketHandler_Info(t *testing.T) {
	svc := &mockMarketService{
		infoFn: func(symbol string) (*marketdata.SymbolInfo, error) {
			if symbol == "ZZZZ" {
				return nil, apperrors.ErrSymbolNotFound
			}
			return &marketdata.SymbolInfo{Symbol: symbol, Sector: "Technology"}, nil
		},
	}
	r := setupMarketRouter(NewMarketHandler(svc))

	rec := doRequest(r, "GET", "/market/info?symbol=AAPL", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["sector"] != "Technology" {
		t.Error("expected sector")
	}

	rec = doRequest(r, "GET", "/market/info?symbol=ZZZZ", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMarketHandler_Status(t *testing.T) {
	h := NewMarketHandler(&mockMarketService{open: true})
	h.now = func() time.Time { return time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC) }
	r := setupMarketRouter(h)

	rec := doRequest(r, "GET", "/market/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["open"] != true {
		t.Error("expected open=true")
	}
	if result["sessions"].(map[string]interface{})["NYSE"] != true {
		t.Error("expected NYSE open")
	}
}

func TestMarketHandler_News(t *testing.T) {
	var gotCategory, gotQuery string
	var gotPage int
	svc := &mockMarketService{
		newsFn: func(category string, page int, query string) ([]marketdata.NewsItem, error) {
			gotCategory, gotPage, gotQuery = category, page, query
			return []marketdata.NewsItem{{Title: "SET rallies", Publisher: "Bangkok Post"}}, nil
		},
	}
	r := setupMarketRouter(NewMarketHandler(svc))

	t.Run("applies defaults", func(t *testing.T) {
		rec := doRequest(r, "GET", "/news", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotCategory != "general" || gotPage != 1 || gotQuery != "" {
			t.Errorf("got category=%q page=%d q=%q", gotCategory, gotPage, gotQuery)
		}
	})

	t.Run("passes filters", func(t *testing.T) {
		rec := doRequest(r, "GET", "/news?category=thai&page=2&q=PTT", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotCategory != "thai" || gotPage != 2 || gotQuery != "PTT" {
			t.Errorf("got category=%q page=%d q=%q", gotCategory, gotPage, gotQuery)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		rec := doRequest(r, "GET", "/news?category=sports", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
