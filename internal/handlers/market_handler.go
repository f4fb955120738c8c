package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/services"
)

// MarketHandler exposes live market data.
type MarketHandler struct {
	market services.MarketServicer
	now    func() time.Time
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(market services.MarketServicer) *MarketHandler {
	return &MarketHandler{market: market, now: time.Now}
}

// NewsQuery represents the news listing query parameters.
type NewsQuery struct {
	Category string `form:"category" binding:"omitempty,news_category"`
	Page     int    `form:"page" binding:"omitempty,min=1,max=50"`
	Query    string `form:"q" binding:"max=100"`
}

// Refresh fetches quotes for every held symbol.
// @Summary     Refresh prices
// @Description Fetch live quotes for every investment and apply them
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RefreshResult "Refresh outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Market data unavailable"
// @Router      /market/refresh [post]
func (h *MarketHandler) Refresh(c *gin.Context) {
	result, err := h.market.RefreshPrices(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search looks up symbols by name or ticker.
// @Summary     Search symbols
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       q query string true "Search text"
// @Success     200 {object} map[string]interface{} "Matches"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Market data unavailable"
// @Router      /market/search [get]
func (h *MarketHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "q is required"))
		return
	}

	results, err := h.market.Search(c.Request.Context(), q)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Info returns descriptive metadata for a symbol.
// @Summary     Symbol info
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       symbol query string true "Ticker"
// @Success     200 {object} marketdata.SymbolInfo "Symbol info"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Symbol not found"
// @Failure     502 {object} ErrorResponse "Market data unavailable"
// @Router      /market/info [get]
func (h *MarketHandler) Info(c *gin.Context) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "symbol is required"))
		return
	}

	info, err := h.market.SymbolInfo(c.Request.Context(), symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Status reports whether the NYSE and SET are trading now.
// @Summary     Market status
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} markethours.Status "Session state"
// @Router      /market/status [get]
func (h *MarketHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.market.Status(h.now()))
}

// News lists headlines for a category.
// @Summary     Market news
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       category query string false "general, stock, crypto, forex or thai"
// @Param       page     query int    false "Page number (default 1)"
// @Param       q        query string false "Symbol or keyword filter"
// @Success     200 {object} map[string]interface{} "Headlines"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Market data unavailable"
// @Router      /news [get]
func (h *MarketHandler) News(c *gin.Context) {
	var q NewsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if q.Category == "" {
		q.Category = "general"
	}
	if q.Page == 0 {
		q.Page = 1
	}

	items, err := h.market.News(c.Request.Context(), q.Category, q.Page, strings.TrimSpace(q.Query))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": items, "category": q.Category, "page": q.Page})
}
