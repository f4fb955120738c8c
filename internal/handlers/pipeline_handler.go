package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"thaifolio/internal/services"
)

// PipelineHandler serves endpoints driven by external schedulers.
type PipelineHandler struct {
	market services.MarketServicer
	now    func() time.Time
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(market services.MarketServicer) *PipelineHandler {
	return &PipelineHandler{market: market, now: time.Now}
}

// Refresh refreshes prices while a market is open, or always with force=true.
// @Summary     Scheduled price refresh
// @Description Refresh prices for an external cron (pipeline endpoint)
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header   string false "Pipeline API key"
// @Param       force     query    bool   false "Refresh even when markets are closed"
// @Success     200       {object} services.RefreshResult "Refresh outcome"
// @Failure     401       {object} ErrorResponse "Invalid API key"
// @Failure     502       {object} ErrorResponse "Market data unavailable"
// @Failure     503       {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/refresh [post]
func (h *PipelineHandler) Refresh(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("force"))
	if !force && !h.market.Status(h.now()).Open {
		c.JSON(http.StatusOK, services.RefreshResult{Skipped: true})
		return
	}

	result, err := h.market.RefreshPrices(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
