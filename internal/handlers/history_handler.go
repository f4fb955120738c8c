package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"thaifolio/internal/services"
)

// HistoryHandler serves valuation history.
type HistoryHandler struct {
	history services.HistoryServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history services.HistoryServicer) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns real-time valuation points, newest first.
// @Summary     Valuation history
// @Tags        history
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ValuationPoint] "Paginated valuation points"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.history.List(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Daily returns one valuation per day, oldest first.
// @Summary     Daily valuation history
// @Tags        history
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Daily valuations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /history/daily [get]
func (h *HistoryHandler) Daily(c *gin.Context) {
	points, err := h.history.Daily(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}
