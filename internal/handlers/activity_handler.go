package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"thaifolio/internal/services"
)

// ActivityHandler serves the ledger activity log.
type ActivityHandler struct {
	activity services.ActivityServicer
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activity services.ActivityServicer) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List returns applied ledger operations, newest first.
// @Summary     Activity log
// @Tags        activity
// @Produce     json
// @Security    BearerAuth
// @Param       action    query string false "Filter by action"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ActivityLog] "Paginated activity"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.activity.List(c.Request.Context(), c.Query("action"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
