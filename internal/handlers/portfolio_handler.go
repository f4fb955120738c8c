package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/report"
	"thaifolio/internal/services"
)

const maxImportBytes = 10 << 20

// PortfolioHandler handles whole-portfolio operations.
type PortfolioHandler struct {
	portfolio services.PortfolioServicer
	now       func() time.Time
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolio services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, now: time.Now}
}

// Export downloads the asset list as a JSON document.
// @Summary     Export portfolio
// @Description Download every asset as the JSON array accepted by import
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  object "Asset list"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/export [get]
func (h *PortfolioHandler) Export(c *gin.Context) {
	data, err := h.portfolio.Export()
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("thaifolio-%s.json", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// Import replaces the portfolio with an exported document.
// @Summary     Import portfolio
// @Description Replace every asset with the posted JSON array; duplicates are consolidated
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     []object true "Asset list"
// @Success     200     {object} map[string]interface{} "Imported assets"
// @Failure     400     {object} ErrorResponse "Invalid format"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/import [post]
func (h *PortfolioHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	payload, err := c.GetRawData()
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidFormat, "Could not read request body"))
		return
	}

	result, err := h.portfolio.Import(c.Request.Context(), actor(c), payload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": result.Records, "merged": result.Assets, "assets": h.portfolio.Assets()})
}

// Consolidate merges duplicate investments by symbol.
// @Summary     Consolidate portfolio
// @Description Merge investments sharing a symbol into one weighted-average position
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Rows removed and resulting assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/consolidate [post]
func (h *PortfolioHandler) Consolidate(c *gin.Context) {
	removed, err := h.portfolio.Consolidate(c.Request.Context(), actor(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed, "assets": h.portfolio.Assets()})
}

// Summary returns the valuation breakdown, stats and holdings.
// @Summary     Portfolio summary
// @Description Totals in THB, P&L per holding and allocation by type; format=markdown renders a report
// @Tags        portfolio
// @Produce     json
// @Produce     plain
// @Security    BearerAuth
// @Param       format query string false "json (default) or markdown"
// @Success     200 {object} valuation.Report "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) Summary(c *gin.Context) {
	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, h.portfolio.Summary())
	case "markdown":
		md := report.Summary(h.portfolio.Assets(), h.now())
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "format must be json or markdown"))
	}
}
