package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"thaifolio/internal/analysis"
	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/services"
)

// AnalysisHandler handles AI analysis requests.
type AnalysisHandler struct {
	analysis services.AnalysisServicer
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysis services.AnalysisServicer) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// PortfolioAnalysisRequest represents the request payload for a portfolio review.
type PortfolioAnalysisRequest struct {
	Mode     string `json:"mode" binding:"omitempty,analysis_mode"`
	Language string `json:"language" binding:"max=20"`
}

// AnalysisResponse carries markdown analysis text, plus HTML when format=html.
type AnalysisResponse struct {
	Analysis string `json:"analysis"`
	HTML     string `json:"html,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// respond renders text, converting it to HTML when the caller asked for it.
func (h *AnalysisHandler) respond(c *gin.Context, text string, mode analysis.Mode) {
	resp := AnalysisResponse{Analysis: text, Mode: string(mode)}
	if c.Query("format") == "html" {
		html, err := analysis.ToHTML(text)
		if err != nil {
			respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		resp.HTML = html
	}
	c.JSON(http.StatusOK, resp)
}

// GetMode returns the remembered strategy and every available one.
// @Summary     Analysis modes
// @Tags        analysis
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Current and available modes"
// @Router      /analysis/mode [get]
func (h *AnalysisHandler) GetMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": h.analysis.Mode(c.Request.Context()), "modes": analysis.Modes()})
}

// AnalyzePortfolio reviews the investments under a strategy.
// @Summary     Analyze portfolio
// @Description Ask the analyst to review holdings under an investment strategy
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       format  query string                   false "html to include rendered HTML"
// @Param       request body  PortfolioAnalysisRequest false "Strategy and language"
// @Success     200 {object} AnalysisResponse "Analysis"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Analysis unavailable"
// @Router      /analysis/portfolio [post]
func (h *AnalysisHandler) AnalyzePortfolio(c *gin.Context) {
	var req PortfolioAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ctx := c.Request.Context()
	text, err := h.analysis.AnalyzePortfolio(ctx, req.Mode, req.Language)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.respond(c, text, h.analysis.Mode(ctx))
}

// AnalyzeNews summarises headlines.
// @Summary     Analyze news
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       format  query string               false "html to include rendered HTML"
// @Param       request body  analysis.NewsRequest true  "Headlines"
// @Success     200 {object} AnalysisResponse "Analysis"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Analysis unavailable"
// @Router      /analysis/news [post]
func (h *AnalysisHandler) AnalyzeNews(c *gin.Context) {
	var req analysis.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	text, err := h.analysis.AnalyzeNews(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.respond(c, text, "")
}

// AnalyzeArticle explains one headline.
// @Summary     Analyze article
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       format  query string                  false "html to include rendered HTML"
// @Param       request body  analysis.ArticleRequest true  "Article"
// @Success     200 {object} AnalysisResponse "Analysis"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Analysis unavailable"
// @Router      /analysis/article [post]
func (h *AnalysisHandler) AnalyzeArticle(c *gin.Context) {
	var req analysis.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	text, err := h.analysis.AnalyzeArticle(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.respond(c, text, "")
}

// Chat answers a question about the market or portfolio.
// @Summary     Chat
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body analysis.ChatRequest true "Message and history"
// @Success     200 {object} map[string]interface{} "Reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Analysis unavailable"
// @Router      /analysis/chat [post]
func (h *AnalysisHandler) Chat(c *gin.Context) {
	var req analysis.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	reply, err := h.analysis.Chat(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}
