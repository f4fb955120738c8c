package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/middleware"
)

// AuthHandler exchanges the owner passphrase for an access token.
type AuthHandler struct {
	passphraseHash []byte
	secret         []byte
	ttl            time.Duration
}

// NewAuthHandler creates a new AuthHandler. An empty passphrase disables
// token issuance; the API is then open to anyone who can reach it.
func NewAuthHandler(passphrase string, secret []byte, ttl time.Duration) (*AuthHandler, error) {
	h := &AuthHandler{secret: secret, ttl: ttl}
	if passphrase == "" {
		return h, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	h.passphraseHash = hash
	return h, nil
}

// Enabled reports whether owner authentication is configured.
func (h *AuthHandler) Enabled() bool {
	return len(h.passphraseHash) > 0
}

// TokenRequest represents the token request payload.
type TokenRequest struct {
	Passphrase string `json:"passphrase" binding:"required,max=256"`
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token handles owner login.
// @Summary     Issue owner token
// @Description Exchange the owner passphrase for a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body TokenRequest true "Owner passphrase"
// @Success     200 {object} TokenResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid passphrase"
// @Failure     404 {object} ErrorResponse "Authentication disabled"
// @Router      /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	if !h.Enabled() {
		respondWithError(c, apperrors.ErrAuthDisabled)
		return
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if bcrypt.CompareHashAndPassword(h.passphraseHash, []byte(req.Passphrase)) != nil {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, expiresAt, err := middleware.GenerateOwnerToken(h.secret, h.ttl)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
