package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/ledger"
	"thaifolio/internal/services"
)

const enrichTimeout = 10 * time.Second

// AssetHandler applies ledger operations to the portfolio.
type AssetHandler struct {
	portfolio services.PortfolioServicer
	market    services.MarketServicer
}

// NewAssetHandler creates a new AssetHandler. market may be nil, in which
// case bought symbols are not enriched with sector data.
func NewAssetHandler(portfolio services.PortfolioServicer, market services.MarketServicer) *AssetHandler {
	return &AssetHandler{portfolio: portfolio, market: market}
}

// AddWalletRequest represents the request payload for adding a cash wallet.
type AddWalletRequest struct {
	Name         string          `json:"name" binding:"max=100"`
	Currency     string          `json:"currency" binding:"required,wallet_currency"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// BuyRequest represents the request payload for buying an investment.
type BuyRequest struct {
	Symbol          string          `json:"symbol" binding:"omitempty,ticker"`
	Name            string          `json:"name" binding:"max=200"`
	Type            string          `json:"type" binding:"omitempty,asset_type"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
	FundingWalletID int64           `json:"funding_wallet_id" binding:"gte=0"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	Sector          string          `json:"sector" binding:"max=100"`
	Industry        string          `json:"industry" binding:"max=100"`
}

// SellRequest represents the request payload for selling part of a position.
type SellRequest struct {
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	OriginalRate decimal.Decimal `json:"original_rate"`
}

// ExchangeRequest represents the request payload for a currency exchange.
// DestinationID 0 creates a new wallet.
type ExchangeRequest struct {
	SourceID      int64           `json:"source_id" binding:"required,gt=0"`
	Direction     string          `json:"direction" binding:"required,exchange_direction"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          decimal.Decimal `json:"rate"`
	DestinationID int64           `json:"destination_id" binding:"gte=0"`
	Description   string          `json:"description" binding:"max=200"`
}

// TransactionRequest represents the request payload for a deposit or withdrawal.
type TransactionRequest struct {
	Type   string          `json:"type" binding:"required,transaction_kind"`
	Amount decimal.Decimal `json:"amount"`
}

// ListAssets returns the full asset list.
// @Summary     List assets
// @Description Get every wallet and investment in ledger order
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assets": h.portfolio.Assets()})
}

// AddWallet handles adding a THB or USD cash wallet.
// @Summary     Add wallet
// @Description Add a cash wallet; USD wallets require the THB per USD rate
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddWalletRequest true "Wallet details"
// @Success     201 {object} map[string]interface{} "Wallet created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallets [post]
func (h *AssetHandler) AddWallet(c *gin.Context) {
	var req AddWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.portfolio.AddWalletCash(c.Request.Context(), actor(c), ledger.AddCashInput{
		Name:         req.Name,
		Currency:     ledger.Currency(req.Currency),
		Quantity:     req.Quantity,
		ExchangeRate: req.ExchangeRate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": wallet})
}

// Buy handles buying an investment, merging into an existing position.
// @Summary     Buy investment
// @Description Buy a lot, funded from a USD wallet or with external capital
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BuyRequest true "Purchase details"
// @Success     201 {object} map[string]interface{} "Resulting position"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Funding wallet not found"
// @Router      /investments [post]
func (h *AssetHandler) Buy(c *gin.Context) {
	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := ledger.BuyInput{
		Symbol:          req.Symbol,
		Name:            req.Name,
		Type:            req.Type,
		Price:           req.Price,
		Quantity:        req.Quantity,
		FundingWalletID: req.FundingWalletID,
		ExchangeRate:    req.ExchangeRate,
	}
	if req.Sector != "" || req.Industry != "" {
		in.Profile = &ledger.Profile{Sector: req.Sector, Industry: req.Industry}
	}

	position, err := h.portfolio.Buy(c.Request.Context(), actor(c), in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if position.Profile == nil && h.market != nil {
		symbol := position.Symbol
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
			defer cancel()
			h.market.EnrichProfile(ctx, symbol)
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"asset": position})
}

// Sell handles selling part or all of a position.
// @Summary     Sell investment
// @Description Sell units; proceeds go to a USD wallet per the proceeds policy
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Investment ID"
// @Param       request body SellRequest true "Sale details"
// @Success     200 {object} map[string]interface{} "Updated assets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/sell [post]
func (h *AssetHandler) Sell(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.portfolio.Sell(c.Request.Context(), actor(c), ledger.SellInput{
		ID:           id,
		Quantity:     req.Quantity,
		Price:        req.Price,
		OriginalRate: req.OriginalRate,
	}); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": h.portfolio.Assets()})
}

// Exchange handles converting between THB and USD wallets.
// @Summary     Exchange currency
// @Description Move money between a THB and a USD wallet at a given rate
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExchangeRequest true "Exchange details"
// @Success     200 {object} map[string]interface{} "Updated assets"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /exchange [post]
func (h *AssetHandler) Exchange(c *gin.Context) {
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.portfolio.Exchange(c.Request.Context(), actor(c), ledger.ExchangeInput{
		SourceID:      req.SourceID,
		Direction:     ledger.Direction(req.Direction),
		Amount:        req.Amount,
		Rate:          req.Rate,
		DestinationID: req.DestinationID,
		Description:   strings.TrimSpace(req.Description),
	}); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": h.portfolio.Assets()})
}

// Transact handles deposits into and withdrawals from a wallet.
// @Summary     Deposit or withdraw
// @Description Add money to or take money out of a cash wallet
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Wallet ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} map[string]interface{} "Updated assets"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /wallets/{id}/transactions [post]
func (h *AssetHandler) Transact(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.portfolio.Transact(c.Request.Context(), actor(c), ledger.TransactionInput{
		WalletID: id,
		Type:     ledger.TransactionType(req.Type),
		Amount:   req.Amount,
	}); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": h.portfolio.Assets()})
}

// DeleteAsset handles removing an asset.
// @Summary     Delete asset
// @Description Remove a wallet or investment without any balancing entry
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Asset ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.portfolio.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
