// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"thaifolio/internal/analysis"
	"thaifolio/internal/ledger"
	"thaifolio/internal/marketdata"
)

// tickerRegex accepts exchange-style tickers such as AAPL, BRK.B, PTT.BK,
// ^SET.BK, THB=X and BTC-USD.
var tickerRegex = regexp.MustCompile(`^\^?[A-Za-z0-9]{1,12}([.\-=][A-Za-z0-9]{1,6}){0,2}$`)

var assetTypes = map[string]bool{
	"stock": true, "etf": true, "bond": true, "crypto": true,
	"reit": true, "fund": true, "commodity": true, "cash": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom validators to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("wallet_currency", validateWalletCurrency)
	_ = v.RegisterValidation("exchange_direction", validateExchangeDirection)
	_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
	_ = v.RegisterValidation("ticker", validateTicker)
	_ = v.RegisterValidation("asset_type", validateAssetType)
	_ = v.RegisterValidation("news_category", validateNewsCategory)
	_ = v.RegisterValidation("analysis_mode", validateAnalysisMode)
}

func validateWalletCurrency(fl validator.FieldLevel) bool {
	return ledger.Currency(fl.Field().String()).Valid()
}

func validateExchangeDirection(fl validator.FieldLevel) bool {
	switch ledger.Direction(fl.Field().String()) {
	case ledger.THBToUSD, ledger.USDToTHB:
		return true
	}
	return false
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	switch ledger.TransactionType(fl.Field().String()) {
	case ledger.Deposit, ledger.Withdraw:
		return true
	}
	return false
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateAssetType(fl validator.FieldLevel) bool {
	return assetTypes[strings.ToLower(fl.Field().String())]
}

func validateNewsCategory(fl validator.FieldLevel) bool {
	for _, c := range marketdata.NewsCategories {
		if c == fl.Field().String() {
			return true
		}
	}
	return false
}

func validateAnalysisMode(fl validator.FieldLevel) bool {
	_, ok := analysis.ParseMode(fl.Field().String())
	return ok
}
