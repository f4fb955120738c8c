package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidate()

	tests := []struct {
		tag   string
		value string
		valid bool
	}{
		{"wallet_currency", "THB", true},
		{"wallet_currency", "USD", true},
		{"wallet_currency", "EUR", false},
		{"wallet_currency", "thb", false},
		{"exchange_direction", "THB_TO_USD", true},
		{"exchange_direction", "USD_TO_THB", true},
		{"exchange_direction", "USD_TO_EUR", false},
		{"transaction_kind", "DEPOSIT", true},
		{"transaction_kind", "WITHDRAW", true},
		{"transaction_kind", "TRANSFER", false},
		{"ticker", "AAPL", true},
		{"ticker", "BRK.B", true},
		{"ticker", "PTT.BK", true},
		{"ticker", "^SET.BK", true},
		{"ticker", "THB=X", true},
		{"ticker", "BTC-USD", true},
		{"ticker", "", false},
		{"ticker", "DROP TABLE", false},
		{"asset_type", "stock", true},
		{"asset_type", "ETF", true},
		{"asset_type", "nft", false},
		{"news_category", "general", true},
		{"news_category", "thai", true},
		{"news_category", "sports", false},
		{"analysis_mode", "The Balanced", true},
		{"analysis_mode", "The Gambler", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			err := v.Var(tt.value, tt.tag)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
