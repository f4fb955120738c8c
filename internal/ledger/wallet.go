package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "thaifolio/internal/errors"
)

// AddCashInput describes a new cash wallet.
type AddCashInput struct {
	Name     string
	Currency Currency
	Quantity decimal.Decimal
	// ExchangeRate is required for USD wallets and ignored for THB.
	ExchangeRate decimal.Decimal
}

// AddWalletCash appends a new wallet. THB wallets always carry a rate of 1.
func (e *Engine) AddWalletCash(assets []Asset, in AddCashInput) ([]Asset, Asset, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Wallet name is required")
	}
	if in.Quantity.IsZero() {
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Wallet quantity is required")
	}
	if in.Quantity.IsNegative() {
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrInvalidQuantity, "Wallet quantity must be positive")
	}

	rate := decimal.NewFromInt(1)
	switch in.Currency {
	case THB:
	case USD:
		if !in.ExchangeRate.IsPositive() {
			return assets, Asset{}, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Exchange rate is required for USD wallets")
		}
		rate = in.ExchangeRate
	default:
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unsupported currency %q", in.Currency))
	}

	w := e.newWallet(assets, name, in.Currency, in.Quantity, rate)
	out := append(Clone(assets), w)
	return out, w, nil
}

// Direction is the side of a currency exchange.
type Direction string

const (
	THBToUSD Direction = "THB_TO_USD"
	USDToTHB Direction = "USD_TO_THB"
)

// Source returns the currency being sold.
func (d Direction) Source() Currency {
	if d == USDToTHB {
		return USD
	}
	return THB
}

// NewWalletID as an exchange destination opens a new wallet.
const NewWalletID int64 = 0

// ExchangeInput describes a currency exchange between wallets.
type ExchangeInput struct {
	SourceID  int64
	Direction Direction
	Amount    decimal.Decimal
	// Rate is THB per USD.
	Rate          decimal.Decimal
	DestinationID int64
	// Description names a newly opened destination wallet.
	Description string
}

// Exchange moves amount out of the source wallet and credits the converted
// amount to the destination. THB to USD credits blend the destination's rate
// by quantity; USD to THB credits only add quantity.
func (e *Engine) Exchange(assets []Asset, in ExchangeInput) ([]Asset, error) {
	if in.Direction != THBToUSD && in.Direction != USDToTHB {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unsupported direction %q", in.Direction))
	}
	if !in.Amount.IsPositive() {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidQuantity, "Amount must be positive")
	}
	if !in.Rate.IsPositive() {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidInput, "Rate must be positive")
	}

	si := Find(assets, in.SourceID)
	if si < 0 || !assets[si].IsWallet() {
		return assets, apperrors.ErrWalletNotFound
	}
	src := assets[si]
	if src.Currency != in.Direction.Source() {
		return assets, apperrors.WithMessage(apperrors.ErrCurrencyMismatch,
			fmt.Sprintf("%s is not a %s wallet", src.Name, in.Direction.Source()))
	}
	if src.Quantity.LessThan(in.Amount) {
		return assets, apperrors.WithMessage(apperrors.ErrInsufficientFunds,
			fmt.Sprintf("Insufficient funds. Available: %s", src.Quantity.String()))
	}

	di := -1
	if in.DestinationID != NewWalletID {
		di = Find(assets, in.DestinationID)
		if di < 0 || !assets[di].IsWallet() {
			return assets, apperrors.ErrWalletNotFound
		}
		if assets[di].Currency != in.Direction.Source().Opposite() {
			return assets, apperrors.WithMessage(apperrors.ErrCurrencyMismatch,
				fmt.Sprintf("%s is not a %s wallet", assets[di].Name, in.Direction.Source().Opposite()))
		}
	}

	out := Clone(assets)
	out[si].Quantity = src.Quantity.Sub(in.Amount)

	if in.Direction == THBToUSD {
		usd := in.Amount.Div(in.Rate)
		if di < 0 {
			name := in.Description
			if name == "" {
				name = "Exchanged from " + src.Name
			}
			return append(out, e.newWallet(out, name, USD, usd, in.Rate)), nil
		}
		dst := out[di]
		out[di].ExchangeRate = blendRate(dst.Quantity, dst.ExchangeRate, usd, in.Rate)
		out[di].Quantity = dst.Quantity.Add(usd)
		return out, nil
	}

	thb := in.Amount.Mul(in.Rate)
	if di < 0 {
		name := in.Description
		if name == "" {
			name = "Sold USD from " + src.Name
		}
		return append(out, e.newWallet(out, name, THB, thb, decimal.NewFromInt(1))), nil
	}
	out[di].Quantity = out[di].Quantity.Add(thb)
	return out, nil
}

// TransactionType is a deposit or a withdrawal.
type TransactionType string

const (
	Deposit  TransactionType = "DEPOSIT"
	Withdraw TransactionType = "WITHDRAW"
)

// TransactionInput describes a deposit into or withdrawal from a wallet.
type TransactionInput struct {
	WalletID int64
	Type     TransactionType
	Amount   decimal.Decimal
}

// Transact adds to or subtracts from a wallet's quantity. The wallet's rate
// is left untouched.
func (e *Engine) Transact(assets []Asset, in TransactionInput) ([]Asset, error) {
	if in.Type != Deposit && in.Type != Withdraw {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unsupported transaction type %q", in.Type))
	}
	if !in.Amount.IsPositive() {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidQuantity, "Amount must be positive")
	}
	i := Find(assets, in.WalletID)
	if i < 0 || !assets[i].IsWallet() {
		return assets, apperrors.ErrWalletNotFound
	}
	w := assets[i]
	if in.Type == Withdraw && in.Amount.GreaterThan(w.Quantity) {
		return assets, apperrors.WithMessage(apperrors.ErrInsufficientFunds,
			fmt.Sprintf("Insufficient funds. Available: %s", w.Quantity.String()))
	}

	out := Clone(assets)
	if in.Type == Deposit {
		out[i].Quantity = w.Quantity.Add(in.Amount)
	} else {
		out[i].Quantity = w.Quantity.Sub(in.Amount)
	}
	return out, nil
}

// Delete removes the asset with the given id. It reports whether anything was removed.
func Delete(assets []Asset, id int64) ([]Asset, bool) {
	i := Find(assets, id)
	if i < 0 {
		return assets, false
	}
	out := make([]Asset, 0, len(assets)-1)
	for j, a := range assets {
		if j != i {
			out = append(out, a.Clone())
		}
	}
	return out, true
}
