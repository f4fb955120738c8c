package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "thaifolio/internal/errors"
)

// BuyInput describes a purchase of an investment lot.
type BuyInput struct {
	Symbol   string
	Name     string
	Type     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	// FundingWalletID is the USD wallet paying for the lot. Zero means
	// external capital priced at ExchangeRate.
	FundingWalletID int64
	ExchangeRate    decimal.Decimal
	Profile         *Profile
}

// Buy records a purchase. A funded purchase debits the wallet and inherits
// its acquisition rate. The lot is merged into any existing position of the
// same symbol, so at most one investment per symbol exists.
func (e *Engine) Buy(assets []Asset, in BuyInput) ([]Asset, Asset, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Symbol is required")
	}
	if in.Quantity.IsZero() {
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrMissingRequiredField, "Quantity is required")
	}
	if in.Quantity.IsNegative() {
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrInvalidQuantity, "Quantity must be positive")
	}
	if in.Price.IsNegative() {
		return assets, Asset{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price cannot be negative")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = symbol
	}
	lot := Asset{
		Name:     name,
		Symbol:   symbol,
		Category: CategoryInvestment,
		Currency: USD,
		Type:     in.Type,
		Quantity: in.Quantity,
		Price:    in.Price,
	}
	if in.Profile != nil {
		p := *in.Profile
		lot.Profile = &p
	}

	out := Clone(assets)
	cost := in.Price.Mul(in.Quantity)

	if in.FundingWalletID != 0 {
		wi := Find(out, in.FundingWalletID)
		if wi < 0 || !out[wi].IsWallet() {
			return assets, Asset{}, apperrors.WithMessage(apperrors.ErrWalletNotFound, "Selected wallet not found")
		}
		w := out[wi]
		if w.Currency != USD {
			return assets, Asset{}, apperrors.WithMessage(apperrors.ErrCurrencyMismatch, "Purchases must be funded from a USD wallet")
		}
		if w.Quantity.LessThan(cost) {
			return assets, Asset{}, apperrors.WithMessage(apperrors.ErrInsufficientFunds,
				fmt.Sprintf("Insufficient funds in %s. Balance: %s", w.Name, w.Quantity.String()))
		}
		out[wi].Quantity = w.Quantity.Sub(cost)
		lot.ExchangeRate = w.ExchangeRate
	} else {
		rate, err := e.externalRate(in.ExchangeRate)
		if err != nil {
			return assets, Asset{}, err
		}
		lot.ExchangeRate = rate
	}

	for i := range out {
		if out[i].IsInvestment() && out[i].Symbol == symbol {
			out[i] = Merge(out[i], lot)
			return out, out[i], nil
		}
	}
	lot.ID = e.newID(out)
	return append(out, lot), lot, nil
}

func (e *Engine) externalRate(supplied decimal.Decimal) (decimal.Decimal, error) {
	switch e.policy.ExternalFunding {
	case FundingReject:
		return decimal.Zero, apperrors.ErrFundingSourceRequired
	case FundingStrictRate:
		if !supplied.IsPositive() {
			return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "Exchange rate must be positive")
		}
		return supplied, nil
	default:
		if !supplied.IsPositive() {
			return e.policy.FallbackRate, nil
		}
		return supplied, nil
	}
}

// SellInput describes a sale from an investment position.
type SellInput struct {
	ID       int64
	Quantity decimal.Decimal
	Price    decimal.Decimal
	// OriginalRate credits the proceeds; zero uses the position's own rate.
	OriginalRate decimal.Decimal
}

// Sell reduces a position and credits quantity*price USD to a wallet chosen
// by the proceeds policy. Selling the whole position removes it; a partial
// sale keeps price and rate unchanged.
func (e *Engine) Sell(assets []Asset, in SellInput) ([]Asset, error) {
	i := Find(assets, in.ID)
	if i < 0 {
		return assets, apperrors.ErrAssetNotFound
	}
	pos := assets[i]
	if !pos.IsInvestment() {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidInput, "Only investments can be sold")
	}
	if !in.Quantity.IsPositive() || in.Quantity.GreaterThan(pos.Quantity) {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidQuantity,
			fmt.Sprintf("Invalid quantity. You only have %s", pos.Quantity.String()))
	}
	if in.Price.IsNegative() {
		return assets, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price cannot be negative")
	}
	rate := in.OriginalRate
	if !rate.IsPositive() {
		rate = pos.ExchangeRate
	}

	out := make([]Asset, 0, len(assets)+1)
	for j, a := range assets {
		if j != i {
			out = append(out, a.Clone())
			continue
		}
		remaining := a.Quantity.Sub(in.Quantity)
		if remaining.IsZero() {
			continue
		}
		c := a.Clone()
		c.Quantity = remaining
		out = append(out, c)
	}

	proceeds := in.Quantity.Mul(in.Price)
	if proceeds.IsZero() {
		return out, nil
	}
	if wi := e.proceedsWallet(out); wi >= 0 {
		w := out[wi]
		out[wi].ExchangeRate = blendRate(w.Quantity, w.ExchangeRate, proceeds, rate)
		out[wi].Quantity = w.Quantity.Add(proceeds)
		return out, nil
	}
	return append(out, e.newWallet(out, "Sale: "+pos.Name, USD, proceeds, rate)), nil
}

// proceedsWallet returns the index of the USD wallet to credit, or -1 to open a new one.
func (e *Engine) proceedsWallet(assets []Asset) int {
	if e.policy.Proceeds == ProceedsNewWallet {
		return -1
	}
	idx := -1
	count := 0
	for i, a := range assets {
		if a.IsWallet() && a.Currency == USD {
			if idx < 0 {
				idx = i
			}
			count++
		}
	}
	if e.policy.Proceeds == ProceedsSoleUSDWallet && count != 1 {
		return -1
	}
	return idx
}

// ApplyQuotes sets live market data on investments. lookup maps an asset's
// symbol to its quote; quotes without a positive price are ignored. Only
// market fields change, so it is safe to apply to a newer list than the one
// the quotes were requested for.
func ApplyQuotes(assets []Asset, lookup func(symbol string) (Quote, bool)) ([]Asset, int) {
	out := Clone(assets)
	updated := 0
	for i := range out {
		if !out[i].IsInvestment() {
			continue
		}
		q, ok := lookup(out[i].Symbol)
		if !ok || !q.Price.IsPositive() {
			continue
		}
		out[i].Market = &q
		updated++
	}
	return out, updated
}

// SetProfile attaches metadata to the investment with the given symbol.
func SetProfile(assets []Asset, symbol string, p Profile) []Asset {
	out := Clone(assets)
	for i := range out {
		if out[i].IsInvestment() && out[i].Symbol == symbol {
			pp := p
			out[i].Profile = &pp
		}
	}
	return out
}
