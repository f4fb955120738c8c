package ledger

import "github.com/shopspring/decimal"

// Merge folds lot into existing using value-weighted averages and returns the
// combined record. The result keeps existing's identity, market data and
// metadata; lot only contributes quantity, cost and rate (and a profile when
// existing has none).
//
//	quantity     = q1 + q2
//	price        = (q1*p1 + q2*p2) / quantity
//	exchangeRate = (q1*p1*r1 + q2*p2*r2) / (q1*p1 + q2*p2)
//
// The rate falls back to existing's rate when the combined USD value is zero.
func Merge(existing, lot Asset) Asset {
	out := existing.Clone()

	qty := existing.Quantity.Add(lot.Quantity)
	valueUSD := existing.CostBasis().Add(lot.CostBasis())
	valueTHB := existing.CostBasis().Mul(existing.ExchangeRate).
		Add(lot.CostBasis().Mul(lot.ExchangeRate))

	out.Quantity = qty
	if qty.IsPositive() {
		out.Price = valueUSD.Div(qty)
	} else {
		out.Price = decimal.Zero
	}
	if valueUSD.IsPositive() {
		out.ExchangeRate = valueTHB.Div(valueUSD)
	}
	if out.Profile == nil && lot.Profile != nil {
		p := *lot.Profile
		out.Profile = &p
	}
	return out
}

// blendRate returns the quantity-weighted rate of adding amount at rate to a
// holding of held at heldRate. Used for USD wallets, whose price is always 1.
func blendRate(held, heldRate, amount, rate decimal.Decimal) decimal.Decimal {
	total := held.Add(amount)
	if !total.IsPositive() {
		return heldRate
	}
	return held.Mul(heldRate).Add(amount.Mul(rate)).Div(total)
}

// Consolidate folds duplicate investments of the same symbol into a single
// record at the position of the first occurrence. Wallets pass through
// unchanged and are never merged. Consolidating a consolidated list is a no-op.
func Consolidate(assets []Asset) []Asset {
	out := make([]Asset, 0, len(assets))
	bySymbol := make(map[string]int)
	for _, a := range assets {
		if !a.IsInvestment() {
			out = append(out, a.Clone())
			continue
		}
		if i, ok := bySymbol[a.Symbol]; ok {
			out[i] = Merge(out[i], a)
			continue
		}
		bySymbol[a.Symbol] = len(out)
		out = append(out, a.Clone())
	}
	return out
}
