package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "thaifolio/internal/errors"
)

// Wire keys of the persisted asset record.
const (
	keyID                  = "id"
	keyName                = "name"
	keySymbol              = "symbol"
	keyCategory            = "category"
	keyCurrency            = "currency"
	keyType                = "type"
	keyQuantity            = "quantity"
	keyPrice               = "price"
	keyExchangeRate        = "exchangeRate"
	keyMarketPrice         = "marketPrice"
	keyMarketChange        = "marketChange"
	keyMarketChangePercent = "marketChangePercent"
	keyPreviousClose       = "previousClose"
	keySector              = "sector"
	keyIndustry            = "industry"
)

var knownKeys = []string{
	keyID, keyName, keySymbol, keyCategory, keyCurrency, keyType,
	keyQuantity, keyPrice, keyExchangeRate,
	keyMarketPrice, keyMarketChange, keyMarketChangePercent, keyPreviousClose,
	keySector, keyIndustry,
}

// MarshalJSON writes the asset as a flat camelCase object with numeric
// decimals. Unknown fields captured on import are written back unchanged.
func (a Asset) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(a.Extra)+len(knownKeys))
	for k, v := range a.Extra {
		if !isKnown(k) {
			out[k] = v
		}
	}

	out[keyID] = json.RawMessage(strconv.FormatInt(a.ID, 10))
	for key, s := range map[string]string{
		keyName:     a.Name,
		keySymbol:   a.Symbol,
		keyCategory: string(a.Category),
		keyCurrency: string(a.Currency),
		keyType:     a.Type,
	} {
		raw, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	out[keyQuantity] = number(a.Quantity)
	out[keyPrice] = number(a.Price)
	out[keyExchangeRate] = number(a.ExchangeRate)

	if a.Market != nil {
		out[keyMarketPrice] = number(a.Market.Price)
		setNull(out, keyPreviousClose, a.Market.PreviousClose)
		setNull(out, keyMarketChange, a.Market.Change)
		setNull(out, keyMarketChangePercent, a.Market.ChangePercent)
	}
	if a.Profile != nil {
		sector, _ := json.Marshal(a.Profile.Sector)
		industry, _ := json.Marshal(a.Profile.Industry)
		out[keySector] = sector
		out[keyIndustry] = industry
	}
	for k, v := range a.Extra {
		if isKnown(k) && a.unset(k) {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

func number(d decimal.Decimal) json.RawMessage {
	return json.RawMessage(d.String())
}

func setNull(out map[string]json.RawMessage, key string, d decimal.NullDecimal) {
	if d.Valid {
		out[key] = number(d.Decimal)
	}
}

// UnmarshalJSON reads a persisted asset record. Only id and name are
// required; numbers may be JSON numbers or numeric strings. A known field
// whose value cannot be decoded is kept verbatim in Extra and its typed
// field left at the zero value.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return fmt.Errorf("asset record must be an object")
	}

	rawID, ok := fields[keyID]
	if !ok || isNull(rawID) {
		return fmt.Errorf("missing %q", keyID)
	}
	id, err := decodeID(rawID)
	if err != nil {
		return err
	}
	rawName, ok := fields[keyName]
	if !ok || isNull(rawName) {
		return fmt.Errorf("missing %q", keyName)
	}

	var out Asset
	out.ID = id
	keep := func(key string) {
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[key] = append(json.RawMessage(nil), fields[key]...)
	}
	str := func(key string) string {
		v, ok := decodeString(fields, key)
		if !ok {
			keep(key)
		}
		return v
	}
	num := func(key string) decimal.NullDecimal {
		raw, present := fields[key]
		if !present {
			return decimal.NullDecimal{}
		}
		d, ok := decodeDecimal(raw)
		if !ok {
			keep(key)
		}
		return d
	}

	out.Name = str(keyName)
	out.Symbol = str(keySymbol)
	out.Type = str(keyType)
	out.Category = Category(str(keyCategory))
	out.Currency = Currency(str(keyCurrency))
	out.Quantity = num(keyQuantity).Decimal
	out.Price = num(keyPrice).Decimal
	out.ExchangeRate = num(keyExchangeRate).Decimal

	price := num(keyMarketPrice)
	q := Quote{
		Price:         price.Decimal,
		PreviousClose: num(keyPreviousClose),
		Change:        num(keyMarketChange),
		ChangePercent: num(keyMarketChangePercent),
	}
	if price.Valid || q.PreviousClose.Valid || q.Change.Valid || q.ChangePercent.Valid {
		out.Market = &q
	}

	if hasAny(fields, keySector, keyIndustry) {
		out.Profile = &Profile{Sector: str(keySector), Industry: str(keyIndustry)}
	}

	for k := range fields {
		if !isKnown(k) {
			keep(k)
		}
	}

	*a = out
	return nil
}

// unset reports whether the typed field behind a known key holds nothing,
// so an undecodable original kept in Extra can be written back in its place.
func (a Asset) unset(key string) bool {
	switch key {
	case keyName:
		return a.Name == ""
	case keySymbol:
		return a.Symbol == ""
	case keyType:
		return a.Type == ""
	case keyCategory:
		return a.Category == ""
	case keyCurrency:
		return a.Currency == ""
	case keyQuantity:
		return a.Quantity.IsZero()
	case keyPrice:
		return a.Price.IsZero()
	case keyExchangeRate:
		return a.ExchangeRate.IsZero()
	case keyMarketPrice:
		return a.Market == nil || a.Market.Price.IsZero()
	case keyPreviousClose:
		return a.Market == nil || !a.Market.PreviousClose.Valid
	case keyMarketChange:
		return a.Market == nil || !a.Market.Change.Valid
	case keyMarketChangePercent:
		return a.Market == nil || !a.Market.ChangePercent.Valid
	case keySector:
		return a.Profile == nil || a.Profile.Sector == ""
	case keyIndustry:
		return a.Profile == nil || a.Profile.Industry == ""
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isKnown(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

func hasAny(fields map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if raw, ok := fields[k]; ok && !isNull(raw) {
			return true
		}
	}
	return false
}

func decodeID(raw json.RawMessage) (int64, error) {
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("invalid %q", keyID)
	}
	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		n = json.Number(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("invalid %q", keyID)
	}
	id, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%q must be an integer", keyID)
	}
	return id, nil
}

func decodeString(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return "", true
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

func decodeDecimal(raw json.RawMessage) (decimal.NullDecimal, bool) {
	if isNull(raw) {
		return decimal.NullDecimal{}, true
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

// Export serializes the full asset list verbatim.
func Export(assets []Asset) ([]byte, error) {
	if assets == nil {
		assets = []Asset{}
	}
	return json.Marshal(assets)
}

// Import parses an exported payload. The payload must be a JSON array of
// objects, each carrying at least id and name, with no id repeated; anything
// else is rejected with ErrInvalidFormat.
func Import(payload []byte) ([]Asset, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil || raws == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidFormat, "Import payload must be a JSON array of asset records")
	}

	assets := make([]Asset, 0, len(raws))
	seen := make(map[int64]bool, len(raws))
	for i, raw := range raws {
		var a Asset
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidFormat,
				fmt.Sprintf("Record %d: %v", i, unwrapJSONError(err)))
		}
		if seen[a.ID] {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidFormat,
				fmt.Sprintf("Record %d: duplicate id %d", i, a.ID))
		}
		seen[a.ID] = true
		assets = append(assets, a)
	}
	return assets, nil
}

func unwrapJSONError(err error) string {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return "malformed JSON"
	}
	return err.Error()
}
