package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thaifolio/internal/ledger"
)

func TestExportImport_RoundTrip(t *testing.T) {
	aapl := investment(3, "AAPL", "10", "185.5", "35.5")
	aapl.Name = "Apple Inc."
	aapl.Market = &ledger.Quote{
		Price:         d("190.12"),
		PreviousClose: decimal.NewNullDecimal(d("188")),
		Change:        decimal.NewNullDecimal(d("2.12")),
	}
	aapl.Profile = &ledger.Profile{Sector: "Technology", Industry: "Consumer Electronics"}
	aapl.Extra = map[string]json.RawMessage{"note": json.RawMessage(`{"broker":"IBKR"}`)}

	assets := []ledger.Asset{thbWallet(1, "50000"), usdWallet(2, "1000", "35.50"), aapl}

	payload, err := ledger.Export(assets)
	require.NoError(t, err)

	got, err := ledger.Import(payload)
	require.NoError(t, err)
	assert.True(t, ledger.EqualLists(assets, got))

	again, err := ledger.Export(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(again))
}

func TestExport_WireShape(t *testing.T) {
	payload, err := ledger.Export([]ledger.Asset{usdWallet(2, "1000", "35.5")})
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &records))
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, float64(2), r["id"])
	assert.Equal(t, "Wallet", r["category"])
	assert.Equal(t, "USD", r["currency"])
	assert.Equal(t, 35.5, r["exchangeRate"])
	assert.NotContains(t, r, "marketPrice")
	assert.NotContains(t, r, "sector")
}

func TestExport_EmptyList(t *testing.T) {
	payload, err := ledger.Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
}

func TestImport_Lenient(t *testing.T) {
	payload := `[
		{"id": 1, "name": "Kasikorn Bank", "symbol": "KBANK", "type": "Cash", "quantity": "50000", "price": 1, "exchangeRate": 1, "currency": "THB", "category": "Wallet"},
		{"id": "1700000000000", "name": "Bitcoin", "symbol": "BTC", "quantity": 0.25, "category": "Investment", "currency": "USD", "marketPrice": null, "color": "orange"},
		{"id": 7, "name": "Bare"}
	]`
	got, err := ledger.Import([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assertDecimal(t, "50000", got[0].Quantity)
	assert.Equal(t, int64(1700000000000), got[1].ID)
	assert.Nil(t, got[1].Market)
	assert.JSONEq(t, `"orange"`, string(got[1].Extra["color"]))
	assert.Equal(t, "Bare", got[2].Name)
	assert.True(t, got[2].Quantity.IsZero())
}

func TestImport_InvalidFormat(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not_json", payload: `hello`},
		{name: "object_not_array", payload: `{"id": 1, "name": "x"}`},
		{name: "null", payload: `null`},
		{name: "array_of_numbers", payload: `[1, 2]`},
		{name: "null_record", payload: `[null]`},
		{name: "missing_id", payload: `[{"name": "x"}]`},
		{name: "missing_name", payload: `[{"id": 1}]`},
		{name: "null_name", payload: `[{"id": 1, "name": null}]`},
		{name: "fractional_id", payload: `[{"id": 1.5, "name": "x"}]`},
		{name: "non_integer_id", payload: `[{"id": "abc", "name": "x"}]`},
		{name: "duplicate_id", payload: `[{"id": 7, "name": "A"}, {"id": 7, "name": "B"}]`},
		{name: "duplicate_id_as_string", payload: `[{"id": 7, "name": "A"}, {"id": "7", "name": "B"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.Import([]byte(tt.payload))
			assertCode(t, err, "INVALID_FORMAT")
			assert.Nil(t, got)
		})
	}
}

func TestImport_DuplicateIDNamesRecord(t *testing.T) {
	_, err := ledger.Import([]byte(`[{"id": 1, "name": "A"}, {"id": 2, "name": "B"}, {"id": 1, "name": "C"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Record 2: duplicate id 1")
}

func TestImport_KeepsUndecodableValues(t *testing.T) {
	payload := `[{"id": 1, "name": "x", "quantity": "n/a", "symbol": 5, "price": "12.5",
		"marketPrice": "soon", "sector": ["Tech"]}]`
	got, err := ledger.Import([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.True(t, a.Quantity.IsZero())
	assert.Empty(t, a.Symbol)
	assertDecimal(t, "12.5", a.Price)
	assert.Nil(t, a.Market)
	assert.JSONEq(t, `"n/a"`, string(a.Extra["quantity"]))
	assert.JSONEq(t, `5`, string(a.Extra["symbol"]))
	assert.JSONEq(t, `"soon"`, string(a.Extra["marketPrice"]))
	assert.JSONEq(t, `["Tech"]`, string(a.Extra["sector"]))

	again, err := ledger.Export(got)
	require.NoError(t, err)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(again, &records))
	assert.Equal(t, "n/a", records[0]["quantity"])
	assert.Equal(t, float64(5), records[0]["symbol"])
	assert.Equal(t, "soon", records[0]["marketPrice"])
	assert.Equal(t, 12.5, records[0]["price"])
}

func TestExport_DecodedValueReplacesKeptOriginal(t *testing.T) {
	got, err := ledger.Import([]byte(`[{"id": 1, "name": "x", "quantity": "n/a"}]`))
	require.NoError(t, err)

	a := got[0]
	a.Quantity = d("3")
	out, err := json.Marshal(a)
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &record))
	assert.Equal(t, float64(3), record["quantity"])
}

func TestImport_EmptyArray(t *testing.T) {
	got, err := ledger.Import([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}
