package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "thaifolio/internal/errors"
	"thaifolio/internal/ledger"
)

// AssertAppError fails unless err carries the ledger error code want.
func AssertAppError(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", want)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError %s, got %T: %v", want, err, err)
	}
	if appErr.Code != want {
		t.Errorf("error code = %s (%s), want %s", appErr.Code, appErr.Message, want)
	}
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares by value, so "150" matches "150.00".
func AssertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(D(want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

// AssertIDs checks the asset ids in list order.
func AssertIDs(t *testing.T, assets []ledger.Asset, want ...int64) {
	t.Helper()
	if len(assets) != len(want) {
		t.Fatalf("got %d assets, want ids %v", len(assets), want)
	}
	for i, a := range assets {
		if a.ID != want[i] {
			t.Errorf("asset %d id = %d, want %d", i, a.ID, want[i])
		}
	}
}
