package service

import (
	"errors"
	"strings"
	"testing"

	"trading_backend/internal/domain"
)

func testValidator() *TradeValidator {
	values := map[string]int64{
		"Huge Cat":        1_000_000,
		"Golden Huge Cat": 0,
		"Titanic Dog":     5_000_000,
	}
	return NewTradeValidator([]string{"Huge Cat", "Golden Huge Cat", "Titanic Dog"}, values)
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return vErr.Reason
}

func TestValidateDeposit_ItemsOnly(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: 2}}}

	if err := v.ValidateDeposit(trade); err != nil {
		t.Fatalf("expected valid deposit, got %v", err)
	}
}

func TestValidateDeposit_GemsOnly(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{Gems: 150_000_000}

	if err := v.ValidateDeposit(trade); err != nil {
		t.Fatalf("expected valid gem deposit, got %v", err)
	}
}

func TestValidateDeposit_UnsupportedItem(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{Items: []domain.TradeItem{{Name: "Normal Cat", Quantity: 1}}}

	err := v.ValidateDeposit(trade)
	if reasonOf(t, err) != ReasonUnsupportedItem {
		t.Fatalf("expected unsupported item, got %v", err)
	}
}

func TestValidateDeposit_AllUnsupportedNamesReported(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{Items: []domain.TradeItem{
		{Name: "Normal Cat", Quantity: 1},
		{Name: "Huge Cat", Quantity: 1},
		{Name: "Tiny Dog", Quantity: 1},
	}}

	err := v.ValidateDeposit(trade)
	if reasonOf(t, err) != ReasonUnsupportedItem {
		t.Fatalf("expected unsupported item, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "Normal Cat") || !strings.Contains(msg, "Tiny Dog") {
		t.Fatalf("expected every offending name in message, got %q", msg)
	}
	if strings.Contains(msg, "Huge Cat,") {
		t.Fatalf("supported item reported as unsupported: %q", msg)
	}
}

func TestValidateDeposit_SupportMatchesCaseInsensitively(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{Items: []domain.TradeItem{{Name: "huge cat", Quantity: 1}}}

	if err := v.ValidateDeposit(trade); err != nil {
		t.Fatalf("expected case-insensitive support match, got %v", err)
	}
}

func TestValidateDeposit_VariantFlagsFormCatalogName(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{Items: []domain.TradeItem{
		{Name: "Huge Cat", Rarity: domain.RarityGolden, Quantity: 1},
	}}

	// "Golden Huge Cat" is cataloged, so the rarity-flagged item passes
	if err := v.ValidateDeposit(trade); err != nil {
		t.Fatalf("expected golden variant supported, got %v", err)
	}

	trade.Items[0].Rarity = domain.RarityRainbow
	err := v.ValidateDeposit(trade)
	if reasonOf(t, err) != ReasonUnsupportedItem {
		t.Fatalf("expected rainbow variant unsupported, got %v", err)
	}
}

func TestValidateDeposit_GemsBelowMinimum(t *testing.T) {
	v := testValidator()
	err := v.ValidateDeposit(domain.Trade{Gems: 49_999_999})
	if reasonOf(t, err) != ReasonBelowMinimum {
		t.Fatalf("expected below minimum, got %v", err)
	}
}

func TestValidateDeposit_GemsAboveMaximum(t *testing.T) {
	v := testValidator()
	err := v.ValidateDeposit(domain.Trade{Gems: 10_000_000_001})
	if reasonOf(t, err) != ReasonAboveMaximum {
		t.Fatalf("expected above maximum, got %v", err)
	}
}

func TestValidateDeposit_GemsNotAMultiple(t *testing.T) {
	v := testValidator()
	err := v.ValidateDeposit(domain.Trade{Gems: 75_000_000})
	if reasonOf(t, err) != ReasonNotAMultiple {
		t.Fatalf("expected not a multiple, got %v", err)
	}
}

func TestValidateDeposit_GemBoundaries(t *testing.T) {
	v := testValidator()
	if err := v.ValidateDeposit(domain.Trade{Gems: MinGemDeposit}); err != nil {
		t.Fatalf("minimum deposit must be accepted, got %v", err)
	}
	if err := v.ValidateDeposit(domain.Trade{Gems: MaxGemDeposit}); err != nil {
		t.Fatalf("maximum deposit must be accepted, got %v", err)
	}
}

func TestValidateDeposit_NonPositiveQuantity(t *testing.T) {
	v := testValidator()
	for _, qty := range []int64{0, -1} {
		trade := domain.Trade{Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: qty}}}
		err := v.ValidateDeposit(trade)
		if reasonOf(t, err) != ReasonInvalidQuantity {
			t.Fatalf("expected invalid quantity for %d, got %v", qty, err)
		}
	}
}

func TestValidateDeposit_Empty(t *testing.T) {
	v := testValidator()
	err := v.ValidateDeposit(domain.Trade{})
	if reasonOf(t, err) != ReasonEmptyDeposit {
		t.Fatalf("expected empty deposit, got %v", err)
	}
}

func TestValidateWithdraw_Valid(t *testing.T) {
	v := testValidator()
	inv := map[string]int64{"huge cat": 3}
	trade := domain.Trade{Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: 3}}}

	if err := v.ValidateWithdraw(trade, inv); err != nil {
		t.Fatalf("expected valid withdrawal, got %v", err)
	}
}

func TestValidateWithdraw_InsufficientQuantity(t *testing.T) {
	v := testValidator()
	inv := map[string]int64{"huge cat": 2}
	trade := domain.Trade{Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: 3}}}

	err := v.ValidateWithdraw(trade, inv)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Reason != ReasonInsufficientQuantity {
		t.Fatalf("expected insufficient quantity, got %v", err)
	}
	if vErr.Item != "Huge Cat" || vErr.Available != 2 || vErr.Requested != 3 {
		t.Fatalf("expected item/available/requested detail, got %+v", vErr)
	}
}

func TestValidateWithdraw_NegativeQuantityRejected(t *testing.T) {
	v := testValidator()
	inv := map[string]int64{"huge cat": 2}
	trade := domain.Trade{Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: -3}}}

	// -3 < 2 would pass the sufficiency comparison, so the quantity check
	// must fire first. Letting it through would credit inventory on withdraw.
	err := v.ValidateWithdraw(trade, inv)
	if reasonOf(t, err) != ReasonInvalidQuantity {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestValidateWithdraw_MissingItem(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{Items: []domain.TradeItem{{Name: "Titanic Dog", Quantity: 1}}}

	err := v.ValidateWithdraw(trade, map[string]int64{})
	if reasonOf(t, err) != ReasonInsufficientQuantity {
		t.Fatalf("expected insufficient quantity for absent item, got %v", err)
	}
}

func TestValidateWithdraw_GemsRejected(t *testing.T) {
	v := testValidator()
	trade := domain.Trade{
		Items: []domain.TradeItem{{Name: "Huge Cat", Quantity: 1}},
		Gems:  50_000_000,
	}

	err := v.ValidateWithdraw(trade, map[string]int64{"huge cat": 1})
	if reasonOf(t, err) != ReasonGemsNotWithdrawable {
		t.Fatalf("expected gems not withdrawable, got %v", err)
	}
}

func TestValidateWithdraw_Empty(t *testing.T) {
	v := testValidator()
	err := v.ValidateWithdraw(domain.Trade{}, nil)
	if reasonOf(t, err) != ReasonEmptyWithdrawal {
		t.Fatalf("expected empty withdrawal, got %v", err)
	}
}

func TestDepositValue_Additive(t *testing.T) {
	v := testValidator()
	items := []domain.TradeItem{
		{Name: "Huge Cat", Quantity: 2},
		{Name: "Titanic Dog", Quantity: 1},
	}

	if got := v.DepositValue(items); got != 7_000_000 {
		t.Fatalf("expected 7000000, got %d", got)
	}
}

func TestDepositValue_UnknownNameCountsZero(t *testing.T) {
	v := testValidator()
	items := []domain.TradeItem{{Name: "Mystery Pet", Quantity: 5}}

	if got := v.DepositValue(items); got != 0 {
		t.Fatalf("expected 0 for unknown name, got %d", got)
	}
}

func TestCustomLimits(t *testing.T) {
	limits := Limits{MinGemDeposit: 10, MaxGemDeposit: 100, GemDepositMultiple: 10}
	v := NewTradeValidatorWithLimits(nil, nil, limits)

	if err := v.ValidateDeposit(domain.Trade{Gems: 50}); err != nil {
		t.Fatalf("expected 50 valid under custom limits, got %v", err)
	}
	err := v.ValidateDeposit(domain.Trade{Gems: 55})
	if reasonOf(t, err) != ReasonNotAMultiple {
		t.Fatalf("expected not a multiple under custom limits, got %v", err)
	}
}
