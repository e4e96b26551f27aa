package service

import (
	"fmt"
	"strings"

	"trading_backend/internal/domain"
)

// Deposit limits. Gems move in fixed 50M increments.
const (
	MinGemDeposit      = 50_000_000
	MaxGemDeposit      = 10_000_000_000
	GemDepositMultiple = 50_000_000
)

// Validation reason codes. These are stable strings surfaced to the caller.
const (
	ReasonInvalidQuantity      = "invalid_quantity"
	ReasonUnsupportedItem      = "unsupported_item"
	ReasonBelowMinimum         = "below_minimum"
	ReasonAboveMaximum         = "above_maximum"
	ReasonNotAMultiple         = "not_a_multiple"
	ReasonEmptyDeposit         = "empty_deposit"
	ReasonInsufficientQuantity = "insufficient_quantity"
	ReasonGemsNotWithdrawable  = "gems_not_withdrawable"
	ReasonEmptyWithdrawal      = "empty_withdrawal"
)

// ValidationError is a rule violation. Safe to retry after correcting input.
type ValidationError struct {
	Reason  string
	Message string

	// Set for insufficient_quantity failures.
	Item      string
	Available int64
	Requested int64
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Limits holds the gem deposit constraints, overridable via config.
type Limits struct {
	MinGemDeposit      int64
	MaxGemDeposit      int64
	GemDepositMultiple int64
}

// DefaultLimits returns the standard deposit constraints.
func DefaultLimits() Limits {
	return Limits{
		MinGemDeposit:      MinGemDeposit,
		MaxGemDeposit:      MaxGemDeposit,
		GemDepositMultiple: GemDepositMultiple,
	}
}

// TradeValidator decides whether a proposed trade is admissible. It is pure:
// the supported set and values are supplied at construction, and validation
// reads nothing else.
type TradeValidator struct {
	supported map[string]struct{}
	values    map[string]int64
	limits    Limits
}

// NewTradeValidator builds a validator with the default limits. Supported
// names are matched case-insensitively against canonical display names.
func NewTradeValidator(supported []string, values map[string]int64) *TradeValidator {
	return NewTradeValidatorWithLimits(supported, values, DefaultLimits())
}

// NewTradeValidatorWithLimits builds a validator with custom gem limits.
func NewTradeValidatorWithLimits(supported []string, values map[string]int64, limits Limits) *TradeValidator {
	set := make(map[string]struct{}, len(supported))
	for _, name := range supported {
		set[strings.ToLower(name)] = struct{}{}
	}
	return &TradeValidator{supported: set, values: values, limits: limits}
}

// ValidateDeposit checks a deposit trade. Checks run in a fixed order so
// error messages are deterministic: item quantities, item support, gem
// bounds, then emptiness.
func (v *TradeValidator) ValidateDeposit(t domain.Trade) error {
	if err := validQuantities(t.Items); err != nil {
		return err
	}

	var unsupported []string
	for _, item := range t.Items {
		if _, ok := v.supported[item.Key()]; !ok {
			unsupported = append(unsupported, item.DisplayName())
		}
	}
	if len(unsupported) > 0 {
		return &ValidationError{
			Reason:  ReasonUnsupportedItem,
			Message: fmt.Sprintf("unsupported items: %s", strings.Join(unsupported, ", ")),
		}
	}

	if t.Gems > 0 {
		if t.Gems < v.limits.MinGemDeposit {
			return &ValidationError{
				Reason:  ReasonBelowMinimum,
				Message: fmt.Sprintf("minimum gem deposit is %d", v.limits.MinGemDeposit),
			}
		}
		if t.Gems > v.limits.MaxGemDeposit {
			return &ValidationError{
				Reason:  ReasonAboveMaximum,
				Message: fmt.Sprintf("maximum gem deposit is %d", v.limits.MaxGemDeposit),
			}
		}
		if t.Gems%v.limits.GemDepositMultiple != 0 {
			return &ValidationError{
				Reason:  ReasonNotAMultiple,
				Message: fmt.Sprintf("gems must be a multiple of %d", v.limits.GemDepositMultiple),
			}
		}
	}

	if len(t.Items) == 0 && t.Gems == 0 {
		return &ValidationError{
			Reason:  ReasonEmptyDeposit,
			Message: "nothing to deposit",
		}
	}

	return nil
}

// ValidateWithdraw checks a withdrawal against an inventory snapshot keyed by
// canonical item name. Gems are never withdrawable.
func (v *TradeValidator) ValidateWithdraw(t domain.Trade, inventory map[string]int64) error {
	if err := validQuantities(t.Items); err != nil {
		return err
	}

	for _, item := range t.Items {
		available := inventory[item.Key()]
		if available < item.Quantity {
			return &ValidationError{
				Reason: ReasonInsufficientQuantity,
				Message: fmt.Sprintf("not enough %q: available %d, requested %d",
					item.DisplayName(), available, item.Quantity),
				Item:      item.DisplayName(),
				Available: available,
				Requested: item.Quantity,
			}
		}
	}

	if t.Gems > 0 {
		return &ValidationError{
			Reason:  ReasonGemsNotWithdrawable,
			Message: "gems cannot be withdrawn",
		}
	}

	if len(t.Items) == 0 {
		return &ValidationError{
			Reason:  ReasonEmptyWithdrawal,
			Message: "nothing to withdraw",
		}
	}

	return nil
}

// DepositValue sums catalog values over the trade items. Unknown names count
// as zero; unsupported-item rejection already happened in ValidateDeposit.
func (v *TradeValidator) DepositValue(items []domain.TradeItem) int64 {
	var total int64
	for _, item := range items {
		total += v.values[item.DisplayName()] * item.Quantity
	}
	return total
}

// validQuantities rejects any item with a quantity below 1. The ledger moves
// quantities in single increment-by-N statements, so a zero or negative
// quantity would flow straight into the UPDATE and invert the decrement.
func validQuantities(items []domain.TradeItem) error {
	for _, item := range items {
		if item.Quantity < 1 {
			return &ValidationError{
				Reason:    ReasonInvalidQuantity,
				Message:   fmt.Sprintf("quantity for %q must be at least 1", item.DisplayName()),
				Item:      item.DisplayName(),
				Requested: item.Quantity,
			}
		}
	}
	return nil
}
