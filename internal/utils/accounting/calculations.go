package accounting

import (
	"fmt"

	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxFractionDigits is the precision of line item amounts.
const MaxFractionDigits = 2

// HasValidPrecision reports whether amount carries no more than MaxFractionDigits fractional digits.
func HasValidPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(MaxFractionDigits))
}

// SumByType returns the debit and credit totals of items.
func SumByType(items []domain.LineItem) (decimal.Decimal, decimal.Decimal) {
	debits, credits := decimal.Zero, decimal.Zero
	for _, item := range items {
		switch item.Type {
		case domain.Debit:
			debits = debits.Add(item.Amount)
		case domain.Credit:
			credits = credits.Add(item.Amount)
		}
	}
	return debits, credits
}

// TotalAmount is the sum of all item amounts regardless of side.
func TotalAmount(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// ValidateBalance checks that the debit and credit sides of a disbursement are equal.
func ValidateBalance(items []domain.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("disbursement must have at least one line item")
	}

	for _, item := range items {
		// Ensure amount is positive
		if !item.Amount.IsPositive() {
			return fmt.Errorf("line item amount must be positive for account ID %s", item.AccountID)
		}
	}

	debits, credits := SumByType(items)
	if !debits.Equal(credits) {
		return fmt.Errorf("debits (%s) and credits (%s) do not balance", debits.StringFixed(MaxFractionDigits), credits.StringFixed(MaxFractionDigits))
	}

	return nil
}
