package domain

import (
	"fmt"

	dErrors "vocilia/pkg/domain-errors"
)

// Money is an amount in currency minor units (öre for SEK). All reward math
// happens in minor units; formatting to major units is presentation only.
type Money int64

// ParseMoney validates an externally supplied amount in minor units.
// Errors: CodeInvalidInput when the amount is negative.
func ParseMoney(minor int64) (Money, error) {
	if minor < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount cannot be negative")
	}
	return Money(minor), nil
}

// Minor returns the raw minor-unit value.
func (m Money) Minor() int64 { return int64(m) }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// PerMille returns m × ‰ rounded half-up. Percentages are carried as
// per-mille integers (100 ‰ = 10%) so policy tables stay in integer math.
func (m Money) PerMille(permille int64) Money {
	if m <= 0 || permille <= 0 {
		return 0
	}
	return Money((int64(m)*permille + 500) / 1000)
}

// Min returns the smaller of two amounts.
func (m Money) Min(other Money) Money {
	if other < m {
		return other
	}
	return m
}

// String formats the amount as major.minor, e.g. "25.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
