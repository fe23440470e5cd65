// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents. Parsing and formatting go through
// shopspring/decimal so that any amount with two fraction digits
// round-trips exactly.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxCents is the largest accepted magnitude of a single amount
// (one trillion units). Sums of up to ninety thousand maximal amounts still
// fit in an int64.
const MaxCents int64 = 1e14

var maxCents = decimal.NewFromInt(MaxCents)

// centsOf rounds d half-up to cents, rejecting magnitudes above MaxCents.
func centsOf(d decimal.Decimal) (int64, error) {
	cents := d.Round(2).Shift(2)
	if cents.Abs().GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseAmount converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up on the third decimal place. Zero, negative and malformed inputs
// yield ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,345") -> 1235 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal rounds d to cents; the result must be strictly positive
// and at most MaxCents.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents, err := centsOf(d)
	if err != nil || cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// Decimal returns the amount as a decimal with two fraction digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount as "1234.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Float returns the amount as a float64 for chart series.
// Use cents for calculations.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}
