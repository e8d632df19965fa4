// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Conversions to and from decimal text go
// through shopspring/decimal so that rounding is exact.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (2 decimal places).
type Money struct {
	Cents int64
}

// MaxAmountCents bounds any single price or line total (10 trillion major units).
const MaxAmountCents = 1_000_000_000_000_000

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(MaxAmountCents)
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up on the third decimal place. Zero is accepted, negative values are not.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("-1") -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return centsFromDecimal(d)
}

// ParseMoney parses a non-negative decimal amount.
func ParseMoney(s string) (Money, error) {
	c, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: c}, nil
}

// MoneyFromDecimal rounds d half-up to the cent.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	c, err := centsFromDecimal(d)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: c}, nil
}

func centsFromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	c := d.Mul(hundred).Round(0)
	if c.GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return c.IntPart(), nil
}

func (m Money) Validate() error {
	if m.Cents < 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o, saturating at the int64 limits instead of wrapping.
func (m Money) Add(o Money) Money {
	sum := m.Cents + o.Cents
	switch {
	case o.Cents > 0 && sum < m.Cents:
		return Money{Cents: math.MaxInt64}
	case o.Cents < 0 && sum > m.Cents:
		return Money{Cents: math.MinInt64}
	}
	return Money{Cents: sum}
}

// Times returns m multiplied by qty, or ErrAmountTooLarge when the product
// exceeds MaxAmountCents.
func (m Money) Times(qty int64) (Money, error) {
	p := decimal.NewFromInt(m.Cents).Mul(decimal.NewFromInt(qty))
	if p.Abs().GreaterThan(maxCents) {
		return Money{}, ErrAmountTooLarge
	}
	return Money{Cents: p.IntPart()}, nil
}

// Mul returns m multiplied by a quantity, clamped to MaxAmountCents.
// Validated inputs never reach the clamp.
func (m Money) Mul(qty int64) Money {
	p, err := m.Times(qty)
	if err != nil {
		if (m.Cents < 0) != (qty < 0) {
			return Money{Cents: -MaxAmountCents}
		}
		return Money{Cents: MaxAmountCents}
	}
	return p
}

// DivRound divides m by n, rounding half-up to the cent. n <= 0 yields zero.
func (m Money) DivRound(n int64) Money {
	if n <= 0 {
		return Money{}
	}
	q := m.Decimal().Div(decimal.NewFromInt(n)).Round(2)
	return Money{Cents: q.Mul(hundred).IntPart()}
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float64 returns the value in major units for display and spreadsheet cells.
// Use cents for calculations.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// String formats the amount with two decimals, e.g. "12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a plain JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*m = Money{}
		return nil
	}
	c, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = c
	return nil
}
