package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	m := Money{Cents: 1250}
	if got := m.Mul(3); got.Cents != 3750 {
		t.Fatalf("Mul = %d", got.Cents)
	}
	if got := m.Add(Money{Cents: 5}); got.Cents != 1255 {
		t.Fatalf("Add = %d", got.Cents)
	}
	if got := m.String(); got != "12.50" {
		t.Fatalf("String = %s", got)
	}
	if got := m.Float64(); got != 12.5 {
		t.Fatalf("Float64 = %v", got)
	}
}

func TestMoneyOverflow(t *testing.T) {
	price := Money{Cents: 10_000_000}
	if _, err := price.Times(1 << 40); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("Times: expected ErrAmountTooLarge, got %v", err)
	}
	if got := price.Mul(1 << 40); got.Cents != MaxAmountCents {
		t.Fatalf("Mul should clamp, got %d", got.Cents)
	}
	if got, err := price.Times(3); err != nil || got.Cents != 30_000_000 {
		t.Fatalf("Times(3) = %d (err=%v)", got.Cents, err)
	}
	if got := (Money{Cents: math.MaxInt64 - 1}).Add(Money{Cents: 10}); got.Cents != math.MaxInt64 {
		t.Fatalf("Add should saturate, got %d", got.Cents)
	}
	if err := (Money{Cents: MaxAmountCents + 1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Validate above max: got %v", err)
	}
	if _, err := ParseDecimalToCents("99999999999999999"); err == nil {
		t.Fatalf("expected error above max amount")
	}
}

func TestMoneyDivRound(t *testing.T) {
	cases := []struct {
		total int64
		n     int64
		want  int64
	}{
		{1000, 3, 333},
		{2000, 3, 667},
		{5, 2, 3}, // 0.025 rounds half-up
		{0, 4, 0},
		{100, 0, 0},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.total}).DivRound(tc.n); got.Cents != tc.want {
			t.Fatalf("%d/%d = %d, want %d", tc.total, tc.n, got.Cents, tc.want)
		}
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	m, err := MoneyFromDecimal(decimal.RequireFromString("19.995"))
	if err != nil || m.Cents != 2000 {
		t.Fatalf("got %d (err=%v)", m.Cents, err)
	}
	if _, err := MoneyFromDecimal(decimal.NewFromInt(-1)); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1250})
	if err != nil || string(b) != "12.5" {
		t.Fatalf("marshal = %s (err=%v)", b, err)
	}
	var m Money
	for _, in := range []string{`12.5`, `"12,50"`} {
		if err := json.Unmarshal([]byte(in), &m); err != nil || m.Cents != 1250 {
			t.Fatalf("unmarshal %s = %d (err=%v)", in, m.Cents, err)
		}
	}
	if err := json.Unmarshal([]byte(`-3`), &m); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}
