package core

import "strings"

// SaleFilter narrows a list of sales. Zero-valued fields match everything.
type SaleFilter struct {
	Query         string // substring of item or customer name, case-insensitive
	Category      string
	PaymentMethod string
	From          Date
	To            Date
}

func (f SaleFilter) IsEmpty() bool {
	return f == SaleFilter{}
}

func (f SaleFilter) Matches(s Sale) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(s.ItemName), q) &&
			!strings.Contains(strings.ToLower(s.CustomerName), q) {
			return false
		}
	}
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
		return false
	}
	if !f.From.IsZero() && s.Date.Compare(f.From) < 0 {
		return false
	}
	if !f.To.IsZero() && s.Date.Compare(f.To) > 0 {
		return false
	}
	return true
}

// Apply returns the sales matching f, preserving order.
func (f SaleFilter) Apply(sales []Sale) []Sale {
	if f.IsEmpty() {
		return sales
	}
	out := make([]Sale, 0, len(sales))
	for _, s := range sales {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}
