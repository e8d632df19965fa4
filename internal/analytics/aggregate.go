// Package analytics derives sales statistics: period totals, top sellers
// and category and payment breakdowns. Everything here only reads sales.
package analytics

import (
	"sort"

	"saletrack/internal/core"
)

// DefaultTopLimit is the number of top sellers returned when no limit is given.
const DefaultTopLimit = 5

// WeekWindowDays is how far back the rolling week reaches. The window is
// inclusive at both ends, so it spans WeekWindowDays+1 calendar days.
const WeekWindowDays = 7

// Summary holds the headline figures of a set of sales.
type Summary struct {
	Count   int        `json:"count"`
	Total   core.Money `json:"total"`
	Average core.Money `json:"average"`
}

// SumInRange totals the sales dated within [start, end].
func SumInRange(sales []core.Sale, start, end core.Date) core.Money {
	var total core.Money
	for _, s := range sales {
		if s.Date.Within(start, end) {
			total = total.Add(s.TotalAmount)
		}
	}
	return total
}

// SumSince totals the sales dated on or after start.
func SumSince(sales []core.Sale, start core.Date) core.Money {
	var total core.Money
	for _, s := range sales {
		if s.Date.Compare(start) >= 0 {
			total = total.Add(s.TotalAmount)
		}
	}
	return total
}

// Summarize counts and totals sales. Average is total/count rounded half-up to the cent.
func Summarize(sales []core.Sale) Summary {
	var sum Summary
	for _, s := range sales {
		sum.Count++
		sum.Total = sum.Total.Add(s.TotalAmount)
	}
	sum.Average = sum.Total.DivRound(int64(sum.Count))
	return sum
}

type itemKey struct {
	name     string
	category string
}

// TopSellingItems groups sales by item and category and returns the limit
// groups with the highest quantity. Ties keep the order in which the groups
// first appear in sales.
func TopSellingItems(sales []core.Sale, limit int) []core.TopItem {
	if limit <= 0 {
		return []core.TopItem{}
	}
	idx := map[itemKey]int{}
	items := []core.TopItem{}
	for _, s := range sales {
		k := itemKey{s.ItemName, s.Category}
		i, ok := idx[k]
		if !ok {
			i = len(items)
			idx[k] = i
			items = append(items, core.TopItem{ItemName: s.ItemName, Category: s.Category})
		}
		items[i].TotalQuantity += s.Quantity
		items[i].TotalRevenue = items[i].TotalRevenue.Add(s.TotalAmount)
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].TotalQuantity > items[b].TotalQuantity
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// ByCategory counts and totals sales per category, highest total first.
func ByCategory(sales []core.Sale) []core.CategorySummary {
	idx := map[string]int{}
	out := []core.CategorySummary{}
	for _, s := range sales {
		i, ok := idx[s.Category]
		if !ok {
			i = len(out)
			idx[s.Category] = i
			out = append(out, core.CategorySummary{Category: s.Category})
		}
		out[i].Count++
		out[i].Total = out[i].Total.Add(s.TotalAmount)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.Cents > out[b].Total.Cents
	})
	return out
}

// ByPaymentMethod counts and totals sales per payment method, ordered by method name.
func ByPaymentMethod(sales []core.Sale) []core.PaymentSummary {
	idx := map[string]int{}
	out := []core.PaymentSummary{}
	for _, s := range sales {
		i, ok := idx[s.PaymentMethod]
		if !ok {
			i = len(out)
			idx[s.PaymentMethod] = i
			out = append(out, core.PaymentSummary{PaymentMethod: s.PaymentMethod})
		}
		out[i].Count++
		out[i].Total = out[i].Total.Add(s.TotalAmount)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].PaymentMethod < out[b].PaymentMethod
	})
	return out
}

// CategoryTotals sums sales per category in order of first occurrence.
func CategoryTotals(sales []core.Sale) []core.CategoryAmount {
	return totalsBy(sales, func(s core.Sale) string { return s.Category })
}

// PaymentTotals sums sales per payment method in order of first occurrence.
func PaymentTotals(sales []core.Sale) []core.CategoryAmount {
	return totalsBy(sales, func(s core.Sale) string { return s.PaymentMethod })
}

func totalsBy(sales []core.Sale, key func(core.Sale) string) []core.CategoryAmount {
	idx := map[string]int{}
	out := []core.CategoryAmount{}
	for _, s := range sales {
		k := key(s)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, core.CategoryAmount{Name: k})
		}
		out[i].Amount = out[i].Amount.Add(s.TotalAmount)
	}
	return out
}
