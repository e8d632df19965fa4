// Package report builds date-ranged sales reports and lays them out as a
// cell grid that spreadsheet writers render.
package report

import (
	"context"
	"fmt"

	"saletrack/internal/analytics"
	"saletrack/internal/core"
)

const (
	DefaultTitle    = "My Clothing Business"
	DefaultCurrency = "LKR"
	// NoCustomer is shown in place of an empty customer name.
	NoCustomer = "-"
)

// RangeLister is the range query of the Record Store.
type RangeLister interface {
	ListSalesByDateRange(ctx context.Context, start, end core.Date) ([]core.Sale, error)
}

// Report is a point-in-time summary of the sales in a date range.
type Report struct {
	Title             string                `json:"title"`
	Currency          string                `json:"currency"`
	Range             DateRange             `json:"range"`
	RangeLabel        string                `json:"range_label"`
	Summary           analytics.Summary     `json:"summary"`
	CategoryBreakdown []core.CategoryAmount `json:"category_breakdown"`
	PaymentBreakdown  []core.CategoryAmount `json:"payment_breakdown"`
	Transactions      []Transaction         `json:"transactions"`
}

// Transaction is one detail row of a report.
type Transaction struct {
	Date      core.Date  `json:"date"`
	Item      string     `json:"item"`
	Category  string     `json:"category"`
	Qty       int64      `json:"qty"`
	UnitPrice core.Money `json:"unit_price"`
	Total     core.Money `json:"total"`
	Payment   string     `json:"payment"`
	Customer  string     `json:"customer"`
}

// Filename is the export file name for the range.
func Filename(r DateRange) string {
	return fmt.Sprintf("Sales_Report_%s_to_%s.xlsx", r.Start, r.End)
}

// Filename is the export file name for the report.
func (r Report) Filename() string {
	return Filename(r.Range)
}

type Builder struct {
	store    RangeLister
	currency string
}

// NewBuilder returns a builder reading from store. An empty currency means DefaultCurrency.
func NewBuilder(store RangeLister, currency string) *Builder {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Builder{store: store, currency: currency}
}

// Build assembles the report for rng. A range without sales yields core.ErrEmptyReport.
func (b *Builder) Build(ctx context.Context, rng DateRange, title string) (Report, error) {
	sales, err := b.store.ListSalesByDateRange(ctx, rng.Start, rng.End)
	if err != nil {
		return Report{}, fmt.Errorf("load sales for %s: %w", rng, err)
	}
	if len(sales) == 0 {
		return Report{}, fmt.Errorf("build report for %s: %w", rng, core.ErrEmptyReport)
	}
	if title == "" {
		title = DefaultTitle
	}

	txs := make([]Transaction, len(sales))
	for i, s := range sales {
		customer := s.CustomerName
		if customer == "" {
			customer = NoCustomer
		}
		txs[i] = Transaction{
			Date:      s.Date,
			Item:      s.ItemName,
			Category:  s.Category,
			Qty:       s.Quantity,
			UnitPrice: s.UnitPrice,
			Total:     s.TotalAmount,
			Payment:   s.PaymentMethod,
			Customer:  customer,
		}
	}

	return Report{
		Title:             title,
		Currency:          b.currency,
		Range:             rng,
		RangeLabel:        rng.Label(),
		Summary:           analytics.Summarize(sales),
		CategoryBreakdown: analytics.CategoryTotals(sales),
		PaymentBreakdown:  analytics.PaymentTotals(sales),
		Transactions:      txs,
	}, nil
}
