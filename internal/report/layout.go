package report

import (
	"fmt"

	"saletrack/internal/core"
)

// Style is the presentational role of a cell. Writers map it to fonts and fills.
type Style int

const (
	StylePlain    Style = iota
	StyleTitle          // 18pt bold, centered
	StyleSubtitle       // 14pt bold, centered
	StyleRange          // 12pt, centered
	StyleSection        // 12pt bold
	StyleHeader         // bold, grey fill, thin bottom border
	StyleStrong         // bold
)

// Cell holds a string, an int64 or a core.Money value.
type Cell struct {
	Value any
	Style Style
}

// Row is one spreadsheet row. Merged rows span every column.
type Row struct {
	Cells  []Cell
	Merged bool
}

// Grid is a report laid out row by row, starting at the first row.
type Grid struct {
	Rows     []Row
	Widths   []float64
	Currency string
}

// Columns is the number of columns in the grid.
func (g Grid) Columns() int { return len(g.Widths) }

// Widths are the column widths of the detail table.
var Widths = []float64{12, 25, 15, 10, 12, 12, 15, 20}

// DetailHeader names the columns of the transaction table.
var DetailHeader = []string{"Date", "Item Name", "Category", "Qty", "Unit Price", "Total", "Payment", "Customer"}

// Section headings.
const (
	SubtitleText     = "SALES REPORT"
	SummaryHeading   = "SUMMARY"
	CategoryHeading  = "SALES BY CATEGORY"
	PaymentHeading   = "SALES BY PAYMENT METHOD"
	DetailHeading    = "DETAILED TRANSACTIONS"
	TransactionsText = "Total Transactions:"
	RevenueText      = "Total Revenue:"
	AverageText      = "Average Sale:"
)

// Layout places the report into rows: a merged header block, the summary,
// the two breakdowns and the detail table, in that order.
func Layout(r Report) Grid {
	var rows []Row
	blank := func(n int) {
		for i := 0; i < n; i++ {
			rows = append(rows, Row{})
		}
	}
	merged := func(v string, st Style) {
		rows = append(rows, Row{Cells: []Cell{{Value: v, Style: st}}, Merged: true})
	}
	pair := func(label string, v any, st Style) {
		rows = append(rows, Row{Cells: []Cell{{Value: label}, {Value: v, Style: st}}})
	}
	heading := func(v string) {
		rows = append(rows, Row{Cells: []Cell{{Value: v, Style: StyleSection}}})
	}

	merged(r.Title, StyleTitle)
	blank(1)
	merged(SubtitleText, StyleSubtitle)
	merged(r.RangeLabel, StyleRange)
	blank(1)

	heading(SummaryHeading)
	pair(TransactionsText, int64(r.Summary.Count), StylePlain)
	pair(RevenueText, r.Summary.Total, StyleStrong)
	pair(AverageText, r.Summary.Average, StylePlain)
	blank(1)

	heading(CategoryHeading)
	for _, c := range r.CategoryBreakdown {
		pair(c.Name, c.Amount, StylePlain)
	}
	blank(1)

	heading(PaymentHeading)
	for _, p := range r.PaymentBreakdown {
		pair(p.Name, p.Amount, StylePlain)
	}
	blank(2)

	heading(DetailHeading)
	header := make([]Cell, len(DetailHeader))
	for i, h := range DetailHeader {
		header[i] = Cell{Value: h, Style: StyleHeader}
	}
	rows = append(rows, Row{Cells: header})

	for _, t := range r.Transactions {
		rows = append(rows, Row{Cells: []Cell{
			{Value: longDate(t.Date)},
			{Value: t.Item},
			{Value: t.Category},
			{Value: t.Qty},
			{Value: t.UnitPrice},
			{Value: t.Total},
			{Value: t.Payment},
			{Value: t.Customer},
		}})
	}

	return Grid{Rows: rows, Widths: append([]float64(nil), Widths...), Currency: r.Currency}
}

// Text renders a cell value for targets that take plain strings.
func (c Cell) Text(currency string) string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case core.Money:
		if currency == "" {
			return v.String()
		}
		return currency + " " + v.Decimal().StringFixed(2)
	default:
		return fmt.Sprint(v)
	}
}
