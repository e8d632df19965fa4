// Package excel writes sales reports as .xlsx workbooks.
package excel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"saletrack/internal/core"
	"saletrack/internal/report"
	ports "saletrack/internal/sheets"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the report.
const SheetName = "Sales Report"

type Writer struct {
	dir string
}

var _ ports.ReportWriter = (*Writer)(nil)

// New returns a writer saving workbooks under dir.
func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteReport saves the report as dir/Sales_Report_<start>_to_<end>.xlsx and returns the path.
func (w *Writer) WriteReport(ctx context.Context, r report.Report) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	f, err := build(r)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(w.dir, r.Filename())
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook %s: %w", path, err)
	}

	slog.InfoContext(ctx, "Report written",
		"path", path,
		"transactions", len(r.Transactions),
		"range", r.Range.String())
	return path, nil
}

// Render streams the workbook for r to out.
func Render(r report.Report, out io.Writer) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(r report.Report) (*excelize.File, error) {
	g := report.Layout(r)
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	styles, err := newStyles(f, g.Currency)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := fill(f, g, styles); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

type styleSet struct {
	byStyle   map[report.Style]int
	money     int
	moneyBold int
}

func newStyles(f *excelize.File, currency string) (styleSet, error) {
	center := &excelize.Alignment{Horizontal: "center"}
	defs := map[report.Style]*excelize.Style{
		report.StyleTitle:    {Font: &excelize.Font{Bold: true, Size: 18}, Alignment: center},
		report.StyleSubtitle: {Font: &excelize.Font{Bold: true, Size: 14}, Alignment: center},
		report.StyleRange:    {Font: &excelize.Font{Size: 12}, Alignment: center},
		report.StyleSection:  {Font: &excelize.Font{Bold: true, Size: 12}},
		report.StyleStrong:   {Font: &excelize.Font{Bold: true}},
		report.StyleHeader: {
			Font:   &excelize.Font{Bold: true},
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E0E0E0"}},
			Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
		},
	}

	set := styleSet{byStyle: map[report.Style]int{}}
	for st, def := range defs {
		id, err := f.NewStyle(def)
		if err != nil {
			return styleSet{}, fmt.Errorf("create style: %w", err)
		}
		set.byStyle[st] = id
	}

	numFmt := moneyFormat(currency)
	var err error
	if set.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return styleSet{}, fmt.Errorf("create money style: %w", err)
	}
	if set.moneyBold, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt, Font: &excelize.Font{Bold: true}}); err != nil {
		return styleSet{}, fmt.Errorf("create money style: %w", err)
	}
	return set, nil
}

func moneyFormat(currency string) string {
	if currency == "" {
		return "#,##0.00"
	}
	return `"` + currency + `" #,##0.00`
}

func fill(f *excelize.File, g report.Grid, styles styleSet) error {
	for i, w := range g.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(g.Columns())
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}

	for i, row := range g.Rows {
		rowNum := i + 1
		if row.Merged {
			if err := f.MergeCell(SheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum)); err != nil {
				return fmt.Errorf("merge row %d: %w", rowNum, err)
			}
		}
		for j, c := range row.Cells {
			ref, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := setCell(f, ref, c, styles); err != nil {
				return fmt.Errorf("cell %s: %w", ref, err)
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, ref string, c report.Cell, styles styleSet) error {
	style, styled := styles.byStyle[c.Style]
	switch v := c.Value.(type) {
	case core.Money:
		if err := f.SetCellFloat(SheetName, ref, v.Float64(), -1, 64); err != nil {
			return err
		}
		style, styled = styles.money, true
		if c.Style == report.StyleStrong {
			style = styles.moneyBold
		}
	case nil:
	default:
		if err := f.SetCellValue(SheetName, ref, v); err != nil {
			return err
		}
	}
	if !styled {
		return nil
	}
	return f.SetCellStyle(SheetName, ref, ref, style)
}
