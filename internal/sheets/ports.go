package sheets

import (
	"context"

	"saletrack/internal/report"
)

// Ports for outbound adapters.
type (
	// ReportWriter serializes a built report to a spreadsheet target and
	// returns where it went: a file path, a sheet reference, or a memory key.
	ReportWriter interface {
		WriteReport(ctx context.Context, r report.Report) (ref string, err error)
	}
)

// Target names a ReportWriter implementation.
type Target string

const (
	TargetXLSX   Target = "xlsx"
	TargetSheets Target = "sheets"
	TargetMemory Target = "memory"
)

func (t Target) IsValid() bool {
	switch t {
	case TargetXLSX, TargetSheets, TargetMemory:
		return true
	}
	return false
}
