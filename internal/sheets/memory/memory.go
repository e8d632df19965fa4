// Package memory keeps written reports in process, for tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"saletrack/internal/report"
	ports "saletrack/internal/sheets"
)

type Writer struct {
	mu      sync.Mutex
	reports []report.Report
}

var _ ports.ReportWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// WriteReport stores the report and returns a synthetic reference.
func (w *Writer) WriteReport(_ context.Context, r report.Report) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, r)
	return fmt.Sprintf("mem:%d:%s", len(w.reports), r.Filename()), nil
}

// Reports returns the reports written so far.
func (w *Writer) Reports() []report.Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]report.Report(nil), w.reports...)
}
