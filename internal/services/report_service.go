package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"saletrack/internal/amqp"
	"saletrack/internal/core"
	"saletrack/internal/report"
	"saletrack/internal/sheets"
)

// ErrTargetUnavailable is returned for a report target with no configured writer.
var ErrTargetUnavailable = errors.New("report target not configured")

// ReportRequest describes which report to generate and where to put it.
type ReportRequest struct {
	Mode   report.Mode   `json:"mode"`
	Start  core.Date     `json:"start"`
	End    core.Date     `json:"end"`
	Title  string        `json:"title"`
	Target sheets.Target `json:"target"`
}

// ReportResult is a generated report and the writer's reference to it.
type ReportResult struct {
	Report report.Report `json:"report"`
	Ref    string        `json:"ref"`
}

type ReportService struct {
	builder       *report.Builder
	writers       map[sheets.Target]sheets.ReportWriter
	defaultTitle  string
	defaultTarget sheets.Target
	publisher     EventPublisher
}

// NewReportService returns a service building from store. Writers are registered per target.
func NewReportService(store report.RangeLister, currency, defaultTitle string, publisher EventPublisher) *ReportService {
	if defaultTitle == "" {
		defaultTitle = report.DefaultTitle
	}
	return &ReportService{
		builder:       report.NewBuilder(store, currency),
		writers:       map[sheets.Target]sheets.ReportWriter{},
		defaultTitle:  defaultTitle,
		defaultTarget: sheets.TargetXLSX,
		publisher:     publisher,
	}
}

// Register sets the writer for a target. The first registered target becomes the default.
func (s *ReportService) Register(t sheets.Target, w sheets.ReportWriter) {
	if len(s.writers) == 0 {
		s.defaultTarget = t
	}
	s.writers[t] = w
}

// DefaultTarget is used when a request names no target.
func (s *ReportService) DefaultTarget() sheets.Target {
	return s.defaultTarget
}

// Targets lists the configured targets.
func (s *ReportService) Targets() []sheets.Target {
	out := make([]sheets.Target, 0, len(s.writers))
	for _, t := range []sheets.Target{sheets.TargetXLSX, sheets.TargetSheets, sheets.TargetMemory} {
		if _, ok := s.writers[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Build resolves the range and builds the report without writing it.
func (s *ReportService) Build(ctx context.Context, req ReportRequest, today core.Date) (report.Report, error) {
	rng, err := report.ResolveRange(req.Mode, today, req.Start, req.End)
	if err != nil {
		return report.Report{}, err
	}
	title := req.Title
	if title == "" {
		title = s.defaultTitle
	}
	return s.builder.Build(ctx, rng, title)
}

// Generate builds the report and writes it to the requested target. An empty
// range returns core.ErrEmptyReport and nothing is written.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest, today core.Date) (ReportResult, error) {
	target := req.Target
	if target == "" {
		target = s.defaultTarget
	}
	w, ok := s.writers[target]
	if !ok {
		return ReportResult{}, &core.ValidationError{Field: "target", Err: fmt.Errorf("%w: %q", ErrTargetUnavailable, target)}
	}

	r, err := s.Build(ctx, req, today)
	if err != nil {
		return ReportResult{}, err
	}

	ref, err := w.WriteReport(ctx, r)
	if err != nil {
		return ReportResult{}, fmt.Errorf("write report to %s: %w", target, err)
	}

	slog.InfoContext(ctx, "Report generated",
		"target", target,
		"ref", ref,
		"range", r.Range.String(),
		"transactions", r.Summary.Count)

	if s.publisher != nil {
		msg := amqp.NewSaleEventMessage(amqp.ReportGenerated, 0)
		msg.Ref = ref
		if err := s.publisher.PublishEvent(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish report event", "ref", ref, "error", err)
		}
	}

	return ReportResult{Report: r, Ref: ref}, nil
}
