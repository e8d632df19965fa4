// Command saletrack-report generates a single sales report and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"saletrack/internal/backend"
	"saletrack/internal/cli"
	"saletrack/internal/core"
	applog "saletrack/internal/log"
	"saletrack/internal/report"
	"saletrack/internal/services"
	"saletrack/internal/sheets"
)

func main() {
	var (
		mode   = flag.String("mode", string(report.ModeTwoWeek), "report mode: two-week, monthly or custom")
		start  = flag.String("start", "", "custom range start (YYYY-MM-DD)")
		end    = flag.String("end", "", "custom range end (YYYY-MM-DD)")
		title  = flag.String("title", "", "report title (defaults to BUSINESS_NAME)")
		out    = flag.String("out", "", "output directory for xlsx reports (overrides REPORT_DIR)")
		target = flag.String("target", "", "report target: xlsx, sheets or memory (defaults to REPORT_TARGET)")
	)
	flag.Parse()

	base, cfg := cli.Bootstrap()
	logger := base.WithComponent(applog.ComponentReports)
	if *out != "" {
		cfg.ReportDir = *out
	}

	req, err := buildRequest(*mode, *start, *end, *title, *target)
	if err != nil {
		logger.Error("Invalid report arguments", applog.FieldError, err)
		os.Exit(2)
	}

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := backend.NewFactory(base).CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", applog.FieldError, err)
		}
	}()

	result, err := res.Reports.Generate(ctx, req, core.DateOf(time.Now()))
	switch {
	case errors.Is(err, core.ErrEmptyReport):
		fmt.Fprintln(os.Stderr, core.MsgEmptyReport)
		_ = res.Cleanup()
		os.Exit(3)
	case err != nil:
		logger.Error("Report generation failed", applog.FieldError, err)
		_ = res.Cleanup()
		os.Exit(1)
	}

	logger.Debug("Report CLI finished", applog.FieldReportRef, result.Ref)
	fmt.Printf("%s (%d transactions, %s)\n", result.Ref, result.Report.Summary.Count, result.Report.Range.Label())
}

func buildRequest(mode, start, end, title, target string) (services.ReportRequest, error) {
	m, err := report.ParseMode(mode)
	if err != nil {
		return services.ReportRequest{}, err
	}
	req := services.ReportRequest{Mode: m, Title: title, Target: sheets.Target(target)}
	if start != "" {
		if req.Start, err = core.ParseDate(start); err != nil {
			return services.ReportRequest{}, fmt.Errorf("-start: %w", err)
		}
	}
	if end != "" {
		if req.End, err = core.ParseDate(end); err != nil {
			return services.ReportRequest{}, fmt.Errorf("-end: %w", err)
		}
	}
	return req, nil
}
