package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"saletrack/internal/core"
	applog "saletrack/internal/log"
	"saletrack/internal/report"
	"saletrack/internal/services"
	"saletrack/internal/sheets"
	"saletrack/internal/sheets/excel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportBody is the JSON form of a report request. Mode accepts the same
// spellings as report.ParseMode; empty means two-week.
type reportBody struct {
	Mode   string    `json:"mode"`
	Start  core.Date `json:"start"`
	End    core.Date `json:"end"`
	Title  string    `json:"title"`
	Target string    `json:"target"`
}

func (b reportBody) request() (services.ReportRequest, error) {
	mode := report.ModeTwoWeek
	if strings.TrimSpace(b.Mode) != "" {
		m, err := report.ParseMode(b.Mode)
		if err != nil {
			return services.ReportRequest{}, err
		}
		mode = m
	}
	return services.ReportRequest{
		Mode:   mode,
		Start:  b.Start,
		End:    b.End,
		Title:  sanitizeInput(b.Title),
		Target: sheets.Target(strings.ToLower(strings.TrimSpace(b.Target))),
	}, nil
}

type reportRefResponse struct {
	Ref      string `json:"ref"`
	Filename string `json:"filename"`
	Count    int    `json:"transactions"`
}

// handlePreviewReport returns the built report as JSON without writing it.
func (s *Server) handlePreviewReport(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		writeError(w, r, applog.OpReport, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		writeError(w, r, applog.OpReport, err)
		return
	}
	q := r.URL.Query()
	req, err := reportBody{Mode: q.Get("mode"), Start: start, End: end, Title: q.Get("title")}.request()
	if err != nil {
		writeError(w, r, applog.OpReport, err)
		return
	}
	rep, err := s.reports.Build(r.Context(), req, s.today())
	if err != nil {
		s.countEmpty(err)
		writeError(w, r, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleGenerateReport streams an xlsx attachment for the xlsx target and
// writes through the configured writer for any other target.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var body reportBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, applog.OpReport, err)
		return
	}
	req, err := body.request()
	if err != nil {
		writeError(w, r, applog.OpReport, err)
		return
	}
	if req.Target == "" {
		req.Target = s.reports.DefaultTarget()
	}

	if req.Target == sheets.TargetXLSX {
		s.streamWorkbook(w, r, req)
		return
	}

	res, err := s.reports.Generate(r.Context(), req, s.today())
	if err != nil {
		s.countEmpty(err)
		writeError(w, r, applog.OpReport, err)
		return
	}
	s.metrics.reports.WithLabelValues(string(req.Target)).Inc()
	s.logger.WithComponent(applog.ComponentReports).InfoContext(r.Context(), "Report written",
		applog.FieldReportRef, res.Ref,
		applog.FieldReportTarget, req.Target)
	writeJSON(w, http.StatusCreated, reportRefResponse{
		Ref:      res.Ref,
		Filename: res.Report.Filename(),
		Count:    res.Report.Summary.Count,
	})
}

// streamWorkbook renders into memory first so a failure can still produce a JSON error.
func (s *Server) streamWorkbook(w http.ResponseWriter, r *http.Request, req services.ReportRequest) {
	rep, err := s.reports.Build(r.Context(), req, s.today())
	if err != nil {
		s.countEmpty(err)
		writeError(w, r, applog.OpReport, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.Render(rep, &buf); err != nil {
		writeError(w, r, applog.OpReport, fmt.Errorf("render workbook: %w", err))
		return
	}

	s.metrics.reports.WithLabelValues(string(sheets.TargetXLSX)).Inc()
	s.logger.WithComponent(applog.ComponentReports).InfoContext(r.Context(), "Report downloaded",
		applog.FieldRange, rep.Range.String(),
		applog.FieldReportTarget, sheets.TargetXLSX,
		"transactions", rep.Summary.Count)

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) countEmpty(err error) {
	if errors.Is(err, core.ErrEmptyReport) {
		s.metrics.emptyReports.Inc()
	}
}
