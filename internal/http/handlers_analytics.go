package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"saletrack/internal/analytics"
	"saletrack/internal/core"
	applog "saletrack/internal/log"
)

// maxTopLimit caps ?limit= on the top-items endpoint.
const maxTopLimit = 100

type totalResponse struct {
	Total core.Money `json:"total"`
}

func (s *Server) handleTodayTotal(w http.ResponseWriter, r *http.Request) {
	s.writeTotal(w, r, s.sales.TodayTotal)
}

func (s *Server) handleWeekTotal(w http.ResponseWriter, r *http.Request) {
	s.writeTotal(w, r, s.sales.WeekTotal)
}

func (s *Server) handleMonthTotal(w http.ResponseWriter, r *http.Request) {
	s.writeTotal(w, r, s.sales.MonthTotal)
}

func (s *Server) writeTotal(w http.ResponseWriter, r *http.Request, total func(context.Context, core.Date) (core.Money, error)) {
	m, err := total(r.Context(), s.today())
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, totalResponse{Total: m})
}

// handleTopItems reads ?limit= (default 5, capped at 100; 0 yields an empty list).
func (s *Server) handleTopItems(w http.ResponseWriter, r *http.Request) {
	limit := analytics.DefaultTopLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, applog.OpRead, &core.ValidationError{Field: "limit", Err: strconv.ErrSyntax})
			return
		}
		limit = min(n, maxTopLimit)
	}
	items, err := s.sales.TopSellingItems(r.Context(), limit)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.sales.SalesByCategory(r.Context())
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rows))
}

func (s *Server) handleByPaymentMethod(w http.ResponseWriter, r *http.Request) {
	rows, err := s.sales.SalesByPaymentMethod(r.Context())
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rows))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.sales.Dashboard(r.Context(), s.today())
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	d.TopItems = nonNil(d.TopItems)
	d.ByCategory = nonNil(d.ByCategory)
	d.ByPaymentMethod = nonNil(d.ByPaymentMethod)
	d.Recent = nonNil(d.Recent)
	writeJSON(w, http.StatusOK, d)
}
