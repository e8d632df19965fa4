package http

import (
	"net/http"

	"saletrack/internal/core"
	applog "saletrack/internal/log"
)

type idResponse struct {
	ID int64 `json:"id"`
}

type changedResponse struct {
	Changed int64 `json:"changed"`
}

func (s *Server) decodeSale(r *http.Request) (core.SaleInput, error) {
	var in core.SaleInput
	if err := decodeJSON(r, &in); err != nil {
		return core.SaleInput{}, err
	}
	return sanitizeSaleInput(in), nil
}

func (s *Server) handleAddSale(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeSale(r)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	id, err := s.sales.AddSale(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	s.metrics.saleMutations.WithLabelValues(applog.OpCreate).Inc()
	s.events.LogSaleSaved(r.Context(), applog.OpCreate, id, in.Sale())
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// handleListSales returns all sales newest first, narrowed by q, category,
// payment_method, from and to.
func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	filter := core.SaleFilter{
		Query:         sanitizeInput(q.Get("q")),
		Category:      sanitizeInput(q.Get("category")),
		PaymentMethod: sanitizeInput(q.Get("payment_method")),
		From:          from,
		To:            to,
	}
	sales, err := s.sales.ListSales(r.Context(), filter)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(sales))
}

func (s *Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	sale, err := s.sales.GetSale(r.Context(), id)
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (s *Server) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	in, err := s.decodeSale(r)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	changed, err := s.sales.UpdateSale(r.Context(), id, in)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	if changed > 0 {
		s.metrics.saleMutations.WithLabelValues(applog.OpUpdate).Inc()
		s.events.LogSaleSaved(r.Context(), applog.OpUpdate, id, in.Sale())
	}
	writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	changed, err := s.sales.DeleteSale(r.Context(), id)
	if err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	if changed > 0 {
		s.metrics.saleMutations.WithLabelValues(applog.OpDelete).Inc()
	}
	writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
}

// handleSalesByDateRange requires both start and end.
func (s *Server) handleSalesByDateRange(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	sales, err := s.sales.SalesByDateRange(r.Context(), start, end)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(sales))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.sales.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cats))
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	c, err := s.sales.AddCategory(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.PaymentMethods)
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
