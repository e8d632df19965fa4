package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"saletrack/internal/core"
	applog "saletrack/internal/log"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed requests that never reached validation.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes and client-facing bodies.
func statusFor(err error) (int, errorBody, string) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorBody{Error: verr.Err.Error(), Field: verr.Field}, applog.ErrorTypeValidation
	case errors.Is(err, core.ErrDuplicate):
		return http.StatusConflict, errorBody{Error: err.Error()}, applog.ErrorTypeConflict
	case errors.Is(err, core.ErrEmptyReport):
		return http.StatusNotFound, errorBody{Error: core.MsgEmptyReport}, applog.ErrorTypeNotFound
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: err.Error()}, applog.ErrorTypeNotFound
	case errors.Is(err, core.ErrInvalidRange):
		return http.StatusBadRequest, errorBody{Error: err.Error()}, applog.ErrorTypeRange
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, errorBody{Error: err.Error()}, applog.ErrorTypeValidation
	}
	return http.StatusInternalServerError, errorBody{Error: "internal server error"}, applog.ErrorTypeInternal
}

// writeError logs err at the boundary and writes its mapped status.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, body, errType := statusFor(err)
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentHTTP)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldOperation, op, applog.FieldError, err, applog.FieldErrorType, errType)
	} else {
		logger.WarnContext(r.Context(), "Request rejected",
			applog.FieldOperation, op, applog.FieldError, err, applog.FieldErrorType, errType)
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a single JSON object. Syntax problems are bad requests;
// values that fail to parse into domain types are validation errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var verr *core.ValidationError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", errBadRequest)
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("%w: malformed JSON", errBadRequest)
		case errors.As(err, &verr):
			return err
		case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrMissingDate):
			return &core.ValidationError{Field: "date", Err: err}
		case errors.Is(err, core.ErrInvalidAmount):
			return &core.ValidationError{Field: "unit_price", Err: err}
		default:
			return &core.ValidationError{Field: "body", Err: err}
		}
	}
	return nil
}

func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid sale id %q", errBadRequest, raw)
	}
	return id, nil
}

// queryDate parses an optional YYYY-MM-DD query value. Empty yields the zero Date.
func queryDate(r *http.Request, key string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s %q: %w", key, v, core.ErrInvalidRange)
	}
	return d, nil
}

// sanitizeInput removes control characters (except tab and newlines) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

func sanitizeSaleInput(in core.SaleInput) core.SaleInput {
	in.ItemName = sanitizeInput(in.ItemName)
	in.Category = sanitizeInput(in.Category)
	in.PaymentMethod = sanitizeInput(in.PaymentMethod)
	in.CustomerName = sanitizeInput(in.CustomerName)
	in.Notes = sanitizeInput(in.Notes)
	return in
}
