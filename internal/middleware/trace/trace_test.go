package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	applog "saletrack/internal/log"
)

func newTestMiddleware(buf *bytes.Buffer) (*Middleware, *Metrics) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	logger := applog.New(applog.Config{Output: buf})
	return NewMiddleware(func(*http.Request) string { return "1.2.3.4" }, metrics, logger), metrics
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	m, _ := newTestMiddleware(&buf)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		applog.FromContext(r.Context()).Info("inside handler")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", seen, err)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), seen)
	}
	if !strings.Contains(buf.String(), "request_id="+seen) {
		t.Fatalf("handler log lacks request id: %s", buf.String())
	}
}

func TestMiddlewareKeepsClientRequestID(t *testing.T) {
	var buf bytes.Buffer
	m, _ := newTestMiddleware(&buf)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "client-42" {
		t.Fatalf("request id = %q", got)
	}
}

func TestMiddlewareRecordsMetrics(t *testing.T) {
	var buf bytes.Buffer
	m, metrics := newTestMiddleware(&buf)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sales/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sales/7", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sales/8", nil))

	got := testutil.ToFloat64(metrics.requests.WithLabelValues("GET /api/sales/{id}", http.MethodGet, "404"))
	if got != 2 {
		t.Fatalf("request counter = %v, want 2", got)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "status_code=404") {
		t.Fatalf("access log missing: %s", buf.String())
	}
}
