// Package http exposes the sales services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"saletrack/internal/core"
	applog "saletrack/internal/log"
	"saletrack/internal/middleware/ratelimit"
	"saletrack/internal/middleware/security"
	"saletrack/internal/middleware/trace"
	"saletrack/internal/services"
)

// Options configures NewServer. Zero values pick defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	// ClientIP keys rate limiting and request logs; nil trusts no proxy headers.
	ClientIP *ratelimit.IPResolver
	Logger   *applog.Logger
	// Today returns the calendar day used by the time-window analytics.
	Today func() core.Date
	// Registry receives the HTTP and domain collectors; nil creates one.
	Registry *prometheus.Registry
}

type Server struct {
	http.Server
	sales       *services.SaleService
	reports     *services.ReportService
	today       func() core.Date
	logger      *applog.Logger
	events      *applog.StructuredLogger
	rateLimiter *ratelimit.Limiter
	metrics     *domainMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, sales *services.SaleService, reports *services.ReportService) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Today == nil {
		opts.Today = func() core.Date { return core.DateOf(time.Now()) }
	}
	if opts.Registry == nil {
		opts.Registry = newRegistry()
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:           opts.Addr,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16, // 64KB
		},
		sales:       sales,
		reports:     reports,
		today:       opts.Today,
		logger:      opts.Logger.WithComponent(applog.ComponentHTTP),
		events:      applog.NewStructuredLogger(opts.Logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		metrics:     newDomainMetrics(opts.Registry),
	}

	registerLimiter(opts.Registry, s.rateLimiter)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/sales", s.handleAddSale)
	mux.HandleFunc("GET /api/sales", s.handleListSales)
	mux.HandleFunc("GET /api/sales/range", s.handleSalesByDateRange)
	mux.HandleFunc("GET /api/sales/{id}", s.handleGetSale)
	mux.HandleFunc("PUT /api/sales/{id}", s.handleUpdateSale)
	mux.HandleFunc("DELETE /api/sales/{id}", s.handleDeleteSale)

	mux.HandleFunc("GET /api/analytics/today", s.handleTodayTotal)
	mux.HandleFunc("GET /api/analytics/week", s.handleWeekTotal)
	mux.HandleFunc("GET /api/analytics/month", s.handleMonthTotal)
	mux.HandleFunc("GET /api/analytics/top-items", s.handleTopItems)
	mux.HandleFunc("GET /api/analytics/by-category", s.handleByCategory)
	mux.HandleFunc("GET /api/analytics/by-payment-method", s.handleByPaymentMethod)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleAddCategory)
	mux.HandleFunc("GET /api/payment-methods", handlePaymentMethods)

	mux.HandleFunc("GET /api/reports", s.handlePreviewReport)
	mux.HandleFunc("POST /api/reports", s.handleGenerateReport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	clientIP := opts.ClientIP.ClientIP
	tracer := trace.NewMiddleware(clientIP, trace.NewMetrics(opts.Registry), opts.Logger)
	limited := s.rateLimiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, clientIP(r), applog.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded, please try again later"})
	})

	s.Handler = tracer.Middleware(headers.Middleware(limited(mux)))
	return s
}

// Shutdown stops the rate limiter sweeper and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.sales.Ping(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Readiness check failed", applog.FieldError, err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
