package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"saletrack/internal/middleware/ratelimit"
)

// domainMetrics counts business events observed at the HTTP boundary.
type domainMetrics struct {
	saleMutations *prometheus.CounterVec
	reports       *prometheus.CounterVec
	emptyReports  prometheus.Counter
}

func newDomainMetrics(reg prometheus.Registerer) *domainMetrics {
	m := &domainMetrics{
		saleMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saletrack_sale_mutations_total",
			Help: "Sales created, updated or deleted.",
		}, []string{"operation"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saletrack_reports_generated_total",
			Help: "Reports generated by target.",
		}, []string{"target"}),
		emptyReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "saletrack_reports_empty_total",
			Help: "Report requests rejected because the range held no sales.",
		}),
	}
	reg.MustRegister(m.saleMutations, m.reports, m.emptyReports)
	return m
}

// registerLimiter exposes the limiter's state as scrape-time collectors.
func registerLimiter(reg prometheus.Registerer, rl *ratelimit.Limiter) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "saletrack_ratelimit_active_clients",
			Help: "Clients currently tracked by the write rate limiter.",
		}, func() float64 { return float64(rl.ActiveClients()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "saletrack_ratelimit_rejected_total",
			Help: "Write requests refused by the rate limiter.",
		}, func() float64 { return float64(rl.Rejected()) }),
	)
}

// newRegistry returns a registry with the Go runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
