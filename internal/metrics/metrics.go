package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service owns the prometheus registry and the domain collectors.
// Each Service has its own registry so tests can construct servers
// without duplicate-registration panics.
type Service struct {
	registry *prometheus.Registry

	SubmissionsTotal *prometheus.CounterVec
	ConfirmDuration  prometheus.Histogram
	ReceiptPolls     prometheus.Counter
}

// New creates a Service with go runtime and domain collectors registered.
func New() *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Service{
		registry: registry,
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_submissions_total",
			Help: "Report submissions by terminal outcome.",
		}, []string{"outcome"}),
		ConfirmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "report_confirm_duration_seconds",
			Help:    "Time from broadcast to terminal confirmation outcome.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		ReceiptPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_receipt_polls_total",
			Help: "Individual receipt poll attempts across all submissions.",
		}),
	}

	registry.MustRegister(s.SubmissionsTotal, s.ConfirmDuration, s.ReceiptPolls)

	return s
}

// Registry exposes the registry for HTTP middleware instrumentation.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// HTTPHandler serves the /-/metrics endpoint.
func (s *Service) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
