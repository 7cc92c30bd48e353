package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Registration metrics
	RegistrationFlows *prometheus.CounterVec
	DetachedMethods   *prometheus.CounterVec
	LedgerMalformed   prometheus.Counter

	// Stripe metrics
	StripeCalls        *prometheus.CounterVec
	StripeCallDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates a new Metrics instance registered on reg.
// Passing nil registers on the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000},
			},
			[]string{"method", "path"},
		),

		RegistrationFlows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registration_flows_total",
				Help: "Registration flows completed, by flow and outcome",
			},
			[]string{"flow", "outcome"},
		),
		DetachedMethods: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_method_detach_total",
				Help: "Card payment methods detached from returning customers",
			},
			[]string{"outcome"},
		),
		LedgerMalformed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_malformed_total",
			Help: "Purchase-order ledgers that could not be parsed and were reset",
		}),

		StripeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stripe_calls_total",
				Help: "Stripe API calls, by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		StripeCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stripe_call_duration_seconds",
				Help:    "Stripe API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"operation"},
		),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, not the raw URL

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// RecordFlow counts a finished registration flow
func (m *Metrics) RecordFlow(flow string, success bool) {
	m.RegistrationFlows.WithLabelValues(flow, outcome(success)).Inc()
}

// RecordDetach counts a single payment-method detach attempt
func (m *Metrics) RecordDetach(success bool) {
	m.DetachedMethods.WithLabelValues(outcome(success)).Inc()
}

// RecordLedgerMalformed counts a purchase-order ledger reset
func (m *Metrics) RecordLedgerMalformed() {
	m.LedgerMalformed.Inc()
}

// ObserveStripeCall records a Stripe API call
func (m *Metrics) ObserveStripeCall(operation string, duration time.Duration, err error) {
	m.StripeCalls.WithLabelValues(operation, outcome(err == nil)).Inc()
	m.StripeCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheHit increments cache hits counter
func (m *Metrics) RecordCacheHit(cacheType string) {
	m.CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments cache misses counter
func (m *Metrics) RecordCacheMiss(cacheType string) {
	m.CacheMisses.WithLabelValues(cacheType).Inc()
}
