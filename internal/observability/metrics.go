package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcome labels for the cover_runs_total counter.
const (
	OutcomeOK                     = "ok"
	OutcomeInvalidParameter       = "invalid_parameter"
	OutcomeSatelliteConfiguration = "satellite_configuration"
	OutcomeExhausted              = "exhausted"
	OutcomeCanceled               = "canceled"
)

// CoverCollector bundles Prometheus metrics for covering runs and the HTTP
// API, and provides helpers to wire them into handlers.
type CoverCollector struct {
	gatherer prometheus.Gatherer

	Runs           *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	SelectionSteps prometheus.Histogram
	ColorsUsed     prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCoverCollector registers covering metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCoverCollector(reg prometheus.Registerer) (*CoverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cover_runs_total",
		Help: "Total number of covering runs, labeled by outcome.",
	}, []string{"outcome"})
	runs, err := registerCounterVec(reg, runs, "cover_runs_total")
	if err != nil {
		return nil, err
	}

	runDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cover_run_duration_seconds",
		Help:    "Covering run latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}), "cover_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	steps, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cover_selection_steps",
		Help:    "Number of greedy selection steps per covering run.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}), "cover_selection_steps")
	if err != nil {
		return nil, err
	}

	colors, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cover_colors_used",
		Help: "Colors used by the most recent successful covering run.",
	}), "cover_colors_used")
	if err != nil {
		return nil, err
	}

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coverapi_requests_total",
		Help: "Total number of handled API requests, labeled by path and status code.",
	}, []string{"path", "code"})
	httpRequests, err = registerCounterVec(reg, httpRequests, "coverapi_requests_total")
	if err != nil {
		return nil, err
	}

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coverapi_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"path"})
	httpDuration, err = registerHistogramVec(reg, httpDuration, "coverapi_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &CoverCollector{
		gatherer:       gatherer,
		Runs:           runs,
		RunDuration:    runDuration,
		SelectionSteps: steps,
		ColorsUsed:     colors,
		HTTPRequests:   httpRequests,
		HTTPDuration:   httpDuration,
	}, nil
}

// ObserveRun records one completed covering run.
func (c *CoverCollector) ObserveRun(outcome string, steps, colors int, d time.Duration) {
	if c == nil {
		return
	}
	if c.Runs != nil {
		c.Runs.WithLabelValues(outcome).Inc()
	}
	if c.RunDuration != nil {
		c.RunDuration.Observe(d.Seconds())
	}
	if outcome != OutcomeOK {
		return
	}
	if c.SelectionSteps != nil {
		c.SelectionSteps.Observe(float64(steps))
	}
	if c.ColorsUsed != nil {
		c.ColorsUsed.Set(float64(colors))
	}
}

// Middleware instruments an HTTP handler with request counts and latency,
// labeled by the provided path.
func (c *CoverCollector) Middleware(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		if c.HTTPRequests != nil {
			c.HTTPRequests.WithLabelValues(path, fmt.Sprintf("%d", rec.code)).Inc()
		}
		if c.HTTPDuration != nil {
			c.HTTPDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CoverCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
