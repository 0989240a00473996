package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	solves          prometheus.Counter
	solveDuration   prometheus.Histogram
	solveScore      prometheus.Histogram
	solveTrials     prometheus.Counter
	poolSize        prometheus.Gauge
	overflowDropped prometheus.Counter
	rosterOps       *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed metrics collector and registers
// its collectors on reg. A nil reg uses prometheus.DefaultRegisterer; an
// empty namespace defaults to "dreamlethe".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "dreamlethe"
	}

	p := &PrometheusCollector{
		solves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solves_total",
			Help:      "Total completed assignment runs.",
		}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of assignment runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		}),
		solveScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solve_score",
			Help:      "Connection scores of completed assignments.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
		solveTrials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "trials_total",
			Help:      "Total restart trials run across all assignments.",
		}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "pool_size",
			Help:      "Candidate pool size of the most recent assignment.",
		}),
		overflowDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "overflow_dropped_total",
			Help:      "Total candidates dropped because the pool exceeded capacity.",
		}),
		rosterOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "ops_total",
			Help:      "Total roster operations by name.",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds by method and route.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms .. ~1s
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		p.solves,
		p.solveDuration,
		p.solveScore,
		p.solveTrials,
		p.poolSize,
		p.overflowDropped,
		p.rosterOps,
		p.httpRequests,
		p.httpDuration,
	)
	return p
}

// ObserveSolve records one completed assignment run.
func (p *PrometheusCollector) ObserveSolve(d time.Duration, score, trials, candidates int) {
	p.solves.Inc()
	p.solveDuration.Observe(d.Seconds())
	p.solveScore.Observe(float64(score))
	p.solveTrials.Add(float64(trials))
	p.poolSize.Set(float64(candidates))
}

// ObserveOverflow records candidates dropped by capacity trimming.
func (p *PrometheusCollector) ObserveOverflow(dropped int) {
	p.overflowDropped.Add(float64(dropped))
}

// ObserveRosterOp records a roster operation.
func (p *PrometheusCollector) ObserveRosterOp(op string) {
	p.rosterOps.WithLabelValues(op).Inc()
}

// ObserveHTTP records one handled HTTP request.
func (p *PrometheusCollector) ObserveHTTP(method, route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
