// Package metrics exposes reconciler, scanner and HTTP counters to
// Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/solarsync/internal/poller"
	"github.com/heartmarshall/solarsync/internal/reconcile"
)

// Config sets the constant labels attached to every series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics implements reconcile.Observer and poller.Observer. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	merges         *prometheus.CounterVec
	fetchFailures  *prometheus.CounterVec
	resubscribes   *prometheus.CounterVec
	ticks          *prometheus.CounterVec
	tickDuration   *prometheus.HistogramVec
	mapperFallback *prometheus.CounterVec
	sessions       prometheus.Gauge
	httpDuration   *prometheus.HistogramVec
}

var (
	_ reconcile.Observer = (*Metrics)(nil)
	_ poller.Observer    = (*Metrics)(nil)
)

// New creates the collectors and registers them with registerer
// (prometheus.DefaultRegisterer when nil).
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "solarsync"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		merges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "solarsync_reconcile_merges_total",
				Help:        "Change events applied to reconciler snapshots by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"reconciler", "table", "outcome"},
		),
		fetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "solarsync_reconcile_fetch_failures_total",
				Help:        "Failed initial or refresh fetches.",
				ConstLabels: constLabels,
			},
			[]string{"reconciler"},
		),
		resubscribes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "solarsync_reconcile_resubscribes_total",
				Help:        "Change feeds restored after a drop.",
				ConstLabels: constLabels,
			},
			[]string{"reconciler", "table"},
		),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "solarsync_poller_ticks_total",
				Help:        "Scanner ticks by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"scanner", "outcome"}, // ok | error | skipped
		),
		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "solarsync_poller_tick_duration_seconds",
				Help:        "Duration of completed scanner ticks.",
				Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
				ConstLabels: constLabels,
			},
			[]string{"scanner"},
		),
		mapperFallback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "solarsync_payment_status_fallbacks_total",
				Help:        "Unrecognized provider statuses mapped to the fallback status.",
				ConstLabels: constLabels,
			},
			[]string{"path"}, // event | record
		),
		sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "solarsync_dashboard_sessions",
				Help:        "Open dashboard sessions.",
				ConstLabels: constLabels,
			},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "solarsync_http_request_duration_seconds",
				Help:        "HTTP request duration by route pattern and status.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"route", "status"},
		),
	}

	registerer.MustRegister(
		m.merges,
		m.fetchFailures,
		m.resubscribes,
		m.ticks,
		m.tickDuration,
		m.mapperFallback,
		m.sessions,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Merged(reconciler, table string, outcome reconcile.Outcome) {
	if m == nil {
		return
	}
	m.merges.WithLabelValues(reconciler, table, string(outcome)).Inc()
}

func (m *Metrics) FetchFailed(reconciler string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(reconciler).Inc()
}

func (m *Metrics) Resubscribed(reconciler, table string) {
	if m == nil {
		return
	}
	m.resubscribes.WithLabelValues(reconciler, table).Inc()
}

func (m *Metrics) Ticked(scanner string, outcome poller.TickOutcome, took time.Duration) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues(scanner, string(outcome)).Inc()
	if outcome != poller.TickSkipped {
		m.tickDuration.WithLabelValues(scanner).Observe(took.Seconds())
	}
}

// MapperFallback counts an unrecognized provider status. path names where
// the status entered: "event" or "record".
func (m *Metrics) MapperFallback(path string) {
	if m == nil {
		return
	}
	m.mapperFallback.WithLabelValues(path).Inc()
}

// SessionOpened and SessionClosed track open dashboard sessions.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// Middleware records request duration labelled by the matched ServeMux
// pattern, so path parameters do not multiply series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.WithLabelValues(route, strconv.Itoa(sw.status)).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
