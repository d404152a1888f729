package http

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Domain metrics
	uploadOutcomesTotal *prometheus.CounterVec
	uploadDuration      prometheus.Histogram
	loginAttemptsTotal  *prometheus.CounterVec
	activeSessionsGauge prometheus.GaugeFunc
)

// MetricsConfig groups what RegisterMetrics needs to expose /metrics.
type MetricsConfig struct {
	Registry prometheus.Registerer
	// ActiveSessions, when set, is sampled on every scrape.
	ActiveSessions func() int
}

// RegisterMetrics initializes the HTTP and domain metrics and returns the
// handler for /metrics.
func RegisterMetrics(cfg MetricsConfig) (http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "In-flight requests by method and route",
		}, []string{"method", "path"})

		uploadOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skin_upload_outcomes_total",
			Help: "Skin upload attempts by outcome",
		}, []string{"outcome"})

		uploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skin_upload_duration_seconds",
			Help:    "End-to-end duration of skin uploads including the upstream call",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_login_attempts_total",
			Help: "Dashboard login attempts by result",
		}, []string{"result"}) // result: ok|invalid

		for _, c := range []prometheus.Collector{
			httpRequestsTotal,
			httpRequestDuration,
			httpInflight,
			uploadOutcomesTotal,
			uploadDuration,
			loginAttemptsTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}

	if cfg.ActiveSessions != nil {
		activeSessionsGauge = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dashboard_active_sessions",
			Help: "Number of live dashboard sessions",
		}, func() float64 { return float64(cfg.ActiveSessions()) })
		if err := registerCollector(registry, activeSessionsGauge); err != nil {
			return nil, err
		}
	}

	// Global gatherer for compatibility, since the metrics register there.
	return promhttp.Handler(), nil
}

// WithMetrics instruments requests with Prometheus counters, latency and
// inflight gauges.
func WithMetrics(next http.Handler) http.Handler {
	if next == nil {
		return nil
	}
	if httpRequestsTotal == nil || httpRequestDuration == nil || httpInflight == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		pathLabel := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, pathLabel).Inc()
		start := time.Now()

		rec := &metricsRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, pathLabel).Dec()
			httpRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

// RecordUploadOutcome counts one upload attempt.
func RecordUploadOutcome(outcome string, duration time.Duration) {
	if uploadOutcomesTotal != nil {
		uploadOutcomesTotal.WithLabelValues(outcome).Inc()
	}
	if uploadDuration != nil {
		uploadDuration.Observe(duration.Seconds())
	}
}

// RecordLoginAttempt counts one dashboard login attempt.
func RecordLoginAttempt(ok bool) {
	if loginAttemptsTotal == nil {
		return
	}
	if ok {
		loginAttemptsTotal.WithLabelValues("ok").Inc()
	} else {
		loginAttemptsTotal.WithLabelValues("invalid").Inc()
	}
}

// registerCollector registers the collector, ignoring duplicates.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (m *metricsRecorder) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *metricsRecorder) Write(b []byte) (int, error) {
	if m.status == 0 {
		m.status = http.StatusOK
	}
	return m.ResponseWriter.Write(b)
}

var numericSegmentRE = regexp.MustCompile(`^[0-9]+$`)

// normalizePath collapses dynamic path segments (asset ids) into :param so
// the metric cardinality stays bounded.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := strings.SplitN(p, "?", 2)[0]
	if clean == "" {
		return "/"
	}
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}

	segments := strings.Split(clean, "/")
	var out []string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if len(seg) > 48 || numericSegmentRE.MatchString(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}
