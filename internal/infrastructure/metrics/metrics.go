// Package metrics exposes Prometheus counters for imports, reviews, logins
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geritapp/gerit/internal/application/review"
)

const namespace = "gerit"

type Metrics struct {
	gatherer prometheus.Gatherer

	importRows    *prometheus.CounterVec
	reviews       *prometheus.CounterVec
	reviewLatency *prometheus.HistogramVec
	logins        *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

// New registers every collector on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		importRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Rows applied by imports broken down by entity and outcome.",
		}, []string{"entity", "outcome"}),
		reviews: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "requests_total",
			Help:      "AI reviews requested broken down by result.",
		}, []string{"result"}),
		reviewLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "latency_seconds",
			Help:      "Latency distribution for AI reviews.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"result"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts broken down by result.",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests broken down by route and status class.",
		}, []string{"method", "route", "result"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "latency_seconds",
			Help:      "Latency distribution for HTTP requests.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10,
			},
		}, []string{"method", "route", "result"}),
	}
}

func (m *Metrics) ObserveImport(entity string, created, updated, skipped int) {
	m.importRows.WithLabelValues(entity, "created").Add(float64(created))
	m.importRows.WithLabelValues(entity, "updated").Add(float64(updated))
	m.importRows.WithLabelValues(entity, "skipped").Add(float64(skipped))
}

func (m *Metrics) ObserveReview(outcome review.Status, took time.Duration) {
	m.reviews.WithLabelValues(string(outcome)).Inc()
	m.reviewLatency.WithLabelValues(string(outcome)).Observe(took.Seconds())
}

func (m *Metrics) ObserveLogin(ok bool) {
	result := "rejected"
	if ok {
		result = "ok"
	}
	m.logins.WithLabelValues(result).Inc()
}

// Middleware counts requests per registered route, so path parameters do
// not explode the label set.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				// Let the error handler write the response so the
				// recorded status is the one sent.
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			result := statusClass(status)
			m.httpRequests.WithLabelValues(c.Request().Method, route, result).Inc()
			m.httpLatency.WithLabelValues(c.Request().Method, route, result).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return strconv.Itoa(status)
	}
}
