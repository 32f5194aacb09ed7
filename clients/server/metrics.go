package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poster_http_requests_total",
				Help: "HTTP requests by route class and status code",
			},
			[]string{"route", "code"},
		),
		durationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "poster_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route class",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
			},
			[]string{"route"},
		),
	}
	reg.MustRegister(m.requestsTotal, m.durationSeconds)
	return m
}

// instrument counts and times requests. Routes are bucketed to keep label
// cardinality fixed.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routeClass(r.URL.Path)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		m.durationSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func routeClass(p string) string {
	switch {
	case p == "/api/status":
		return p
	case strings.HasPrefix(p, "/api/"):
		return "api_other"
	case p == "/metrics":
		return "metrics"
	default:
		return "static"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
