package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linkanalyzer",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requests served, by route and status.",
	}, []string{"method", "route", "status"})

	requestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "linkanalyzer",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	requestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "linkanalyzer",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Requests currently being handled.",
	})
)

// routeOf returns the matched chi pattern so ids do not explode label cardinality.
func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		began := time.Now()
		ww := wrap(w, r)
		next.ServeHTTP(ww, r)

		route := routeOf(r)
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		requestSeconds.WithLabelValues(r.Method, route).Observe(time.Since(began).Seconds())
	})
}
