package api

import (
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/dixieflatline76/jukebox/util/log"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/cors"
)

// recovery turns a panicking handler into a 500.
func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				log.Printf("[API] panic handling %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// httpMetrics counts requests per route template.
type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	factory := promauto.With(reg)
	return &httpMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jukebox",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jukebox",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 10},
		}, []string{"route"}),
	}
}

// instrument records the access log line and request metrics. It runs as
// router middleware so the matched route template is known. Websocket
// upgrades are recorded when the connection closes.
func (m *httpMetrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		snoop := httpsnoop.CaptureMetricsFn(w, func(w http.ResponseWriter) {
			next.ServeHTTP(w, r)
		})
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(snoop.Code)).Inc()
		m.duration.WithLabelValues(route).Observe(snoop.Duration.Seconds())
		log.Debugf("[API] %s %s %d %dB %s", r.Method, r.URL.Path, snoop.Code, snoop.Written, snoop.Duration)
	})
}

// withCORS allows the browser UI to call the API from any local origin.
func withCORS(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(next)
}
