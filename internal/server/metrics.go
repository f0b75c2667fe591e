package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for Prometheus
var (
	videosTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "videoshare_videos_total",
		Help: "Total number of videos in the store",
	})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "videoshare_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	storeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "videoshare_store_errors_total",
		Help: "Total number of failed store operations",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(videosTotal)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(storeErrorsTotal)
}

// UpdateVideoCount updates the videos_total metric
func UpdateVideoCount(count int64) {
	videosTotal.Set(float64(count))
}

// RecordStoreError records a failed store operation
func RecordStoreError(op string) {
	storeErrorsTotal.WithLabelValues(op).Inc()
}

// countRequests labels requests by route pattern so ids do not explode cardinality
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}
