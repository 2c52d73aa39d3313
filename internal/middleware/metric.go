package middleware

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/log"
)

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "grocery",
	Name:      "http_request_duration_seconds",
	Help:      "Duration of HTTP requests by route template.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		m := httpsnoop.CaptureMetrics(next, w, r)
		httpDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(m.Code)).
			Observe(m.Duration.Seconds())

		zerolog.Ctx(r.Context()).
			Info().
			Str(log.KeyTag, "middleware Metrics").
			Int(log.KeyResponseStatusCode, m.Code).
			Dur(log.KeyRequestDuration, m.Duration).
			Msgf("served %s %s", r.Method, route)
	})
}
