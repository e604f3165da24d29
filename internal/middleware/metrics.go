package middleware

import (
	"net/http"
	"time"
)

// RequestObserver records the outcome of an HTTP request
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Metrics reports every request to obs, labelled by the matched route pattern
// so badge codes never become label values.
func Metrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			obs.ObserveRequest(r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}
