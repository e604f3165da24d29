// Package metrics collects Prometheus metrics for the badge tracker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface services use to report domain events
type Recorder interface {
	RecordScan()
	RecordCheckin()
	RecordCheckout(closedSessions int64)
}

// Collector is the Prometheus implementation of Recorder. It also observes HTTP requests.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	scans           prometheus.Counter
	checkins        *prometheus.CounterVec
	closedSessions  prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badges_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "badges_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "badges_scans_recorded_total",
			Help: "Scans recorded.",
		}),
		checkins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badges_checkins_total",
			Help: "Check-in and check-out requests.",
		}, []string{"kind"}),
		closedSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "badges_sessions_closed_total",
			Help: "Check-in sessions closed by check-out.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.scans,
		c.checkins,
		c.closedSessions,
	)

	return c
}

// RecordScan counts a recorded scan. Activity fields are client input and
// never become label values.
func (c *Collector) RecordScan() {
	c.scans.Inc()
}

// RecordCheckin counts an opened session
func (c *Collector) RecordCheckin() {
	c.checkins.WithLabelValues("checkin").Inc()
}

// RecordCheckout counts a checkout and the sessions it closed
func (c *Collector) RecordCheckout(closedSessions int64) {
	c.checkins.WithLabelValues("checkout").Inc()
	c.closedSessions.Add(float64(closedSessions))
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every event
type Nop struct{}

func (Nop) RecordScan() {}
func (Nop) RecordCheckin() {}
func (Nop) RecordCheckout(int64) {}
