// Package metrics holds the Prometheus collectors exported on the metrics port.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the application's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	HTTPRequests          *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	SubscriptionsCreated  prometheus.Counter
	SubscriptionsCanceled prometheus.Counter
	AttendanceMarked      *prometheus.CounterVec
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messbot_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "messbot_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SubscriptionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "messbot_subscriptions_created_total",
				Help: "Total number of subscriptions created",
			},
		),
		SubscriptionsCanceled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "messbot_subscriptions_cancelled_total",
				Help: "Total number of subscriptions cancelled",
			},
		),
		AttendanceMarked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messbot_attendance_marked_total",
				Help: "Total number of meals marked as taken",
			},
			[]string{"meal"},
		),
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SubscriptionCreated counts a new subscription
func (m *Metrics) SubscriptionCreated() {
	if m == nil {
		return
	}
	m.SubscriptionsCreated.Inc()
}

// SubscriptionCancelled counts a cancellation
func (m *Metrics) SubscriptionCancelled() {
	if m == nil {
		return
	}
	m.SubscriptionsCanceled.Inc()
}

// MealsMarked counts the meals set to true by one attendance mark
func (m *Metrics) MealsMarked(breakfast, lunch, dinner bool) {
	if m == nil {
		return
	}
	if breakfast {
		m.AttendanceMarked.WithLabelValues("breakfast").Inc()
	}
	if lunch {
		m.AttendanceMarked.WithLabelValues("lunch").Inc()
	}
	if dinner {
		m.AttendanceMarked.WithLabelValues("dinner").Inc()
	}
}
