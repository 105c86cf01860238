package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by method, route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	AlumniImported = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "alumni_imported_total", Help: "Imported alumni rows committed"},
	)
	InvitesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "invites_generated_total", Help: "Invite codes issued"},
	)
	InvitesRedeemed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "invites_redeemed_total", Help: "Invite codes redeemed"},
	)
	ApprovalDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "approval_decisions_total", Help: "Admin approval decisions"},
		[]string{"decision"},
	)
	EventRegistrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "event_registrations_total", Help: "Event registration attempts by result"},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPDuration,
			AlumniImported,
			InvitesGenerated,
			InvitesRedeemed,
			ApprovalDecisions,
			EventRegistrations,
		)
	})
}

// GinMiddleware records request count and latency labelled by the matched route
// template, so path parameters do not explode cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
