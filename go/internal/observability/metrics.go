// Package observability exposes the dashboard's Prometheus collectors.
package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/octofit/dashboard/go/clients"
)

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "octofit_dashboard",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to the OctoFit API by method, endpoint and outcome.",
	}, []string{"method", "endpoint", "outcome"})
	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "octofit_dashboard",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to the OctoFit API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
	liveSessions = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "octofit_dashboard",
		Subsystem: "live",
		Name:      "sessions",
		Help:      "Open live view connections by view.",
	}, []string{"view"})
	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "octofit_dashboard",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Notifications published after saves by type and outcome.",
	}, []string{"type", "outcome"})
)

func init() {
	prometheus.MustRegister(upstreamRequests, upstreamDuration, liveSessions, eventsPublished)
}

// ObserveUpstream records one API request. The signature matches the API
// client's observer hook.
func ObserveUpstream(method, endpoint string, status int, duration time.Duration, err error) {
	label := EndpointLabel(endpoint)
	upstreamRequests.WithLabelValues(method, label, Outcome(status, err)).Inc()
	upstreamDuration.WithLabelValues(method, label).Observe(duration.Seconds())
}

// Outcome is "transport_error" when no complete response arrived, else the
// status code.
func Outcome(status int, err error) string {
	if clients.IsTransport(err) {
		return "transport_error"
	}
	if status == 0 {
		return "unknown"
	}
	return strconv.Itoa(status)
}

// EndpointLabel keeps the collection path and collapses record ids, so
// "/api/users/42/" becomes "/api/users/{id}/".
func EndpointLabel(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) <= 2 {
		return path
	}
	for i := 2; i < len(segments); i++ {
		segments[i] = "{id}"
	}
	label := "/" + strings.Join(segments, "/")
	if strings.HasSuffix(path, "/") {
		label += "/"
	}
	return label
}

func LiveSessionOpened(view string) {
	liveSessions.WithLabelValues(view).Inc()
}

func LiveSessionClosed(view string) {
	liveSessions.WithLabelValues(view).Dec()
}

// RecordEventPublished counts one publish attempt.
func RecordEventPublished(eventType string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	eventsPublished.WithLabelValues(eventType, outcome).Inc()
}
