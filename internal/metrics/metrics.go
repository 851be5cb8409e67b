// Package metrics exposes Prometheus counters for HTTP traffic and the
// nick and chat operations.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server instance
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	NickUpdatesTotal    prometheus.Counter
	ChatMessagesTotal   prometheus.Counter
	AdminDeletionsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		NickUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nickchat_nick_updates_total",
			Help: "Total number of successful nick updates",
		}),
		ChatMessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nickchat_chat_messages_total",
			Help: "Total number of chat messages posted",
		}),
		AdminDeletionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nickchat_admin_deleted_rows_total",
			Help: "Rows removed by admin deletions",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.NickUpdatesTotal,
		m.ChatMessagesTotal,
		m.AdminDeletionsTotal,
	)
	return m
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NickUpdated counts a successful nick write
func (m *Metrics) NickUpdated() {
	m.NickUpdatesTotal.Inc()
}

// MessagePosted counts an appended chat message
func (m *Metrics) MessagePosted() {
	m.ChatMessagesTotal.Inc()
}

// PlayersDeleted adds n to the player deletion count
func (m *Metrics) PlayersDeleted(n int64) {
	m.AdminDeletionsTotal.WithLabelValues("player").Add(float64(n))
}

// MessagesDeleted adds n to the chat deletion count
func (m *Metrics) MessagesDeleted(n int64) {
	m.AdminDeletionsTotal.WithLabelValues("chat_message").Add(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type routeKey struct{}

// Middleware records request counts and durations. Paths are labelled with
// the matched mux route template so auth ids do not explode cardinality.
// Wrapped around the whole handler chain it also counts requests rejected
// before routing; pair it with RouteLabel on the router so the template
// is visible from outside mux. Requests no route matched are "unmatched".
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		path, ok := r.Context().Value(routeKey{}).(*string)
		if !ok {
			path = new(string)
			r = r.WithContext(context.WithValue(r.Context(), routeKey{}, path))
		}

		next.ServeHTTP(rec, r)

		label := *path
		if label == "" {
			label = routePath(r)
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"path":   label,
			"status": strconv.Itoa(rec.status),
		}
		m.HTTPRequestsTotal.With(labels).Inc()
		m.HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}

// RouteLabel is router middleware that hands the matched route template
// back to an enclosing Middleware
func (m *Metrics) RouteLabel(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path, ok := r.Context().Value(routeKey{}).(*string); ok {
			*path = routePath(r)
		}
		next.ServeHTTP(w, r)
	})
}

func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
