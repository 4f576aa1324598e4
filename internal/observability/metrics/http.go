package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	planViewsTotal       *prometheus.CounterVec
	planPreviewsTotal    *prometheus.CounterVec
	planReschedulesTotal *prometheus.CounterVec
	previewDuration      *prometheus.HistogramVec
	planPhases           *prometheus.HistogramVec
	planTasks            *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pf",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pf",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	planViewsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pf",
			Subsystem: "plan",
			Name:      "views_total",
			Help:      "Total served plan views by representation.",
		},
		[]string{"service", "view"},
	)
	planPreviewsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pf",
			Subsystem: "plan",
			Name:      "previews_total",
			Help:      "Total synchronous plan previews by status.",
		},
		[]string{"service", "status"},
	)
	planReschedulesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pf",
			Subsystem: "plan",
			Name:      "reschedules_total",
			Help:      "Total plan reschedules by status.",
		},
		[]string{"service", "status"},
	)
	previewDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "plan",
			Name:      "preview_duration_seconds",
			Help:      "Synchronous preview pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	planPhases := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "plan",
			Name:      "phases",
			Help:      "Distribution of phases per served plan.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
		[]string{"service"},
	)
	planTasks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "plan",
			Name:      "tasks",
			Help:      "Distribution of tasks per served plan.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 15, 21},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		planViewsTotal,
		planPreviewsTotal,
		planReschedulesTotal,
		previewDuration,
		planPhases,
		planTasks,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		planViewsTotal:       planViewsTotal,
		planPreviewsTotal:    planPreviewsTotal,
		planReschedulesTotal: planReschedulesTotal,
		previewDuration:      previewDuration,
		planPhases:           planPhases,
		planTasks:            planTasks,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		rest := strings.TrimPrefix(path, "/v1/documents/")
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return "/v1/documents/{document_id}/" + rest[idx+1:]
		}
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordPlanView(service, view string, phases, tasks int) {
	m.planViewsTotal.WithLabelValues(service, view).Inc()
	m.planPhases.WithLabelValues(service).Observe(float64(phases))
	m.planTasks.WithLabelValues(service).Observe(float64(tasks))
}

func (m *HTTPServerMetrics) RecordPreview(service string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.planPreviewsTotal.WithLabelValues(service, status).Inc()
	m.previewDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordReschedule(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.planReschedulesTotal.WithLabelValues(service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
