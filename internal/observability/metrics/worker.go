package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	buildTotal    *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	buildInFlight prometheus.Gauge
	queueLag      *prometheus.HistogramVec
	fallbackTotal *prometheus.CounterVec
	builtPhases   *prometheus.HistogramVec
	builtTasks    *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	buildTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pf",
			Subsystem: "worker",
			Name:      "plan_build_total",
			Help:      "Total plan builds by status.",
		},
		[]string{"service", "status"},
	)
	buildDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "worker",
			Name:      "plan_build_duration_seconds",
			Help:      "Plan build duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	buildInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pf",
			Subsystem: "worker",
			Name:      "plan_build_in_flight",
			Help:      "Number of in-flight plan builds.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and build start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pf",
			Subsystem: "worker",
			Name:      "plan_fallback_total",
			Help:      "Total built plans that used the generic phase template.",
		},
		[]string{"service"},
	)
	builtPhases := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "worker",
			Name:      "plan_phases",
			Help:      "Distribution of phases per built plan.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
		[]string{"service"},
	)
	builtTasks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pf",
			Subsystem: "worker",
			Name:      "plan_tasks",
			Help:      "Distribution of tasks per built plan.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 15, 21},
		},
		[]string{"service"},
	)

	registry.MustRegister(buildTotal, buildDuration, buildInFlight, queueLag, fallbackTotal, builtPhases, builtTasks)

	return &WorkerMetrics{
		registry:      registry,
		buildTotal:    buildTotal,
		buildDuration: buildDuration,
		buildInFlight: buildInFlight,
		queueLag:      queueLag,
		fallbackTotal: fallbackTotal,
		builtPhases:   builtPhases,
		builtTasks:    builtTasks,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartBuild() {
	m.buildInFlight.Inc()
}

func (m *WorkerMetrics) FinishBuild(service string, duration time.Duration, err error) {
	m.buildInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.buildTotal.WithLabelValues(service, status).Inc()
	m.buildDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObservePlanShape(service string, phases, tasks int, fallback bool) {
	m.builtPhases.WithLabelValues(service).Observe(float64(phases))
	m.builtTasks.WithLabelValues(service).Observe(float64(tasks))
	if fallback {
		m.fallbackTotal.WithLabelValues(service).Inc()
	}
}
