package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and the scheduler run counters.
type MetricsService struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	scheduled   prometheus.Counter
	conflicts   prometheus.Counter
	uncompleted prometheus.Counter
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &MetricsService{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_runs_total",
			Help: "Scheduling runs by terminal status.",
		}, []string{"status"}),
		scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_entries_scheduled_total",
			Help: "Timetable entries produced by scheduling runs.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_conflicts_total",
			Help: "Placement conflicts logged during scheduling runs.",
		}),
		uncompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_uncompleted_tasks_total",
			Help: "Assignments left with remaining sessions after a run.",
		}),
	}
	registry.MustRegister(m.runs, m.scheduled, m.conflicts, m.uncompleted)
	return m
}

// ObserveRun records the outcome of one scheduling run.
func (m *MetricsService) ObserveRun(status string, scheduled, conflicts, uncompleted int) {
	m.runs.WithLabelValues(status).Inc()
	m.scheduled.Add(float64(scheduled))
	m.conflicts.Add(float64(conflicts))
	m.uncompleted.Add(float64(uncompleted))
}

// Handler exposes the registry for the /metrics endpoint.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
