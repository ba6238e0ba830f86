package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// queuedTasks is a Gauge of tasks waiting on repository lanes
	queuedTasks prometheus.Gauge
	// startedTasks is a Counter vector of tasks picked up by workers
	startedTasks *prometheus.CounterVec
	// finishedTasks is a Counter vector of task outcomes
	finishedTasks *prometheus.CounterVec
	// taskDuration is a Histogram vector of task run times
	taskDuration *prometheus.HistogramVec
)

// EnableMetrics will enable metrics collection for tasks.
// Available metrics are...
//   - tasks_queued - A Gauge of tasks waiting to run.
//   - tasks_started_total - (tags: kind)
//   - tasks_finished_total - (tags: kind,status)
//   - task_duration_seconds - (tags: kind)
func EnableMetrics(metricsNamespace string, registerer prometheus.Registerer) {
	queuedTasks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "tasks_queued",
		Help:      "Number of tasks waiting on repository lanes",
	})

	startedTasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "tasks_started_total",
		Help:      "Count of tasks picked up by workers",
	},
		[]string{
			// task kind
			"kind",
		},
	)

	finishedTasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "tasks_finished_total",
		Help:      "Count of finished tasks by outcome",
	},
		[]string{
			// task kind
			"kind",
			// terminal status
			"status",
		},
	)

	taskDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "task_duration_seconds",
		Help:      "Run time of finished tasks",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
	},
		[]string{
			// task kind
			"kind",
		},
	)

	registerer.MustRegister(
		queuedTasks,
		startedTasks,
		finishedTasks,
		taskDuration,
	)
}

func observeQueued(n int) {
	if queuedTasks == nil {
		return
	}
	queuedTasks.Add(float64(n))
}

func observeDequeued(n int) {
	if queuedTasks == nil || n == 0 {
		return
	}
	queuedTasks.Sub(float64(n))
}

func observeStarted(kind Kind) {
	if startedTasks == nil {
		return
	}
	startedTasks.WithLabelValues(string(kind)).Inc()
}

func observeFinished(task *Task) {
	if finishedTasks == nil || taskDuration == nil {
		return
	}

	finishedTasks.WithLabelValues(string(task.Kind), string(task.Status)).Inc()
	if d := task.Duration(); d != nil {
		taskDuration.WithLabelValues(string(task.Kind)).Observe(d.Seconds())
	}
}
