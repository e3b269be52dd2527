// Package metrics defines the prometheus instrumentation for the
// ingestion core: queue throughput/overflow, listener connectivity,
// processor stage outcomes, alert match counts, and scheduler task
// durations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "acarshub"

var (
	QueuePushedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_pushed_total",
		Help:      "Total frames pushed into the bounded queue, by decoder kind.",
	}, []string{"kind"})

	QueueDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_dropped_total",
		Help:      "Total frames dropped on queue overflow, by decoder kind.",
	}, []string{"kind"})

	QueueErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_errors_total",
		Help:      "Total processing errors recorded against the queue, by decoder kind.",
	}, []string{"kind"})

	ProcessorStageTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "processor_stage_total",
		Help:      "Per-message pipeline stage outcomes.",
	}, []string{"stage", "outcome"})

	AlertMatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alert_matches_total",
		Help:      "Total surviving alert hits, by match type.",
	}, []string{"match_type"})

	SchedulerTaskDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scheduler_task_duration_seconds",
		Help:      "Scheduled task execution duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})

	SchedulerTaskFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_task_failures_total",
		Help:      "Total scheduled task failures, by task name.",
	}, []string{"task"})
)

func init() {
	prometheus.MustRegister(
		QueuePushedTotal,
		QueueDroppedTotal,
		QueueErrorsTotal,
		ProcessorStageTotal,
		AlertMatchesTotal,
		SchedulerTaskDuration,
		SchedulerTaskFailuresTotal,
	)
}
