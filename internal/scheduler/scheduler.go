// Package scheduler implements the cooperative task runner described in
// spec §4.8: a fixed table of periodic tasks, some aligned to a
// particular second-of-minute, all best-effort — a failing task logs
// and yields, never killing the runner.
package scheduler

import (
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/metrics"
)

// Task is one unit of scheduled work. Errors are logged by the
// scheduler and never propagate further.
type Task func() error

// Scheduler wraps a gocron.Scheduler and registers spec §4.8's task
// table, running each task's body under a recover-and-log wrapper.
type Scheduler struct {
	gc  gocron.Scheduler
	log zerolog.Logger
}

// New constructs a Scheduler. Register each job with Every or
// EveryMinuteAt before Start.
func New(log zerolog.Logger) (*Scheduler, error) {
	gc, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{gc: gc, log: log.With().Str("component", "scheduler").Logger()}, nil
}

func (s *Scheduler) wrap(name string, task Task) func() {
	return func() {
		start := time.Now()
		defer func() {
			metrics.SchedulerTaskDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			if r := recover(); r != nil {
				metrics.SchedulerTaskFailuresTotal.WithLabelValues(name).Inc()
				s.log.Error().Str("task", name).Interface("panic", r).Msg("scheduled task panicked")
			}
		}()
		if err := task(); err != nil {
			metrics.SchedulerTaskFailuresTotal.WithLabelValues(name).Inc()
			s.log.Error().Err(err).Str("task", name).Msg("scheduled task failed")
		}
	}
}

// Every registers a task to run on a fixed period with no second-of-
// minute alignment requirement.
func (s *Scheduler) Every(name string, period time.Duration, task Task) error {
	_, err := s.gc.NewJob(gocron.DurationJob(period), gocron.NewTask(s.wrap(name, task)))
	if err != nil {
		return err
	}
	s.log.Debug().Str("task", name).Dur("period", period).Msg("task registered")
	return nil
}

// EveryMinuteAt registers a task that runs once per minute, at the
// given second-of-minute (spec's `at(":SS")` alignment).
func (s *Scheduler) EveryMinuteAt(name string, second int, task Task) error {
	expr := fmtCron(second)
	_, err := s.gc.NewJob(gocron.CronJob(expr, true), gocron.NewTask(s.wrap(name, task)))
	if err != nil {
		return err
	}
	s.log.Debug().Str("task", name).Int("second", second).Msg("aligned task registered")
	return nil
}

func fmtCron(second int) string {
	return strconv.Itoa(second) + " * * * * *"
}

// Start begins running every registered task.
func (s *Scheduler) Start() {
	s.gc.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop shuts the scheduler down, waiting for any in-flight task.
func (s *Scheduler) Stop() error {
	s.log.Info().Msg("stopping scheduler")
	return s.gc.Shutdown()
}
