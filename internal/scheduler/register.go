package scheduler

import "time"

// Collaborators groups the operations the task table needs. Each field
// maps to exactly one row of spec §4.8's table.
type Collaborators struct {
	BroadcastSystemStatus func() error
	PruneDatabase         func() error
	OptimizeMerge         func() error
	OptimizeRegular       func() error
	CheckListenerHealth   func() error
	PruneTimeseries       func() error
	WriteTimeseries       func() error
}

// RegisterDefaultTasks wires every row of spec §4.8's task table onto s.
func RegisterDefaultTasks(s *Scheduler, c Collaborators) error {
	type entry struct {
		name   string
		period time.Duration
		second int // -1 means "use period, no alignment"
		fn     func() error
	}
	entries := []entry{
		{"broadcast_system_status", 30 * time.Second, -1, c.BroadcastSystemStatus},
		{"prune_database", time.Minute, 30, c.PruneDatabase},
		{"optimize_merge", 5 * time.Minute, -1, c.OptimizeMerge},
		{"optimize_regular", 6 * time.Hour, -1, c.OptimizeRegular},
		{"listener_health_check", time.Minute, 45, c.CheckListenerHealth},
		{"prune_timeseries", time.Hour, -1, c.PruneTimeseries},
		{"write_timeseries", time.Minute, -1, c.WriteTimeseries},
	}

	for _, e := range entries {
		if e.fn == nil {
			continue
		}
		var err error
		if e.second >= 0 {
			err = s.EveryMinuteAt(e.name, e.second, e.fn)
		} else {
			err = s.Every(e.name, e.period, e.fn)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
