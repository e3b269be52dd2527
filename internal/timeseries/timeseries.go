// Package timeseries writes periodic snapshots of the queue's counters
// at a fixed per-resolution schedule and prunes rows past each
// resolution's retention window, per spec §4.9.
package timeseries

import (
	"time"

	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
)

// Resolution identifies one of the fixed aggregation windows.
type Resolution string

const (
	Resolution1Min  Resolution = "1min"
	Resolution5Min  Resolution = "5min"
	Resolution1Hour Resolution = "1hour"
	Resolution6Hour Resolution = "6hour"
)

// Counts is the per-kind message tally snapshotted at a tick.
type Counts struct {
	ACARS, VDLM, HFDL, IMSL, IRDM, Total, Errors int64
}

// Store is the persistence contract the writer and pruner need,
// satisfied by *storage.Engine.
type Store interface {
	InsertTimeseriesPoint(p storage.TimeseriesPoint) error
	PruneTimeseries(resolution string, cutoff time.Time) (int64, error)
}

// CounterSource supplies the counts to snapshot at each tick — backed
// by the queue's last-minute statistics.
type CounterSource func() Counts

// shouldFire reports whether resolution's fixed schedule fires at
// minute-aligned time t: 1min every minute, 5min every 5, 1hour every
// hour, 6hour every 6 hours.
func shouldFire(resolution Resolution, t time.Time) bool {
	switch resolution {
	case Resolution1Min:
		return true
	case Resolution5Min:
		return t.Minute()%5 == 0
	case Resolution1Hour:
		return t.Minute() == 0
	case Resolution6Hour:
		return t.Minute() == 0 && t.Hour()%6 == 0
	default:
		return false
	}
}

// retentionFor returns the configured retention window for resolution.
func retentionFor(resolution Resolution, retention Retention) time.Duration {
	switch resolution {
	case Resolution1Min:
		return retention.OneMinute
	case Resolution5Min:
		return retention.FiveMinute
	case Resolution1Hour:
		return retention.OneHour
	case Resolution6Hour:
		return retention.SixHour
	default:
		return 0
	}
}

// Retention holds the per-resolution retention windows, sourced from
// configuration.
type Retention struct {
	OneMinute  time.Duration
	FiveMinute time.Duration
	OneHour    time.Duration
	SixHour    time.Duration
}

var allResolutions = []Resolution{Resolution1Min, Resolution5Min, Resolution1Hour, Resolution6Hour}
