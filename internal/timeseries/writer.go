package timeseries

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
)

// Writer snapshots CounterSource into Store at each resolution's fixed
// schedule, invoked once per minute by the scheduler's write_timeseries
// task (spec §4.8/§4.9).
type Writer struct {
	store  Store
	source CounterSource
	log    zerolog.Logger
	now    func() time.Time
}

// NewWriter constructs a Writer.
func NewWriter(store Store, source CounterSource, log zerolog.Logger) *Writer {
	return &Writer{
		store:  store,
		source: source,
		log:    log.With().Str("component", "timeseries_writer").Logger(),
		now:    time.Now,
	}
}

// Tick is called once per minute by the scheduler. It writes one point
// per resolution whose fixed schedule fires at the current
// minute-aligned time, skipping resolutions whose schedule hasn't come
// due yet. Failures are logged and do not stop the remaining
// resolutions from being attempted.
func (w *Writer) Tick() error {
	at := w.now().Truncate(time.Minute)
	counts := w.source()

	var firstErr error
	for _, res := range allResolutions {
		if !shouldFire(res, at) {
			continue
		}
		point := storage.TimeseriesPoint{
			Timestamp:  at,
			Resolution: string(res),
			ACARS:      counts.ACARS,
			VDLM:       counts.VDLM,
			HFDL:       counts.HFDL,
			IMSL:       counts.IMSL,
			IRDM:       counts.IRDM,
			Total:      counts.Total,
			Errors:     counts.Errors,
		}
		if err := w.store.InsertTimeseriesPoint(point); err != nil {
			w.log.Error().Err(err).Str("resolution", string(res)).Msg("failed to write timeseries point")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		w.log.Debug().Str("resolution", string(res)).Msg("timeseries point written")
	}
	return firstErr
}
