package timeseries

import (
	"time"

	"github.com/rs/zerolog"
)

// Pruner deletes timeseries rows past each resolution's configured
// retention window. Grounded on the teacher's CachePruner ticker-loop
// pattern: a periodic sweep, best-effort per resolution, log-and-
// continue on error rather than aborting the whole sweep.
type Pruner struct {
	store     Store
	retention Retention
	log       zerolog.Logger
	now       func() time.Time
}

// NewPruner constructs a Pruner.
func NewPruner(store Store, retention Retention, log zerolog.Logger) *Pruner {
	return &Pruner{
		store:     store,
		retention: retention,
		log:       log.With().Str("component", "timeseries_pruner").Logger(),
		now:       time.Now,
	}
}

// Sweep prunes every resolution whose retention window is configured
// (non-zero). Called by the scheduler's prune_timeseries task.
func (p *Pruner) Sweep() error {
	var firstErr error
	for _, res := range allResolutions {
		window := retentionFor(res, p.retention)
		if window <= 0 {
			continue
		}
		cutoff := p.now().Add(-window)
		n, err := p.store.PruneTimeseries(string(res), cutoff)
		if err != nil {
			p.log.Error().Err(err).Str("resolution", string(res)).Msg("failed to prune timeseries")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n > 0 {
			p.log.Info().Str("resolution", string(res)).Int64("rows_deleted", n).Msg("pruned timeseries rows")
		}
	}
	return firstErr
}
