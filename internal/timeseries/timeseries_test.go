package timeseries

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdr-enthusiasts/acarshub-core/internal/alerts"
	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
)

func newTestEngine(t *testing.T) *storage.Engine {
	t.Helper()
	e, err := storage.Open(context.Background(), "file::memory:?cache=shared", alerts.NewCache(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestShouldFire(t *testing.T) {
	base := time.Date(2026, 7, 30, 18, 0, 0, 0, time.UTC)
	assert.True(t, shouldFire(Resolution1Min, base))
	assert.True(t, shouldFire(Resolution5Min, base))
	assert.True(t, shouldFire(Resolution1Hour, base))
	assert.True(t, shouldFire(Resolution6Hour, base))

	odd := time.Date(2026, 7, 30, 11, 7, 0, 0, time.UTC)
	assert.True(t, shouldFire(Resolution1Min, odd))
	assert.False(t, shouldFire(Resolution5Min, odd))
	assert.False(t, shouldFire(Resolution1Hour, odd))
	assert.False(t, shouldFire(Resolution6Hour, odd))

	fiveAligned := time.Date(2026, 7, 30, 11, 10, 0, 0, time.UTC)
	assert.True(t, shouldFire(Resolution5Min, fiveAligned))
	assert.False(t, shouldFire(Resolution6Hour, fiveAligned))

	sixAligned := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	assert.True(t, shouldFire(Resolution6Hour, sixAligned))
}

func TestWriter_Tick_WritesDueResolutions(t *testing.T) {
	e := newTestEngine(t)
	calls := 0
	source := func() Counts {
		calls++
		return Counts{ACARS: 3, Total: 3}
	}
	w := NewWriter(e, source, zerolog.Nop())
	w.now = func() time.Time { return time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, w.Tick())
	assert.Equal(t, 1, calls)

	for _, res := range allResolutions {
		points, err := e.TimeseriesSince(string(res), time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, points, 1, "resolution %s should have one point at a fully-aligned boundary", res)
		assert.EqualValues(t, 3, points[0].ACARS)
	}
}

func TestWriter_Tick_SkipsResolutionsNotDue(t *testing.T) {
	e := newTestEngine(t)
	source := func() Counts { return Counts{Total: 1} }
	w := NewWriter(e, source, zerolog.Nop())
	w.now = func() time.Time { return time.Date(2026, 7, 30, 11, 7, 0, 0, time.UTC) }

	require.NoError(t, w.Tick())

	points, err := e.TimeseriesSince(string(Resolution1Min), time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, points, 1)

	points, err = e.TimeseriesSince(string(Resolution1Hour), time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, points, 0)
}

func TestPruner_Sweep_DeletesOnlyPastRetention(t *testing.T) {
	e := newTestEngine(t)
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	old := storage.TimeseriesPoint{Timestamp: now.Add(-48 * time.Hour), Resolution: string(Resolution1Min), Total: 1}
	recent := storage.TimeseriesPoint{Timestamp: now.Add(-time.Minute), Resolution: string(Resolution1Min), Total: 2}
	require.NoError(t, e.InsertTimeseriesPoint(old))
	require.NoError(t, e.InsertTimeseriesPoint(recent))

	p := NewPruner(e, Retention{OneMinute: 24 * time.Hour}, zerolog.Nop())
	p.now = func() time.Time { return now }
	require.NoError(t, p.Sweep())

	points, err := e.TimeseriesSince(string(Resolution1Min), now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.EqualValues(t, 2, points[0].Total)
}

func TestPruner_Sweep_SkipsUnconfiguredResolutions(t *testing.T) {
	e := newTestEngine(t)
	p := NewPruner(e, Retention{}, zerolog.Nop())
	require.NoError(t, p.Sweep())
}
