package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdr-enthusiasts/acarshub-core/internal/alerts"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/processor"
	"github.com/sdr-enthusiasts/acarshub-core/internal/sink"
	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *storage.Engine, *sink.Fanout) {
	t.Helper()
	engine, err := storage.Open(context.Background(), "file::memory:?cache=shared", alerts.NewCache(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	s := sink.NewFanout()
	cfg := &config.Config{QueueCapacity: 15, DBPath: ":memory:"}
	o := New(cfg, engine, processor.NewEnricher(nil, nil), s, zerolog.Nop())
	require.NoError(t, o.Initialize())
	return o, engine, s
}

func TestOrchestrator_InitializeBuildsCollaborators(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	assert.NotNil(t, o.fabric)
	assert.NotNil(t, o.q)
	assert.NotNil(t, o.proc)
	assert.NotNil(t, o.sched)
	assert.Nil(t, o.poller, "ADS-B disabled by default config")
}

func TestOrchestrator_StartStopIsIdempotent(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, o.Start(ctx))
	require.NoError(t, o.Start(ctx))
	o.Stop()
	assert.NotPanics(t, o.Stop)
}

func TestOrchestrator_HealthReflectsNoListeners(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	health := o.Health()
	for _, kind := range config.Kinds {
		assert.False(t, health.Connected[kind])
	}
}

func TestOrchestrator_EmitStatusOnDemand(t *testing.T) {
	o, _, s := newTestOrchestrator(t)

	var got []string
	cancel := s.Subscribe(func(event string, payload any) { got = append(got, event) })
	defer cancel()

	o.emitStatus()
	require.Contains(t, got, sink.EventSystemStatus)
}

func TestOrchestrator_PruneDatabaseTaskRuns(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	assert.NoError(t, o.pruneDatabase())
}

func TestOrchestrator_QueueCountsAggregatesByKind(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	o.q.Push(config.KindACARS, []byte(`{"freq":"131.550"}`))
	time.Sleep(10 * time.Millisecond)

	counts := o.queueCounts()
	assert.GreaterOrEqual(t, counts.Total, int64(0))
	assert.Equal(t, counts.ACARS, counts.Total, "only ACARS was pushed, so its count is the whole total")
}

func TestOrchestrator_Stats_FallsBackToQueueTotalsWhenNoTimeseriesRows(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	o.q.Push(config.KindACARS, []byte(`{"freq":"131.550"}`))
	o.q.Push(config.KindACARS, []byte(`{"freq":"131.550"}`))
	o.q.Push(config.KindVDLM2, []byte(`{}`))

	stats, err := o.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.ACARS)
	assert.EqualValues(t, 1, stats.VDLM2)
	assert.EqualValues(t, 3, stats.Total)
}

func TestOrchestrator_Stats_SumsTimeseriesRowsWhenPresent(t *testing.T) {
	o, engine, _ := newTestOrchestrator(t)
	now := time.Now()
	require.NoError(t, engine.InsertTimeseriesPoint(storage.TimeseriesPoint{
		Timestamp: now, Resolution: "1min", ACARS: 4, VDLM: 1, Total: 5,
	}))
	require.NoError(t, engine.InsertTimeseriesPoint(storage.TimeseriesPoint{
		Timestamp: now.Add(-30 * time.Minute), Resolution: "1min", ACARS: 2, Total: 2,
	}))

	stats, err := o.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 6, stats.ACARS)
	assert.EqualValues(t, 1, stats.VDLM2)
	assert.EqualValues(t, 7, stats.Total)
}
