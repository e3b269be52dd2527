// Package orchestrator owns every core collaborator — the listener
// fabric, the queue, the scheduler, the optional ADS-B poller, and the
// sink reference — and wires them together per spec §4.7.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/adsb"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/metrics"
	"github.com/sdr-enthusiasts/acarshub-core/internal/processor"
	"github.com/sdr-enthusiasts/acarshub-core/internal/queue"
	"github.com/sdr-enthusiasts/acarshub-core/internal/scheduler"
	"github.com/sdr-enthusiasts/acarshub-core/internal/sink"
	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
	"github.com/sdr-enthusiasts/acarshub-core/internal/timeseries"
	"github.com/sdr-enthusiasts/acarshub-core/internal/transport"
)

// SystemStatus is the payload of the sink's `system_status` event: the
// OR'd connection state of every decoder kind's listeners.
type SystemStatus struct {
	Connected map[config.Kind]bool
	Timestamp time.Time
}

// Orchestrator wires the listener fabric, queue, processor, scheduler,
// optional ADS-B poller, and sink together and governs their lifecycle.
type Orchestrator struct {
	cfg      *config.Config
	engine   *storage.Engine
	enricher *processor.Enricher
	sink     sink.Sink
	log      zerolog.Logger

	fabric   *transport.Fabric
	q        *queue.Queue
	proc     *processor.Processor
	sched    *scheduler.Scheduler
	poller   *adsb.Poller
	tsWriter *timeseries.Writer
	tsPruner *timeseries.Pruner

	mu         sync.Mutex
	lastStatus map[config.Kind]bool
	cancelTick context.CancelFunc
	started    bool
}

// New constructs an Orchestrator. Call Initialize then Start.
func New(cfg *config.Config, engine *storage.Engine, enricher *processor.Enricher, s sink.Sink, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		engine:   engine,
		enricher: enricher,
		sink:     s,
		log:      log.With().Str("component", "orchestrator").Logger(),
	}
}

// Initialize builds the listener fabric, queue, processor, scheduler,
// and (if enabled) the ADS-B poller, wiring each to its collaborators,
// per spec §4.7 steps 1-4. It does not start anything.
func (o *Orchestrator) Initialize() error {
	o.q = queue.New(o.cfg.QueueCapacity, func(item queue.Item) {
		o.proc.Process(item.Kind, item.Payload)
	}, o.log)

	o.proc = processor.New(o.engine, o.q, o.enricher, o.sink, o.cfg.SaveAllMessages, o.log)

	o.fabric = transport.NewFabric(o.cfg, func(kind config.Kind, frame []byte) {
		o.q.Push(kind, frame)
		o.maybeEmitStatus()
	}, o.log)

	sc, err := scheduler.New(o.log)
	if err != nil {
		return err
	}
	o.sched = sc

	retention := timeseries.Retention{
		OneMinute:  time.Duration(o.cfg.TimeseriesRetention1MinHours) * time.Hour,
		FiveMinute: time.Duration(o.cfg.TimeseriesRetention5MinHours) * time.Hour,
		OneHour:    time.Duration(o.cfg.TimeseriesRetention1HourDays) * 24 * time.Hour,
		SixHour:    time.Duration(o.cfg.TimeseriesRetention6HourDays) * 24 * time.Hour,
	}
	o.tsWriter = timeseries.NewWriter(o.engine, o.queueCounts, o.log)
	o.tsPruner = timeseries.NewPruner(o.engine, retention, o.log)

	if err := scheduler.RegisterDefaultTasks(o.sched, scheduler.Collaborators{
		BroadcastSystemStatus: o.broadcastSystemStatus,
		PruneDatabase:         o.pruneDatabase,
		OptimizeMerge:         func() error { return o.engine.OptimizeMerge(0) },
		OptimizeRegular:       o.engine.OptimizeRegular,
		CheckListenerHealth:   o.checkListenerHealth,
		PruneTimeseries:       o.tsPruner.Sweep,
		WriteTimeseries:       o.tsWriter.Tick,
	}); err != nil {
		return err
	}

	if o.cfg.ADSBEnabled && o.cfg.ADSBURL != "" {
		o.poller = adsb.New(o.cfg.ADSBURL, o.cfg.ADSBPollInterval, o.cfg.ADSBTimeout, o.sink, o.log)
	}

	o.registerCollector()
	o.lastStatus = o.fabric.ConnectedSnapshot()
	return nil
}

// registerCollector registers the scrape-time listener/queue collector
// with the default prometheus registry. Re-registering an already
// running Orchestrator (Initialize called twice) would panic on
// AlreadyRegisteredError, so this tolerates that case silently — it
// only ever happens in tests that build more than one Orchestrator
// against the shared default registry.
func (o *Orchestrator) registerCollector() {
	collector := metrics.NewCollector(o.fabric, o.q)
	if err := prometheus.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			o.log.Warn().Err(err).Msg("failed to register metrics collector")
		}
	}
}

// queueCounts adapts the queue's last-minute statistics into a
// timeseries.Counts snapshot, keyed by decoder kind.
func (o *Orchestrator) queueCounts() timeseries.Counts {
	stats := o.q.Snapshot()
	var c timeseries.Counts
	for kind, ks := range stats.ByKind {
		switch kind {
		case config.KindACARS:
			c.ACARS = ks.LastMinute
		case config.KindVDLM2:
			c.VDLM = ks.LastMinute
		case config.KindHFDL:
			c.HFDL = ks.LastMinute
		case config.KindIMSL:
			c.IMSL = ks.LastMinute
		case config.KindIRDM:
			c.IRDM = ks.LastMinute
		}
		c.Total += ks.LastMinute
		c.Errors += ks.ErrorCount
	}
	return c
}

// StatsResponse is spec §6's stats response shape.
type StatsResponse struct {
	ACARS int64 `json:"acars"`
	VDLM2 int64 `json:"vdlm2"`
	HFDL  int64 `json:"hfdl"`
	IMSL  int64 `json:"imsl"`
	IRDM  int64 `json:"irdm"`
	Total int64 `json:"total"`
}

// Stats implements spec §6's stats response: sum the 1-minute
// timeseries_stats rows from the last hour; if none exist yet, fall
// back to the queue's cumulative per-kind totals.
func (o *Orchestrator) Stats() (StatsResponse, error) {
	since := time.Now().Add(-1 * time.Hour)
	totals, err := o.engine.SumTimeseriesSince(string(timeseries.Resolution1Min), since)
	if err != nil {
		return StatsResponse{}, err
	}
	if totals.Rows == 0 {
		snap := o.q.Snapshot()
		return StatsResponse{
			ACARS: snap.ByKind[config.KindACARS].Total,
			VDLM2: snap.ByKind[config.KindVDLM2].Total,
			HFDL:  snap.ByKind[config.KindHFDL].Total,
			IMSL:  snap.ByKind[config.KindIMSL].Total,
			IRDM:  snap.ByKind[config.KindIRDM].Total,
			Total: snap.TotalPushed,
		}, nil
	}
	return StatsResponse{
		ACARS: totals.ACARS,
		VDLM2: totals.VDLM,
		HFDL:  totals.HFDL,
		IMSL:  totals.IMSL,
		IRDM:  totals.IRDM,
		Total: totals.Total,
	}, nil
}

// Start begins every listener, the scheduler, and the poller (spec
// §4.7: "start every listener, the scheduler, and the poller").
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return nil
	}
	o.started = true
	o.mu.Unlock()

	o.fabric.Start(ctx)
	o.sched.Start()
	if o.poller != nil {
		o.poller.Start(ctx)
	}

	tickCtx, cancel := context.WithCancel(ctx)
	o.cancelTick = cancel
	go o.statusTickLoop(tickCtx)

	o.log.Info().Msg("orchestrator started")
	return nil
}

// Stop reverses Start in order, idempotently.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return
	}
	o.started = false
	o.mu.Unlock()

	if o.cancelTick != nil {
		o.cancelTick()
	}
	if o.poller != nil {
		o.poller.Stop()
	}
	if err := o.sched.Stop(); err != nil {
		o.log.Error().Err(err).Msg("scheduler shutdown error")
	}
	o.fabric.Stop()
	o.q.Destroy()

	o.log.Info().Msg("orchestrator stopped")
}

// statusTickLoop emits a full system-status event every 30 seconds,
// independent of the transition-triggered emission in maybeEmitStatus.
func (o *Orchestrator) statusTickLoop(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.emitStatus()
		}
	}
}

// broadcastSystemStatus is the scheduler's 30s task; it delegates to
// the same emission path as the ticker so the scheduler and the
// dedicated ticker never race to format two different payloads.
func (o *Orchestrator) broadcastSystemStatus() error {
	o.emitStatus()
	return nil
}

// maybeEmitStatus emits a system-status event only when at least one
// decoder kind's OR'd connection state has changed since the last
// emission (spec §4.7: "on every listener state transition").
func (o *Orchestrator) maybeEmitStatus() {
	current := o.fabric.ConnectedSnapshot()

	o.mu.Lock()
	changed := !statusEqual(o.lastStatus, current)
	if changed {
		o.lastStatus = current
	}
	o.mu.Unlock()

	if changed {
		o.emitStatus()
	}
}

func (o *Orchestrator) emitStatus() {
	if o.sink == nil {
		return
	}
	o.sink.Emit(sink.EventSystemStatus, SystemStatus{
		Connected: o.fabric.ConnectedSnapshot(),
		Timestamp: time.Now(),
	})
}

func statusEqual(a, b map[config.Kind]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// pruneDatabase is the scheduler's prune_database task.
func (o *Orchestrator) pruneDatabase() error {
	_, err := o.engine.PruneDatabase(o.cfg.MessageRetentionDays, o.cfg.AlertRetentionDays)
	return err
}

// checkListenerHealth is the scheduler's listener_health_check task: it
// re-evaluates the OR'd connection snapshot, which both surfaces a
// health report and triggers the transition-based status emission if
// anything changed since the last check.
func (o *Orchestrator) checkListenerHealth() error {
	o.maybeEmitStatus()
	return nil
}

// HealthReport is a point-in-time view of listener connectivity,
// exposed for an embedding caller's own health endpoint.
type HealthReport struct {
	Connected map[config.Kind]bool
}

// Health returns the current connection snapshot.
func (o *Orchestrator) Health() HealthReport {
	return HealthReport{Connected: o.fabric.ConnectedSnapshot()}
}
