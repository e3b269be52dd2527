// Package processor implements the per-message pipeline of spec §4.4:
// format the raw payload, hand it to storage for the counter/save/
// alert-matching unit of work, decoratively enrich it, and broadcast
// it to the sink. Every step is best-effort — a failure logs and the
// pipeline continues, never propagating an error back to the queue
// consumer.
package processor

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
	"github.com/sdr-enthusiasts/acarshub-core/internal/metrics"
	"github.com/sdr-enthusiasts/acarshub-core/internal/sink"
	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
)

// Store is the persistence seam the processor needs from the storage
// engine, satisfied by *storage.Engine.
type Store interface {
	AddMessage(r *message.Record, saveAll bool) (storage.AddResult, error)
}

// ErrorRecorder is the queue seam the processor reports per-message
// error counts through, satisfied by *queue.Queue. The queue only ever
// sees a raw, unparsed payload at push time, so the processor — the
// first place the formatted error count exists — reports it here
// (spec §4.3: "the error counters by that amount").
type ErrorRecorder interface {
	RecordErrors(kind config.Kind, amount int64)
}

// BroadcastMessage is the payload of the sink's `message` event: the
// normalized record plus the decorative annotations enrichment
// produced.
type BroadcastMessage struct {
	Record        *message.Record
	AirlineName   string
	StationName   string
	FormattedICAO string
}

// Processor wires the format -> persist -> enrich -> broadcast pipeline
// together.
type Processor struct {
	store    Store
	errors   ErrorRecorder
	enricher *Enricher
	sink     sink.Sink
	saveAll  bool
	log      zerolog.Logger

	stationMu  sync.Mutex
	stationIDs map[string]struct{}
}

// New constructs a Processor. saveAll mirrors spec §4.4 step 3's
// save-all flag: when true, every message is persisted regardless of
// whether it carries a meaningful payload. errors may be nil, in which
// case per-message error amounts are simply not reported anywhere.
func New(store Store, errors ErrorRecorder, enricher *Enricher, s sink.Sink, saveAll bool, log zerolog.Logger) *Processor {
	return &Processor{
		store:      store,
		errors:     errors,
		enricher:   enricher,
		sink:       s,
		saveAll:    saveAll,
		log:        log.With().Str("component", "processor").Logger(),
		stationIDs: make(map[string]struct{}),
	}
}

// Process runs spec §4.4 for one raw frame of the given decoder kind.
// It never returns an error: every step is best-effort and logs on
// failure, per §4.4's closing paragraph and §7's error table.
func (p *Processor) Process(kind config.Kind, frame []byte) {
	formatter, ok := message.Formatters[kind]
	if !ok {
		p.log.Debug().Str("kind", string(kind)).Msg("no formatter for decoder kind, skipping")
		return
	}

	r, err := formatter(frame)
	if err != nil {
		if err == message.ErrSkip {
			metrics.ProcessorStageTotal.WithLabelValues("format", "skip").Inc()
			p.log.Debug().Str("kind", string(kind)).Msg("payload skipped by formatter")
		} else {
			metrics.ProcessorStageTotal.WithLabelValues("format", "error").Inc()
			p.log.Debug().Err(err).Str("kind", string(kind)).Msg("failed to format payload")
		}
		return
	}
	metrics.ProcessorStageTotal.WithLabelValues("format", "ok").Inc()
	r.Kind = kind

	if p.errors != nil && r.Errors > 0 {
		p.errors.RecordErrors(kind, int64(r.Errors))
	}

	result, err := p.store.AddMessage(r, p.saveAll)
	if err != nil {
		metrics.ProcessorStageTotal.WithLabelValues("persist", "error").Inc()
		p.log.Error().Err(err).Str("kind", string(kind)).Msg("failed to persist message")
		return
	}
	metrics.ProcessorStageTotal.WithLabelValues("persist", "ok").Inc()
	r.UID = result.UID

	var airline, station, icao string
	if p.enricher != nil {
		airline, station, icao = p.enricher.Annotate(r.Flight, r.Station, r.ICAO)
	}

	if p.sink != nil {
		p.sink.Emit(sink.EventMessage, BroadcastMessage{
			Record:        r,
			AirlineName:   airline,
			StationName:   station,
			FormattedICAO: icao,
		})
		p.maybeBroadcastNewStation(r.Station)
	}
}

// maybeBroadcastNewStation emits station_ids whenever a station
// identifier not previously seen appears on a message (spec §4.4 step
// 8: "if the station identifier is new, additionally emit the updated
// set").
func (p *Processor) maybeBroadcastNewStation(station string) {
	if station == "" {
		return
	}
	p.stationMu.Lock()
	_, seen := p.stationIDs[station]
	if !seen {
		p.stationIDs[station] = struct{}{}
	}
	snapshot := p.stationIDsLocked()
	p.stationMu.Unlock()

	if !seen {
		p.sink.Emit(sink.EventStationIDs, snapshot)
	}
}

// stationIDsLocked returns a copy of the known station set. Caller must
// hold stationMu.
func (p *Processor) stationIDsLocked() []string {
	out := make([]string, 0, len(p.stationIDs))
	for id := range p.stationIDs {
		out = append(out, id)
	}
	return out
}
