package processor

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
	"github.com/sdr-enthusiasts/acarshub-core/internal/sink"
	"github.com/sdr-enthusiasts/acarshub-core/internal/storage"
)

type fakeStore struct {
	calls   int
	lastRec *message.Record
	result  storage.AddResult
	err     error
}

func (f *fakeStore) AddMessage(r *message.Record, saveAll bool) (storage.AddResult, error) {
	f.calls++
	f.lastRec = r
	return f.result, f.err
}

type recordingSink struct {
	events  []string
	records []any
}

func (s *recordingSink) Emit(event string, payload any) {
	s.events = append(s.events, event)
	s.records = append(s.records, payload)
}

func acarsFrame(t *testing.T) []byte {
	t.Helper()
	return []byte(`{"text": "hello", "flight": "UAL123", "station_id": "KJFK", "freq": "131.55"}`)
}

func TestProcessor_Process_PersistsAndBroadcasts(t *testing.T) {
	store := &fakeStore{result: storage.AddResult{UID: "uid-1", Persisted: true}}
	s := &recordingSink{}
	enricher := NewEnricher(map[string]string{"UAL": "United Airlines"}, map[string]string{"KJFK": "New York JFK"})
	p := New(store, nil, enricher, s, false, zerolog.Nop())

	p.Process(config.KindACARS, acarsFrame(t))

	require.Equal(t, 1, store.calls)
	assert.Equal(t, "UAL123", store.lastRec.Flight)

	require.Len(t, s.events, 2, "message then station_ids for a newly-seen station")
	assert.Equal(t, sink.EventMessage, s.events[0])
	bm := s.records[0].(BroadcastMessage)
	assert.Equal(t, "uid-1", bm.Record.UID)
	assert.Equal(t, "United Airlines", bm.AirlineName)
	assert.Equal(t, "New York JFK", bm.StationName)

	assert.Equal(t, sink.EventStationIDs, s.events[1])
	ids := s.records[1].([]string)
	assert.Contains(t, ids, "KJFK")
}

func TestProcessor_Process_StationIDsOnlyEmittedOnce(t *testing.T) {
	store := &fakeStore{result: storage.AddResult{UID: "uid-1", Persisted: true}}
	s := &recordingSink{}
	p := New(store, nil, nil, s, false, zerolog.Nop())

	p.Process(config.KindACARS, acarsFrame(t))
	p.Process(config.KindACARS, acarsFrame(t))

	stationEvents := 0
	for _, e := range s.events {
		if e == sink.EventStationIDs {
			stationEvents++
		}
	}
	assert.Equal(t, 1, stationEvents)
}

func TestProcessor_Process_UnknownKindSkips(t *testing.T) {
	store := &fakeStore{}
	p := New(store, nil, nil, nil, false, zerolog.Nop())

	p.Process(config.Kind("bogus"), []byte(`{}`))
	assert.Equal(t, 0, store.calls)
}

func TestProcessor_Process_MalformedPayloadSkips(t *testing.T) {
	store := &fakeStore{}
	p := New(store, nil, nil, nil, false, zerolog.Nop())

	p.Process(config.KindACARS, []byte(`not json`))
	assert.Equal(t, 0, store.calls)
}

func TestProcessor_Process_StorageErrorDoesNotPanic(t *testing.T) {
	store := &fakeStore{err: assertError("boom")}
	p := New(store, nil, nil, nil, false, zerolog.Nop())

	assert.NotPanics(t, func() { p.Process(config.KindACARS, acarsFrame(t)) })
}

type assertError string

func (e assertError) Error() string { return string(e) }

type fakeErrorRecorder struct {
	kind   config.Kind
	amount int64
	calls  int
}

func (f *fakeErrorRecorder) RecordErrors(kind config.Kind, amount int64) {
	f.kind = kind
	f.amount = amount
	f.calls++
}

func TestProcessor_Process_ReportsFormattedErrorCountToQueue(t *testing.T) {
	store := &fakeStore{result: storage.AddResult{UID: "uid-1", Persisted: true}}
	errs := &fakeErrorRecorder{}
	p := New(store, errs, nil, nil, false, zerolog.Nop())

	frame := []byte(`{"text": "hello", "flight": "UAL123", "station_id": "KJFK", "freq": "131.55", "error": 3}`)
	p.Process(config.KindACARS, frame)

	require.Equal(t, 1, errs.calls)
	assert.Equal(t, config.KindACARS, errs.kind)
	assert.EqualValues(t, 3, errs.amount)
}

func TestProcessor_Process_DoesNotReportZeroErrorCount(t *testing.T) {
	store := &fakeStore{result: storage.AddResult{UID: "uid-1", Persisted: true}}
	errs := &fakeErrorRecorder{}
	p := New(store, errs, nil, nil, false, zerolog.Nop())

	p.Process(config.KindACARS, acarsFrame(t))

	assert.Equal(t, 0, errs.calls)
}
