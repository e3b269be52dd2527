// Package sink defines the single-sink broadcast contract the core
// emits events through. The real-time subscriber fabric is an external
// collaborator; this package only specifies and exercises the seam
// (`Emit(event, payload)`) plus a minimal in-process fan-out usable as
// a default/test sink.
package sink

import "sync"

const (
	EventMessage      = "message"
	EventStationIDs   = "station_ids"
	EventSystemStatus = "system_status"
	EventADSBSnapshot = "adsb_snapshot"
	EventError        = "error"
)

// Sink is the single broadcast seam the core emits events through. How
// (or whether) anything downstream subscribes is outside the core's
// concern.
type Sink interface {
	Emit(event string, payload any)
}

// Func adapts a plain function to the Sink interface.
type Func func(event string, payload any)

func (f Func) Emit(event string, payload any) { f(event, payload) }

// Fanout is a minimal multi-subscriber Sink: every Emit call is
// delivered to every currently-registered subscriber function. Useful
// as a default sink in tests and in the reference binary before a real
// subscriber fabric is wired in.
type Fanout struct {
	mu          sync.RWMutex
	subscribers map[int]Func
	nextID      int
}

// NewFanout constructs an empty Fanout.
func NewFanout() *Fanout {
	return &Fanout{subscribers: make(map[int]Func)}
}

// Subscribe registers fn to receive every future Emit call. The
// returned function unregisters it; calling it more than once is safe.
func (f *Fanout) Subscribe(fn Func) (cancel func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subscribers[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, id)
			f.mu.Unlock()
		})
	}
}

// Emit delivers event/payload to every current subscriber, synchronously
// and in no particular order. A panicking subscriber does not prevent
// delivery to the others.
func (f *Fanout) Emit(event string, payload any) {
	f.mu.RLock()
	subs := make([]Func, 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subs = append(subs, fn)
	}
	f.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() { recover() }()
			fn(event, payload)
		}()
	}
}
