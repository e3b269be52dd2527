// Package queue implements the bounded, drop-oldest in-memory message
// queue described in spec §4.3: a fixed-capacity FIFO that fans every
// pushed tuple out to a single downstream consumer while tracking
// cumulative and last-minute per-kind counters.
package queue

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/metrics"
)

// Item is one tuple carried through the queue.
type Item struct {
	Kind      config.Kind
	Payload   []byte
	Timestamp time.Time
}

// Consumer receives items popped off the queue, in push order.
type Consumer func(Item)

// Queue is a fixed-capacity, drop-oldest FIFO with statistics.
type Queue struct {
	mu       sync.Mutex
	items    []Item
	capacity int

	consumer Consumer
	log      zerolog.Logger

	stats      Stats
	resetTimer *time.Timer
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// New creates a bounded queue of the given capacity. If capacity <= 0 the
// spec default of 15 is used. consumer is invoked synchronously, in push
// order, for every item pushed (including ones that immediately overflow
// another item out).
func New(capacity int, consumer Consumer, log zerolog.Logger) *Queue {
	if capacity <= 0 {
		capacity = 15
	}
	q := &Queue{
		capacity: capacity,
		consumer: consumer,
		log:      log.With().Str("component", "queue").Logger(),
		stats:    newStats(),
		stopCh:   make(chan struct{}),
	}
	q.scheduleReset()
	return q
}

// Push appends an item, evicting the oldest if the queue is full, updates
// statistics, and invokes the consumer. Never blocks.
func (q *Queue) Push(kind config.Kind, payload []byte) {
	now := time.Now()
	item := Item{Kind: kind, Payload: payload, Timestamp: now}

	q.mu.Lock()
	overflowed := false
	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
		overflowed = true
	}
	q.items = append(q.items, item)
	q.stats.recordPush(kind, payload, overflowed)
	q.mu.Unlock()

	metrics.QueuePushedTotal.WithLabelValues(string(kind)).Inc()
	if overflowed {
		metrics.QueueDroppedTotal.WithLabelValues(string(kind)).Inc()
		q.log.Debug().Str("kind", string(kind)).Msg("queue full, dropped oldest item")
	}
	if q.consumer != nil {
		q.consumer(item)
	}
}

// RecordErrors adds amount to the per-kind error counter without
// pushing an item. Spec §4.3: "if the payload has a numeric error field
// greater than zero, the error counters by that amount" — the queue
// only ever sees the raw, unparsed payload at Push time, so the
// processor calls this once it has formatted the record and knows the
// real error count.
func (q *Queue) RecordErrors(kind config.Kind, amount int64) {
	if amount <= 0 {
		return
	}
	metrics.QueueErrorsTotal.WithLabelValues(string(kind)).Add(float64(amount))
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stats.RecordErrors(kind, amount)
}

// Length returns the current number of queued items.
func (q *Queue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns an independent copy of the current statistics.
func (q *Queue) Snapshot() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats.clone()
}

// ClearStatistics zeroes all counters (cumulative and last-minute).
func (q *Queue) ClearStatistics() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stats = newStats()
}

// Destroy stops the minute-reset timer and discards all queued items.
// Idempotent.
func (q *Queue) Destroy() {
	q.stopOnce.Do(func() {
		close(q.stopCh)
	})
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.resetTimer != nil {
		q.resetTimer.Stop()
	}
	q.items = nil
}

// scheduleReset arms a timer that fires at the next wall-clock minute
// boundary (ceil(now/60)) and zeroes the last-minute counters, tolerating
// wall-clock jumps by always recomputing the delay from time.Now at fire
// time rather than accumulating drift.
func (q *Queue) scheduleReset() {
	delay := nextMinuteBoundary(time.Now())
	q.mu.Lock()
	q.resetTimer = time.AfterFunc(delay, q.onMinuteBoundary)
	q.mu.Unlock()
}

func (q *Queue) onMinuteBoundary() {
	select {
	case <-q.stopCh:
		return
	default:
	}
	q.mu.Lock()
	q.stats.resetLastMinute()
	q.mu.Unlock()
	q.scheduleReset()
}

// nextMinuteBoundary returns the duration until ceil(now/60)*60.
func nextMinuteBoundary(now time.Time) time.Duration {
	next := now.Truncate(time.Minute).Add(time.Minute)
	d := next.Sub(now)
	if d <= 0 {
		d = time.Minute
	}
	return d
}
