package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushConsumesInOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	q := New(15, func(item Item) {
		mu.Lock()
		seen = append(seen, string(item.Payload))
		mu.Unlock()
	}, zerolog.Nop())
	defer q.Destroy()

	q.Push(config.KindACARS, []byte("one"))
	q.Push(config.KindACARS, []byte("two"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestQueue_DropOldestOnOverflow(t *testing.T) {
	q := New(2, func(Item) {}, zerolog.Nop())
	defer q.Destroy()

	q.Push(config.KindACARS, []byte("a"))
	q.Push(config.KindACARS, []byte("b"))
	q.Push(config.KindACARS, []byte("c"))

	require.Equal(t, 2, q.Length())
	snap := q.Snapshot()
	assert.EqualValues(t, 3, snap.TotalPushed)
	assert.EqualValues(t, 1, snap.TotalDropped)
	assert.EqualValues(t, 1, snap.ByKind[config.KindACARS].OverflowDrop)
}

func TestQueue_DefaultCapacity(t *testing.T) {
	q := New(0, func(Item) {}, zerolog.Nop())
	defer q.Destroy()
	for i := 0; i < 15; i++ {
		q.Push(config.KindVDLM2, []byte("x"))
	}
	assert.Equal(t, 15, q.Length())
}

func TestQueue_ClearStatistics(t *testing.T) {
	q := New(5, func(Item) {}, zerolog.Nop())
	defer q.Destroy()
	q.Push(config.KindHFDL, []byte("x"))
	q.ClearStatistics()
	snap := q.Snapshot()
	assert.Zero(t, snap.TotalPushed)
	assert.Zero(t, snap.ByKind[config.KindHFDL].Total)
}

func TestQueue_RecordErrors(t *testing.T) {
	q := New(5, func(Item) {}, zerolog.Nop())
	defer q.Destroy()
	q.RecordErrors(config.KindIMSL, 2)
	q.RecordErrors(config.KindIMSL, 3)
	assert.EqualValues(t, 5, q.Snapshot().ByKind[config.KindIMSL].ErrorCount)
}

func TestQueue_RecordErrors_IgnoresNonPositiveAmount(t *testing.T) {
	q := New(5, func(Item) {}, zerolog.Nop())
	defer q.Destroy()
	q.RecordErrors(config.KindIMSL, 0)
	q.RecordErrors(config.KindIMSL, -1)
	assert.Zero(t, q.Snapshot().ByKind[config.KindIMSL].ErrorCount)
}

func TestQueue_SnapshotIsIndependentCopy(t *testing.T) {
	q := New(5, func(Item) {}, zerolog.Nop())
	defer q.Destroy()
	q.Push(config.KindACARS, []byte("x"))
	snap := q.Snapshot()
	q.Push(config.KindACARS, []byte("y"))
	assert.EqualValues(t, 1, snap.TotalPushed)
	assert.EqualValues(t, 2, q.Snapshot().TotalPushed)
}

func TestNextMinuteBoundary(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 30, 0, time.UTC)
	d := nextMinuteBoundary(now)
	assert.Equal(t, 30*time.Second, d)

	onBoundary := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, time.Minute, nextMinuteBoundary(onBoundary))
}

func TestQueue_DestroyIdempotent(t *testing.T) {
	q := New(5, func(Item) {}, zerolog.Nop())
	q.Destroy()
	assert.NotPanics(t, func() { q.Destroy() })
	assert.Equal(t, 0, q.Length())
}
