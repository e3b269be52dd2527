// Package transport implements the raw UDP, TCP, and ZMQ listeners that
// feed decoded-message frames into the queue, plus the fabric that fans
// multiple listeners of the same decoder kind into one connectivity
// signal and one stream of frames.
package transport

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
)

// FrameHandler is invoked once per split frame read off a listener.
type FrameHandler func(kind config.Kind, frame []byte)

// Listener is the common contract implemented by udpListener, tcpListener,
// and zmqListener. Start and Stop are idempotent: calling either more than
// once, or calling Stop before Start, is a no-op.
type Listener interface {
	Start(ctx context.Context) error
	Stop()
	Connected() bool
	Stats() ListenerStats
	Descriptor() config.ConnectionDescriptor
}

// ListenerStats is a point-in-time readout of one listener's counters.
type ListenerStats struct {
	FramesReceived  int64
	BytesReceived   int64
	ReconnectCount  int64
	LastErrorString string
}

// counters is embedded by each concrete listener for atomic bookkeeping.
type counters struct {
	connected      atomic.Bool
	frames         atomic.Int64
	bytes          atomic.Int64
	reconnects     atomic.Int64
	lastErr        atomic.Value // string
}

func (c *counters) snapshot() ListenerStats {
	s := ListenerStats{
		FramesReceived: c.frames.Load(),
		BytesReceived:  c.bytes.Load(),
		ReconnectCount: c.reconnects.Load(),
	}
	if v, ok := c.lastErr.Load().(string); ok {
		s.LastErrorString = v
	}
	return s
}

func (c *counters) recordError(err error) {
	if err != nil {
		c.lastErr.Store(err.Error())
	}
}

func (c *counters) recordFrame(n int) {
	c.frames.Add(1)
	c.bytes.Add(int64(n))
}

// lifecycle provides the idempotent start/stop state machine shared by
// all listener implementations, mirroring the mutex+closing-flag+done-
// channel shape used for socket teardown.
type lifecycle struct {
	mu      sync.Mutex
	started bool
	closing bool
	cancel  context.CancelFunc
	done    chan struct{}
	log     zerolog.Logger
}

func (l *lifecycle) begin(parent context.Context) (context.Context, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil, false
	}
	ctx, cancel := context.WithCancel(parent)
	l.started = true
	l.closing = false
	l.cancel = cancel
	l.done = make(chan struct{})
	return ctx, true
}

func (l *lifecycle) end() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		close(done)
	}
}

func (l *lifecycle) stop() {
	l.mu.Lock()
	if !l.started || l.closing {
		l.mu.Unlock()
		return
	}
	l.closing = true
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	l.mu.Lock()
	l.started = false
	l.mu.Unlock()
}
