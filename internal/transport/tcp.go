package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// tcpListener dials a TCP endpoint, assembles whatever it reads into
// frames, and reconnects with backoff on loss. Connected() reflects
// whether the current dial succeeded; it flips false immediately on
// disconnect and true again once a subsequent dial succeeds.
type tcpListener struct {
	lifecycle
	counters

	desc    config.ConnectionDescriptor
	kind    config.Kind
	handler FrameHandler
	breaker *gobreaker.CircuitBreaker
}

func newTCPListener(kind config.Kind, desc config.ConnectionDescriptor, handler FrameHandler, log zerolog.Logger) *tcpListener {
	l := &tcpListener{
		desc:    desc,
		kind:    kind,
		handler: handler,
	}
	l.lifecycle.log = log.With().
		Str("component", "tcp_listener").
		Str("kind", string(kind)).
		Str("addr", fmt.Sprintf("%s:%d", desc.Host, desc.Port)).
		Logger()
	l.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("tcp-%s-%s:%d", kind, desc.Host, desc.Port),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return l
}

func (l *tcpListener) Descriptor() config.ConnectionDescriptor { return l.desc }

func (l *tcpListener) Start(parent context.Context) error {
	ctx, ok := l.lifecycle.begin(parent)
	if !ok {
		return nil
	}
	go l.reconnectLoop(ctx)
	return nil
}

func (l *tcpListener) reconnectLoop(ctx context.Context) {
	defer l.lifecycle.end()
	defer l.counters.connected.Store(false)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, err := l.breaker.Execute(func() (interface{}, error) {
			return nil, l.runOnce(ctx, func() { backoff = time.Second })
		})
		if err != nil {
			l.counters.recordError(err)
			l.counters.reconnects.Add(1)
			l.lifecycle.log.Warn().Err(err).Dur("backoff", backoff).Msg("tcp connection lost, retrying")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// runOnce dials once, calls onConnect after a successful connect so the
// caller can reset its backoff, and blocks reading lines until the
// connection drops or ctx is cancelled.
func (l *tcpListener) runOnce(ctx context.Context, onConnect func()) error {
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", l.desc.Host, l.desc.Port))
	if err != nil {
		return err
	}
	defer conn.Close()

	l.counters.connected.Store(true)
	l.lifecycle.log.Info().Msg("tcp connected")
	onConnect()
	defer l.counters.connected.Store(false)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 65536), 1<<20)
	var buffered string
	for scanner.Scan() {
		buffered += scanner.Text()
		frames := message.SplitFrame(buffered)
		if len(frames) == 0 {
			continue
		}
		l.counters.recordFrame(len(buffered))
		for _, frame := range frames {
			l.handler(l.kind, []byte(frame))
		}
		buffered = ""
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("tcp connection closed by peer")
}

func (l *tcpListener) Stop() { l.lifecycle.stop() }

func (l *tcpListener) Connected() bool { return l.counters.connected.Load() }

func (l *tcpListener) Stats() ListenerStats { return l.counters.snapshot() }
