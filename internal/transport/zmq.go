package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// zmqListener subscribes to a ZMQ PUB endpoint (the transport used by
// acarsdec/dumpvdl2/dumphfdl's native ZMQ output mode) on all topics.
//
// go-zeromq/zmq4 has no libzmq-style monitor socket or connect/disconnect
// event stream to read independently of the data path — its Socket
// interface exposes only Dial/SetOption/Recv/Close. Connected() is
// therefore the same best-effort signal the tcp listener uses: true
// once Dial+SetOption succeed, false the moment Recv returns an error.
// On a quiet topic a dead peer is only discovered whenever the
// underlying TCP stream itself notices (FIN/RST), not sooner.
type zmqListener struct {
	lifecycle
	counters

	desc    config.ConnectionDescriptor
	kind    config.Kind
	handler FrameHandler
	breaker *gobreaker.CircuitBreaker
}

func newZMQListener(kind config.Kind, desc config.ConnectionDescriptor, handler FrameHandler, log zerolog.Logger) *zmqListener {
	l := &zmqListener{
		desc:    desc,
		kind:    kind,
		handler: handler,
	}
	l.lifecycle.log = log.With().
		Str("component", "zmq_listener").
		Str("kind", string(kind)).
		Str("addr", fmt.Sprintf("%s:%d", desc.Host, desc.Port)).
		Logger()
	l.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("zmq-%s-%s:%d", kind, desc.Host, desc.Port),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return l
}

func (l *zmqListener) Descriptor() config.ConnectionDescriptor { return l.desc }

func (l *zmqListener) Start(parent context.Context) error {
	ctx, ok := l.lifecycle.begin(parent)
	if !ok {
		return nil
	}
	go l.reconnectLoop(ctx)
	return nil
}

func (l *zmqListener) reconnectLoop(ctx context.Context) {
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
			return nil, l.runOnce(ctx)
		})
		if err != nil {
			l.counters.recordError(err)
			l.counters.reconnects.Add(1)
			l.lifecycle.log.Warn().Err(err).Dur("backoff", backoff).Msg("zmq connection lost, retrying")
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

// runOnce dials once and blocks receiving frames until the socket
// errors or ctx is cancelled.
func (l *zmqListener) runOnce(ctx context.Context) error {
	sock := zmq4.NewSub(ctx)
	defer sock.Close()

	endpoint := fmt.Sprintf("tcp://%s:%d", l.desc.Host, l.desc.Port)
	if err := sock.Dial(endpoint); err != nil {
		return err
	}
	if err := sock.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		return err
	}

	l.counters.connected.Store(true)
	l.lifecycle.log.Info().Msg("zmq subscriber connected")
	defer l.counters.connected.Store(false)

	for {
		msg, err := sock.Recv()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}
		for _, frame := range msg.Frames {
			l.counters.recordFrame(len(frame))
			for _, f := range message.SplitFrame(string(frame)) {
				l.handler(l.kind, []byte(f))
			}
		}
	}
}

func (l *zmqListener) Stop() { l.lifecycle.stop() }

func (l *zmqListener) Connected() bool { return l.counters.connected.Load() }

func (l *zmqListener) Stats() ListenerStats { return l.counters.snapshot() }
