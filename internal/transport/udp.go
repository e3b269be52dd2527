package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/sdr-enthusiasts/acarshub-core/internal/message"
)

// udpListener binds a UDP socket and treats every datagram as one or more
// concatenated JSON frames. UDP is connectionless: Connected() reports true
// from the moment the socket is bound until Stop is called or a read error
// ends the serve loop, since there is no peer handshake to track. The
// socket is not rebound after a read error.
type udpListener struct {
	lifecycle
	counters

	desc    config.ConnectionDescriptor
	kind    config.Kind
	handler FrameHandler
}

// newUDPListener constructs a UDP listener for desc.
func newUDPListener(kind config.Kind, desc config.ConnectionDescriptor, handler FrameHandler, log zerolog.Logger) *udpListener {
	l := &udpListener{
		desc:    desc,
		kind:    kind,
		handler: handler,
	}
	l.lifecycle.log = log.With().
		Str("component", "udp_listener").
		Str("kind", string(kind)).
		Str("addr", fmt.Sprintf("%s:%d", desc.Host, desc.Port)).
		Logger()
	return l
}

func (l *udpListener) Descriptor() config.ConnectionDescriptor { return l.desc }

func (l *udpListener) Start(parent context.Context) error {
	ctx, ok := l.lifecycle.begin(parent)
	if !ok {
		return nil
	}

	addr := &net.UDPAddr{IP: net.ParseIP(l.desc.Host), Port: l.desc.Port}
	if addr.IP == nil {
		addr.IP = net.IPv4zero
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		l.lifecycle.end()
		return fmt.Errorf("udp listen %s: %w", l.desc.Host, err)
	}
	l.counters.connected.Store(true)
	l.lifecycle.log.Info().Msg("udp listener bound")

	go l.serve(ctx, conn)
	return nil
}

func (l *udpListener) serve(ctx context.Context, conn *net.UDPConn) {
	defer l.lifecycle.end()
	defer conn.Close()
	defer l.counters.connected.Store(false)

	buf := make([]byte, 65536)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			l.counters.recordError(err)
			l.lifecycle.log.Warn().Err(err).Msg("udp read error")
			return
		}
		l.counters.recordFrame(n)
		for _, frame := range message.SplitFrame(string(buf[:n])) {
			l.handler(l.kind, []byte(frame))
		}
	}
}

func (l *udpListener) Stop() { l.lifecycle.stop() }

func (l *udpListener) Connected() bool { return l.counters.connected.Load() }

func (l *udpListener) Stats() ListenerStats { return l.counters.snapshot() }
