package transport

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
)

// Fabric owns every listener across every decoder kind and exposes a
// single per-kind connectivity signal: a kind is "connected" if ANY of
// its listeners is connected (spec's OR semantics across multiple feeds
// of the same kind).
type Fabric struct {
	mu        sync.RWMutex
	listeners map[config.Kind][]Listener
	log       zerolog.Logger
}

// NewFabric builds listeners for every descriptor returned by
// config.ParseConnections for each configured kind, and wires them all to
// handler. No network I/O happens until Start is called.
func NewFabric(cfg *config.Config, handler FrameHandler, log zerolog.Logger) *Fabric {
	f := &Fabric{
		listeners: make(map[config.Kind][]Listener),
		log:       log.With().Str("component", "transport_fabric").Logger(),
	}
	for _, kind := range config.Kinds {
		raw := cfg.ConnectionsFor(kind)
		if raw == "" {
			continue
		}
		for _, desc := range config.ParseConnections(raw, kind) {
			f.listeners[kind] = append(f.listeners[kind], newListener(kind, desc, handler, log))
		}
	}
	return f
}

func newListener(kind config.Kind, desc config.ConnectionDescriptor, handler FrameHandler, log zerolog.Logger) Listener {
	switch desc.Transport {
	case config.TransportTCP:
		return newTCPListener(kind, desc, handler, log)
	case config.TransportZMQ:
		return newZMQListener(kind, desc, handler, log)
	default:
		return newUDPListener(kind, desc, handler, log)
	}
}

// Start starts every listener. A listener that fails to bind is logged
// and skipped; Start never returns an error since a single dead feed
// must not prevent the rest of the fabric from running.
func (f *Fabric) Start(ctx context.Context) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for kind, ls := range f.listeners {
		for _, l := range ls {
			if err := l.Start(ctx); err != nil {
				f.log.Error().Err(err).Str("kind", string(kind)).Msg("listener failed to start")
			}
		}
	}
}

// Stop stops every listener and waits for each to finish.
func (f *Fabric) Stop() {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ls := range f.listeners {
		for _, l := range ls {
			l.Stop()
		}
	}
}

// Connected reports whether at least one listener of kind is currently
// connected. A kind with zero configured listeners reports false.
func (f *Fabric) Connected(kind config.Kind) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, l := range f.listeners[kind] {
		if l.Connected() {
			return true
		}
	}
	return false
}

// ConnectedSnapshot returns the connectivity of every decoder kind.
func (f *Fabric) ConnectedSnapshot() map[config.Kind]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[config.Kind]bool, len(config.Kinds))
	for _, kind := range config.Kinds {
		connected := false
		for _, l := range f.listeners[kind] {
			if l.Connected() {
				connected = true
				break
			}
		}
		out[kind] = connected
	}
	return out
}

// Stats aggregates per-listener stats for kind.
func (f *Fabric) Stats(kind config.Kind) []ListenerStats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]ListenerStats, 0, len(f.listeners[kind]))
	for _, l := range f.listeners[kind] {
		out = append(out, l.Stats())
	}
	return out
}

// HasListeners reports whether any listener at all was configured for
// kind — used to distinguish "never configured" from "configured but
// currently disconnected" in status reporting.
func (f *Fabric) HasListeners(kind config.Kind) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.listeners[kind]) > 0
}
