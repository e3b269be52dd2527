package adsb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// EventSink receives the poller's two event kinds. Grounded on the
// single-sink `emit(event, payload)` contract spec §4.7 describes for
// the orchestrator's sink — the poller uses the same shape rather than
// inventing its own notification mechanism.
type EventSink interface {
	Emit(event string, payload any)
}

const (
	EventData  = "adsb_snapshot"
	EventError = "error"
)

// Poller issues a GET request to url on a fixed interval, projects the
// response, and retains the last good snapshot across failures.
type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	sink     EventSink
	log      zerolog.Logger

	mu       sync.RWMutex
	cached   *Snapshot
	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// New constructs a Poller. timeout bounds each individual HTTP request;
// interval governs how often a poll is issued regardless of outcome.
func New(url string, interval, timeout time.Duration, sink EventSink, log zerolog.Logger) *Poller {
	return &Poller{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "adsb_poller",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
		}),
		sink: sink,
		log:  log.With().Str("component", "adsb_poller").Logger(),
		done: make(chan struct{}),
	}
}

// Start begins polling in the background and returns immediately; the
// background loop issues the first poll at once, then one per interval.
func (p *Poller) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap, err := p.fetch(ctx)
	if err != nil {
		p.log.Warn().Err(err).Str("url", p.url).Msg("adsb poll failed, retaining cached snapshot")
		if p.sink != nil {
			p.sink.Emit(EventError, err)
		}
		return
	}

	p.mu.Lock()
	p.cached = &snap
	p.mu.Unlock()

	if p.sink != nil {
		p.sink.Emit(EventData, snap)
	}
}

func (p *Poller) fetch(ctx context.Context) (Snapshot, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("adsb source returned status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return parseSnapshot(body)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return result.(Snapshot), nil
}

// GetCachedData returns the latest successfully-polled snapshot, or nil
// before the first success.
func (p *Poller) GetCachedData() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cached
}

// Stop cancels the polling loop and waits for it to exit. Idempotent.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		<-p.done
	})
}
