package transport

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFabric_BuildsOneListenerPerDescriptor(t *testing.T) {
	cfg := &config.Config{
		ACARSConnections: "udp://127.0.0.1:18560,udp://127.0.0.1:18561",
		VDLMConnections:  "udp://127.0.0.1:18562",
	}
	f := NewFabric(cfg, func(config.Kind, []byte) {}, zerolog.Nop())

	assert.Len(t, f.listeners[config.KindACARS], 2)
	assert.Len(t, f.listeners[config.KindVDLM2], 1)
	assert.True(t, f.HasListeners(config.KindACARS))
	assert.False(t, f.HasListeners(config.KindHFDL))
}

func TestFabric_ConnectedIsORAcrossListeners(t *testing.T) {
	cfg := &config.Config{ACARSConnections: "udp://127.0.0.1:18563,udp://127.0.0.1:18564"}
	f := NewFabric(cfg, func(config.Kind, []byte) {}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.Start(ctx)
	defer f.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !f.Connected(config.KindACARS) {
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, f.Connected(config.KindACARS))

	snap := f.ConnectedSnapshot()
	assert.True(t, snap[config.KindACARS])
	assert.False(t, snap[config.KindHFDL])

	f.listeners[config.KindACARS][0].Stop()
	assert.True(t, f.Connected(config.KindACARS), "one listener still bound keeps the kind connected")
	f.listeners[config.KindACARS][1].Stop()
	assert.False(t, f.Connected(config.KindACARS), "kind is disconnected only when every listener is")
}

func TestFabric_NoListenersMeansDisconnected(t *testing.T) {
	f := NewFabric(&config.Config{}, func(config.Kind, []byte) {}, zerolog.Nop())
	assert.False(t, f.Connected(config.KindIRDM))
}
