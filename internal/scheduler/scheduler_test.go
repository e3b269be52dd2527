package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_EveryRunsTask(t *testing.T) {
	s, err := New(zerolog.Nop())
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, s.Every("tick", 50*time.Millisecond, func() error {
		calls.Add(1)
		return nil
	}))

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && calls.Load() < 2 {
		time.Sleep(10 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestScheduler_FailingTaskDoesNotStopScheduler(t *testing.T) {
	s, err := New(zerolog.Nop())
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, s.Every("flaky", 50*time.Millisecond, func() error {
		calls.Add(1)
		return errors.New("boom")
	}))

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && calls.Load() < 3 {
		time.Sleep(10 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestFmtCron(t *testing.T) {
	assert.Equal(t, "30 * * * * *", fmtCron(30))
	assert.Equal(t, "0 * * * * *", fmtCron(0))
}

func TestRegisterDefaultTasks_SkipsNilCollaborators(t *testing.T) {
	s, err := New(zerolog.Nop())
	require.NoError(t, err)

	var pruneCalled atomic.Bool
	err = RegisterDefaultTasks(s, Collaborators{
		PruneDatabase: func() error { pruneCalled.Store(true); return nil },
	})
	require.NoError(t, err)
	assert.Len(t, s.gc.Jobs(), 1, "only the non-nil collaborator is registered")
}
