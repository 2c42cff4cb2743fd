package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRestarts int) SupervisorConfig {
	return SupervisorConfig{
		Name:           "test",
		MaxRestarts:    maxRestarts,
		RestartBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestSupervisor_RestartsUntilSuccess(t *testing.T) {
	calls := 0
	s := NewSupervisor(fastConfig(0), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("listen failed")
		}
		return nil
	})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, s.Restarts())
}

func TestSupervisor_RecoversPanics(t *testing.T) {
	calls := 0
	s := NewSupervisor(fastConfig(0), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return nil
	})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, s.Restarts())
}

func TestSupervisor_GivesUp(t *testing.T) {
	failure := errors.New("address in use")
	s := NewSupervisor(fastConfig(3), func(ctx context.Context) error {
		return failure
	})

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, s.Restarts())
}

func TestSupervisor_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	s := NewSupervisor(fastConfig(0), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop")
	}
	assert.Equal(t, 0, s.Restarts())
}
