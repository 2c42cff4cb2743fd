package commands

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/homedash/homedash/src/internal/log"
)

// Supervisor runs a long-lived task and restarts it with exponential backoff
// when it fails or panics.
type Supervisor struct {
	name           string
	runFunc        func(ctx context.Context) error
	maxRestarts    int           // 0 means unlimited
	restartBackoff time.Duration // Initial backoff duration
	maxBackoff     time.Duration // Maximum backoff duration
	restarts       atomic.Int32
}

// SupervisorConfig contains configuration for Supervisor.
type SupervisorConfig struct {
	Name           string
	MaxRestarts    int           // 0 = unlimited restarts
	RestartBackoff time.Duration // Initial backoff (default: 1s)
	MaxBackoff     time.Duration // Max backoff (default: 30s)
}

// NewSupervisor creates a supervisor for runFunc.
func NewSupervisor(cfg SupervisorConfig, runFunc func(ctx context.Context) error) *Supervisor {
	if cfg.RestartBackoff == 0 {
		cfg.RestartBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	return &Supervisor{
		name:           cfg.Name,
		runFunc:        runFunc,
		maxRestarts:    cfg.MaxRestarts,
		restartBackoff: cfg.RestartBackoff,
		maxBackoff:     cfg.MaxBackoff,
	}
}

// Restarts returns the number of restarts so far.
func (s *Supervisor) Restarts() int {
	return int(s.restarts.Load())
}

// Run blocks until ctx is cancelled, the task returns nil, or the restart
// limit is reached. Only the last case returns an error.
func (s *Supervisor) Run(ctx context.Context) error {
	backoff := s.restartBackoff

	for {
		err := s.runWithRecovery(ctx)
		if err == nil {
			log.Infof("%s: exited cleanly", s.name)
			return nil
		}
		if ctx.Err() != nil {
			log.Infof("%s: stopped", s.name)
			return nil
		}

		restarts := int(s.restarts.Add(1))
		if s.maxRestarts > 0 && restarts >= s.maxRestarts {
			return fmt.Errorf("%s: giving up after %d restarts: %w", s.name, s.maxRestarts, err)
		}

		log.Errorf("%s: failed: %v. Restarting in %v (restart #%d)", s.name, err, backoff, restarts)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
	}
}

// runWithRecovery runs the task and turns a panic into an error.
func (s *Supervisor) runWithRecovery(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()

	return s.runFunc(ctx)
}
