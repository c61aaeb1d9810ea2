package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/zigwheels/catalog-sync/internal/config"
	"github.com/zigwheels/catalog-sync/internal/jobs"
)

// maxJitter bounds the random offset applied to each interval
const maxJitter = 30 * time.Second

// Coordinator runs scheduled jobs in the background
type Coordinator interface {
	// Start runs the schedules until ctx is cancelled or Stop is called
	Start(ctx context.Context) error

	// Stop stops all schedules and waits for Start to return
	Stop() error
}

// JobRunner runs a named job to completion
type JobRunner interface {
	Run(ctx context.Context, name string, params jobs.Params) (*jobs.Result, error)
}

type schedule struct {
	job      string
	interval time.Duration
}

type defaultCoordinator struct {
	runner    JobRunner
	schedules []schedule

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// New creates a Coordinator for the stages scheduled in cfg
func New(runner JobRunner, cfg *config.SyncConfig) Coordinator {
	c := &defaultCoordinator{
		runner: runner,
		done:   make(chan struct{}),
	}
	for _, stage := range config.Stages {
		if interval, ok := cfg.ScheduleFor(stage); ok {
			c.schedules = append(c.schedules, schedule{job: jobs.JobName(stage), interval: interval})
		}
	}
	return c
}

// withJitter offsets interval by up to a tenth of itself, capped at maxJitter,
// so that replicas started together do not poll the remote at the same instant
func withJitter(interval time.Duration) time.Duration {
	jitter := min(interval/10, maxJitter)
	if jitter <= 0 {
		return interval
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for scheduling jitter
	return interval + time.Duration(rand.Int64N(int64(2*jitter))) - jitter
}

// Start implements Coordinator
func (c *defaultCoordinator) Start(ctx context.Context) error {
	coordCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFunc = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		close(c.done)
		slog.Info("Sync coordinator stopped")
	}()

	if len(c.schedules) == 0 {
		slog.Info("No sync schedules configured, jobs run on demand only")
		<-coordCtx.Done()
		return nil
	}

	var wg sync.WaitGroup
	for _, s := range c.schedules {
		slog.Info("Scheduling sync job", "job", s.job, "interval", s.interval)
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.loop(coordCtx, s)
		}()
	}
	wg.Wait()
	return nil
}

// Stop implements Coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.mu.Unlock()

	if cancel != nil {
		slog.Info("Stopping sync coordinator")
		cancel()
		<-c.done
	}
	return nil
}

func (c *defaultCoordinator) loop(ctx context.Context, s schedule) {
	ticker := time.NewTicker(withJitter(s.interval))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runJob(ctx, s.job)
			ticker.Reset(withJitter(s.interval))
		case <-ctx.Done():
			return
		}
	}
}

func (c *defaultCoordinator) runJob(ctx context.Context, job string) {
	_, err := c.runner.Run(ctx, job, jobs.Params{})
	switch {
	case err == nil:
	case errors.Is(err, jobs.ErrAlreadyRunning):
		slog.Info("Skipping scheduled run, previous run still in progress", "job", job)
	case errors.Is(err, context.Canceled):
		slog.Debug("Scheduled run cancelled", "job", job)
	default:
		// the runner has already recorded and logged the failure
		slog.Debug("Scheduled run failed", "job", job, "error", err)
	}
}
