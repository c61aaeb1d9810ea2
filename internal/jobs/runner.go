package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Runner runs jobs from a Table and records each run in a RunStore
type Runner struct {
	table *Table
	store RunStore

	mu      sync.Mutex
	running map[string]uuid.UUID

	// background runs started by Trigger
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates a Runner
func NewRunner(table *Table, store RunStore) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		table:   table,
		store:   store,
		running: make(map[string]uuid.UUID),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Table returns the jobs this runner knows
func (r *Runner) Table() *Table {
	return r.table
}

// Running returns the run id of the named job if it is in progress
func (r *Runner) Running(name string) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.running[name]
	return id, ok
}

// Run runs the named job and waits for it. The run is recorded whatever its outcome.
func (r *Runner) Run(ctx context.Context, name string, params Params) (*Result, error) {
	job, runID, err := r.begin(ctx, name)
	if err != nil {
		return nil, err
	}
	params.RunID = runID
	return r.execute(ctx, job, params)
}

// Trigger starts the named job in the background and returns the id of its run.
// The run outlives ctx; Close cancels it.
func (r *Runner) Trigger(ctx context.Context, name string, params Params) (uuid.UUID, error) {
	job, runID, err := r.begin(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	params.RunID = runID

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_, _ = r.execute(r.baseCtx, job, params)
	}()
	return runID, nil
}

// Close cancels background runs and waits for them to be recorded
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}

// begin resolves the job, claims it for this process and records the run
func (r *Runner) begin(ctx context.Context, name string) (Job, uuid.UUID, error) {
	job, err := r.table.Get(name)
	if err != nil {
		return nil, uuid.Nil, err
	}

	r.mu.Lock()
	if id, ok := r.running[name]; ok {
		r.mu.Unlock()
		return nil, uuid.Nil, fmt.Errorf("%w: %s (run %s)", ErrAlreadyRunning, name, id)
	}
	r.running[name] = uuid.Nil
	r.mu.Unlock()

	runID, err := r.store.Start(ctx, name)
	if err != nil {
		r.release(name)
		return nil, uuid.Nil, err
	}

	r.mu.Lock()
	r.running[name] = runID
	r.mu.Unlock()
	return job, runID, nil
}

func (r *Runner) release(name string) {
	r.mu.Lock()
	delete(r.running, name)
	r.mu.Unlock()
}

func (r *Runner) execute(ctx context.Context, job Job, params Params) (*Result, error) {
	name := job.Name()
	defer r.release(name)

	slog.InfoContext(ctx, "Starting job", "job", name, "run_id", params.RunID)
	start := time.Now()

	res, runErr := job.Run(ctx, params)
	if res == nil && runErr == nil {
		res = &Result{}
	}

	// the run is recorded even when ctx was cancelled
	if err := r.store.Finish(context.WithoutCancel(ctx), params.RunID, res, runErr); err != nil {
		slog.ErrorContext(ctx, "Failed to record job run",
			"job", name,
			"run_id", params.RunID,
			"error", err)
	}

	if runErr != nil {
		slog.ErrorContext(ctx, "Job failed",
			"job", name,
			"run_id", params.RunID,
			"duration", time.Since(start),
			"error", runErr)
		return res, runErr
	}

	slog.InfoContext(ctx, "Job completed",
		"job", name,
		"run_id", params.RunID,
		"processed", res.Processed,
		"failed_units", res.FailedUnits,
		"duration", time.Since(start))
	return res, nil
}
