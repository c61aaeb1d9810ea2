// Package jobs names the sync stages as jobs, records every invocation as a
// run and keeps a job from running twice at once in one process.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/zigwheels/catalog-sync/internal/config"
	pkgsync "github.com/zigwheels/catalog-sync/internal/sync"
)

var (
	// ErrUnknownJob is returned for names missing from the Table
	ErrUnknownJob = errors.New("unknown job")
	// ErrAlreadyRunning is returned when the job already has a run in progress in this process
	ErrAlreadyRunning = errors.New("job is already running")
)

// Result is the outcome of a job run
type Result = pkgsync.Result

// Params are passed to every run of a job
type Params struct {
	// RunID is the id of the run record; the variants stage scopes its units by it
	RunID uuid.UUID

	// ModelID restricts the variants job to one stored model
	ModelID uuid.UUID
}

// Job is a named unit of scheduled work
type Job interface {
	Name() string
	Run(ctx context.Context, params Params) (*Result, error)
}

// StageRunner runs sync stages
type StageRunner interface {
	RunStage(ctx context.Context, stage string, runID uuid.UUID) (*pkgsync.Result, error)
	SyncModelVariants(ctx context.Context, modelID uuid.UUID) (*pkgsync.Result, error)
}

// JobName returns the job name of a stage, e.g. "sync-brands"
func JobName(stage string) string {
	return "sync-" + stage
}

// StageJob runs one sync stage
type StageJob struct {
	stage  string
	runner StageRunner
}

// NewStageJob creates the job of stage
func NewStageJob(stage string, runner StageRunner) *StageJob {
	return &StageJob{stage: stage, runner: runner}
}

// Name implements Job
func (j *StageJob) Name() string {
	return JobName(j.stage)
}

// Stage returns the stage this job runs
func (j *StageJob) Stage() string {
	return j.stage
}

// Run implements Job
func (j *StageJob) Run(ctx context.Context, params Params) (*Result, error) {
	if j.stage == config.StageVariants && params.ModelID != uuid.Nil {
		return j.runner.SyncModelVariants(ctx, params.ModelID)
	}
	return j.runner.RunStage(ctx, j.stage, params.RunID)
}

// StageJobs returns one job per stage, in stage order
func StageJobs(runner StageRunner) []Job {
	jobs := make([]Job, 0, len(config.Stages))
	for _, stage := range config.Stages {
		jobs = append(jobs, NewStageJob(stage, runner))
	}
	return jobs
}

// Table is the fixed set of jobs known to a process
type Table struct {
	jobs  map[string]Job
	names []string
}

// NewTable creates a Table. Job names must be unique.
func NewTable(jobs ...Job) (*Table, error) {
	t := &Table{jobs: make(map[string]Job, len(jobs))}
	for _, job := range jobs {
		name := job.Name()
		if _, ok := t.jobs[name]; ok {
			return nil, fmt.Errorf("duplicate job %q", name)
		}
		t.jobs[name] = job
		t.names = append(t.names, name)
	}
	return t, nil
}

// Get returns the named job
func (t *Table) Get(name string) (Job, error) {
	job, ok := t.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return job, nil
}

// Names lists the jobs in registration order
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}
