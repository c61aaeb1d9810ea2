package jobs_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zigwheels/catalog-sync/internal/jobs"
	pkgsync "github.com/zigwheels/catalog-sync/internal/sync"
)

// recordingRunner captures the stage calls made by jobs
type recordingRunner struct {
	stage   string
	runID   uuid.UUID
	modelID uuid.UUID
}

func (r *recordingRunner) RunStage(_ context.Context, stage string, runID uuid.UUID) (*pkgsync.Result, error) {
	r.stage, r.runID = stage, runID
	return &pkgsync.Result{Stage: stage}, nil
}

func (r *recordingRunner) SyncModelVariants(_ context.Context, modelID uuid.UUID) (*pkgsync.Result, error) {
	r.modelID = modelID
	return &pkgsync.Result{Stage: "variants", Units: 1}, nil
}

func TestStageJobs(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	table, err := jobs.NewTable(jobs.StageJobs(runner)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"sync-cities", "sync-brands", "sync-models", "sync-variants"}, table.Names())

	_, err = table.Get("sync-trims")
	require.ErrorIs(t, err, jobs.ErrUnknownJob)
}

func TestStageJobRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stage       string
		params      jobs.Params
		wantStage   string
		wantModelID bool
	}{
		{name: "brands ignores model", stage: "brands", params: jobs.Params{RunID: uuid.New(), ModelID: uuid.New()}, wantStage: "brands"},
		{name: "variants for every model", stage: "variants", params: jobs.Params{RunID: uuid.New()}, wantStage: "variants"},
		{name: "variants of one model", stage: "variants", params: jobs.Params{RunID: uuid.New(), ModelID: uuid.New()}, wantModelID: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &recordingRunner{}
			job := jobs.NewStageJob(tt.stage, runner)
			assert.Equal(t, "sync-"+tt.stage, job.Name())

			_, err := job.Run(context.Background(), tt.params)
			require.NoError(t, err)

			if tt.wantModelID {
				assert.Equal(t, tt.params.ModelID, runner.modelID)
				assert.Empty(t, runner.stage)
				return
			}
			assert.Equal(t, tt.wantStage, runner.stage)
			assert.Equal(t, tt.params.RunID, runner.runID)
		})
	}
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	_, err := jobs.NewTable(jobs.NewStageJob("brands", runner), jobs.NewStageJob("brands", runner))
	require.Error(t, err)
}
