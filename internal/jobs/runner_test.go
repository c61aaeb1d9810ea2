package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zigwheels/catalog-sync/internal/jobs"
	"github.com/zigwheels/catalog-sync/internal/jobs/mocks"
)

// stubJob returns a fixed outcome, optionally blocking until released
type stubJob struct {
	name    string
	res     *jobs.Result
	err     error
	started chan jobs.Params
	release chan struct{}
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run(ctx context.Context, params jobs.Params) (*jobs.Result, error) {
	if j.started != nil {
		j.started <- params
	}
	if j.release != nil {
		select {
		case <-j.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return j.res, j.err
}

func newRunner(t *testing.T, store jobs.RunStore, js ...jobs.Job) *jobs.Runner {
	t.Helper()
	table, err := jobs.NewTable(js...)
	require.NoError(t, err)
	runner := jobs.NewRunner(table, store)
	t.Cleanup(runner.Close)
	return runner
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()

	stageErr := errors.New("remote unavailable")

	testCases := []struct {
		name         string
		job          *stubJob
		setupFunc    func(t *testing.T, store *mocks.MockRunStore, runID uuid.UUID)
		scenarioFunc func(t *testing.T, res *jobs.Result, err error)
	}{
		{
			name: "completed run is recorded with its counts",
			job:  &stubJob{name: "sync-brands", res: &jobs.Result{Stage: "brands", Processed: 3}},
			//nolint:thelper // We want to see these lines in the test output
			setupFunc: func(_ *testing.T, store *mocks.MockRunStore, runID uuid.UUID) {
				store.EXPECT().Start(gomock.Any(), "sync-brands").Return(runID, nil)
				store.EXPECT().Finish(gomock.Any(), runID, &jobs.Result{Stage: "brands", Processed: 3}, nil).Return(nil)
			},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, res *jobs.Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, 3, res.Processed)
			},
		},
		{
			name: "failed run is recorded with its error",
			job:  &stubJob{name: "sync-brands", err: stageErr},
			//nolint:thelper // We want to see these lines in the test output
			setupFunc: func(_ *testing.T, store *mocks.MockRunStore, runID uuid.UUID) {
				store.EXPECT().Start(gomock.Any(), "sync-brands").Return(runID, nil)
				store.EXPECT().Finish(gomock.Any(), runID, gomock.Nil(), stageErr).Return(nil)
			},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, _ *jobs.Result, err error) {
				require.ErrorIs(t, err, stageErr)
			},
		},
		{
			name: "run store failure prevents the run",
			job:  &stubJob{name: "sync-brands"},
			//nolint:thelper // We want to see these lines in the test output
			setupFunc: func(_ *testing.T, store *mocks.MockRunStore, _ uuid.UUID) {
				store.EXPECT().Start(gomock.Any(), "sync-brands").Return(uuid.Nil, errors.New("database down"))
			},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, _ *jobs.Result, err error) {
				require.ErrorContains(t, err, "database down")
			},
		},
		{
			name: "failing to record the end does not fail the run",
			job:  &stubJob{name: "sync-brands"},
			//nolint:thelper // We want to see these lines in the test output
			setupFunc: func(_ *testing.T, store *mocks.MockRunStore, runID uuid.UUID) {
				store.EXPECT().Start(gomock.Any(), "sync-brands").Return(runID, nil)
				store.EXPECT().Finish(gomock.Any(), runID, &jobs.Result{}, nil).Return(errors.New("database down"))
			},
			//nolint:thelper // We want to see these lines in the test output
			scenarioFunc: func(t *testing.T, res *jobs.Result, err error) {
				require.NoError(t, err)
				assert.NotNil(t, res)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewMockRunStore(gomock.NewController(t))
			runID := uuid.New()
			tc.setupFunc(t, store, runID)

			runner := newRunner(t, store, tc.job)
			res, err := runner.Run(context.Background(), tc.job.name, jobs.Params{})
			tc.scenarioFunc(t, res, err)

			_, running := runner.Running(tc.job.name)
			assert.False(t, running)
		})
	}
}

func TestRunnerUnknownJob(t *testing.T) {
	t.Parallel()

	runner := newRunner(t, mocks.NewMockRunStore(gomock.NewController(t)))
	_, err := runner.Run(context.Background(), "sync-trims", jobs.Params{})
	require.ErrorIs(t, err, jobs.ErrUnknownJob)

	_, err = runner.Trigger(context.Background(), "sync-trims", jobs.Params{})
	require.ErrorIs(t, err, jobs.ErrUnknownJob)
}

func TestRunnerTrigger(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockRunStore(gomock.NewController(t))
	job := &stubJob{
		name:    "sync-variants",
		res:     &jobs.Result{Stage: "variants", Units: 2},
		started: make(chan jobs.Params, 1),
		release: make(chan struct{}),
	}
	runID := uuid.New()
	modelID := uuid.New()
	finished := make(chan struct{})

	store.EXPECT().Start(gomock.Any(), "sync-variants").Return(runID, nil)
	store.EXPECT().Finish(gomock.Any(), runID, job.res, nil).
		DoAndReturn(func(context.Context, uuid.UUID, *jobs.Result, error) error {
			close(finished)
			return nil
		})

	runner := newRunner(t, store, job)

	ctx, cancel := context.WithCancel(context.Background())
	got, err := runner.Trigger(ctx, "sync-variants", jobs.Params{ModelID: modelID})
	require.NoError(t, err)
	assert.Equal(t, runID, got)
	// the run outlives the triggering request
	cancel()

	params := <-job.started
	assert.Equal(t, runID, params.RunID)
	assert.Equal(t, modelID, params.ModelID)

	current, running := runner.Running("sync-variants")
	assert.True(t, running)
	assert.Equal(t, runID, current)

	_, err = runner.Trigger(context.Background(), "sync-variants", jobs.Params{})
	require.ErrorIs(t, err, jobs.ErrAlreadyRunning)
	_, err = runner.Run(context.Background(), "sync-variants", jobs.Params{})
	require.ErrorIs(t, err, jobs.ErrAlreadyRunning)

	close(job.release)
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("run was not recorded")
	}
	require.Eventually(t, func() bool {
		_, running := runner.Running("sync-variants")
		return !running
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunnerCloseCancelsBackgroundRuns(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockRunStore(gomock.NewController(t))
	job := &stubJob{name: "sync-models", started: make(chan jobs.Params, 1), release: make(chan struct{})}
	runID := uuid.New()

	store.EXPECT().Start(gomock.Any(), "sync-models").Return(runID, nil)
	store.EXPECT().Finish(gomock.Any(), runID, gomock.Nil(), context.Canceled).Return(nil)

	table, err := jobs.NewTable(job)
	require.NoError(t, err)
	runner := jobs.NewRunner(table, store)

	_, err = runner.Trigger(context.Background(), "sync-models", jobs.Params{})
	require.NoError(t, err)
	<-job.started

	runner.Close()
}
