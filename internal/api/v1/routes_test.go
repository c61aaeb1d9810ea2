package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	v1 "github.com/zigwheels/catalog-sync/internal/api/v1"
	"github.com/zigwheels/catalog-sync/internal/inventory"
	inventorymocks "github.com/zigwheels/catalog-sync/internal/inventory/mocks"
	"github.com/zigwheels/catalog-sync/internal/jobs"
	jobsmocks "github.com/zigwheels/catalog-sync/internal/jobs/mocks"
	"github.com/zigwheels/catalog-sync/internal/money"
)

// blockingJob runs until released
type blockingJob struct {
	name    string
	started chan jobs.Params
	release chan struct{}
}

func newBlockingJob(name string) *blockingJob {
	return &blockingJob{name: name, started: make(chan jobs.Params, 1), release: make(chan struct{})}
}

func (j *blockingJob) Name() string { return j.name }

func (j *blockingJob) Run(ctx context.Context, params jobs.Params) (*jobs.Result, error) {
	j.started <- params
	select {
	case <-j.release:
		return &jobs.Result{Stage: "variants"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fixture struct {
	store    *jobsmocks.MockRunStore
	variants *inventorymocks.MockReader
	job      *blockingJob
	runner   *jobs.Runner
	handler  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		store:    jobsmocks.NewMockRunStore(ctrl),
		variants: inventorymocks.NewMockReader(ctrl),
		job:      newBlockingJob("sync-variants"),
	}
	table, err := jobs.NewTable(f.job)
	require.NoError(t, err)
	f.runner = jobs.NewRunner(table, f.store)
	t.Cleanup(f.runner.Close)
	f.handler = v1.Router(f.runner, f.store, f.variants)
	return f
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestTriggerJob(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runID := uuid.New()
	modelID := uuid.New()

	f.store.EXPECT().Start(gomock.Any(), "sync-variants").Return(runID, nil)
	f.store.EXPECT().Finish(gomock.Any(), runID, gomock.Any(), gomock.Any()).Return(nil)

	rr := f.do(http.MethodPost, "/jobs/sync-variants?model_id="+modelID.String())
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "/v1/runs/"+runID.String(), rr.Header().Get("Location"))

	var resp v1.TriggerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, v1.TriggerResponse{Job: "sync-variants", RunID: runID}, resp)

	params := <-f.job.started
	assert.Equal(t, modelID, params.ModelID)

	// a second trigger while the first run is in progress is rejected
	rr = f.do(http.MethodPost, "/jobs/sync-variants")
	assert.Equal(t, http.StatusConflict, rr.Code)

	close(f.job.release)
}

func TestTriggerJobErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		setupFunc      func(f *fixture)
		expectedStatus int
	}{
		{
			name:           "unknown job",
			target:         "/jobs/sync-trims",
			setupFunc:      func(*fixture) {},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid model id",
			target:         "/jobs/sync-variants?model_id=1943",
			setupFunc:      func(*fixture) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "run cannot be recorded",
			target: "/jobs/sync-variants",
			setupFunc: func(f *fixture) {
				f.store.EXPECT().Start(gomock.Any(), "sync-variants").Return(uuid.Nil, errors.New("database down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.setupFunc(f)

			rr := f.do(http.MethodPost, tt.target)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	lastRunID := uuid.New()
	started := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	f.store.EXPECT().Latest(gomock.Any()).Return([]jobs.Run{
		{ID: lastRunID, Job: "sync-variants", Status: jobs.StatusCompleted, Processed: 120, FailedUnits: 2, StartedAt: started},
		{ID: uuid.New(), Job: "sync-retired", Status: jobs.StatusCompleted, StartedAt: started},
	}, nil)

	rr := f.do(http.MethodGet, "/jobs")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []v1.JobResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "sync-variants", resp[0].Name)
	assert.False(t, resp[0].Running)
	require.NotNil(t, resp[0].LastRun)
	assert.Equal(t, lastRunID, resp[0].LastRun.ID)
	assert.Equal(t, 2, resp[0].LastRun.FailedUnits)
}

func TestListJobsStoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.EXPECT().Latest(gomock.Any()).Return(nil, errors.New("database down"))

	rr := f.do(http.MethodGet, "/jobs")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		setupFunc      func(f *fixture)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "default limit",
			target: "/runs",
			setupFunc: func(f *fixture) {
				f.store.EXPECT().List(gomock.Any(), 20).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:   "explicit limit",
			target: "/runs?limit=1",
			setupFunc: func(f *fixture) {
				f.store.EXPECT().List(gomock.Any(), 1).Return([]jobs.Run{{Job: "sync-brands", Status: jobs.StatusRunning}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"job":"sync-brands"`,
		},
		{
			name:           "invalid limit",
			target:         "/runs?limit=-1",
			setupFunc:      func(*fixture) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.setupFunc(f)

			rr := f.do(http.MethodGet, tt.target)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
		})
	}
}

func TestGetRun(t *testing.T) {
	t.Parallel()

	runID := uuid.New()

	tests := []struct {
		name           string
		target         string
		setupFunc      func(f *fixture)
		expectedStatus int
	}{
		{
			name:   "found",
			target: "/runs/" + runID.String(),
			setupFunc: func(f *fixture) {
				f.store.EXPECT().Get(gomock.Any(), runID).Return(&jobs.Run{ID: runID, Job: "sync-brands"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "not found",
			target: "/runs/" + runID.String(),
			setupFunc: func(f *fixture) {
				f.store.EXPECT().Get(gomock.Any(), runID).Return(nil, jobs.ErrRunNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "store failure",
			target: "/runs/" + runID.String(),
			setupFunc: func(f *fixture) {
				f.store.EXPECT().Get(gomock.Any(), runID).Return(nil, errors.New("database down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "invalid id",
			target:         "/runs/latest",
			setupFunc:      func(*fixture) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.setupFunc(f)
			assert.Equal(t, tt.expectedStatus, f.do(http.MethodGet, tt.target).Code)
		})
	}
}

func TestGetVariant(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := uuid.New()
	minPrice := money.New(decimal.NewFromInt(700000), "PHP")
	maxPrice := money.New(decimal.NewFromInt(900000), "PHP")
	f.variants.EXPECT().GetVariant(gomock.Any(), id).Return(&inventory.Variant{
		ID:         id,
		ExternalID: "4069",
		Brand:      inventory.Ref{Name: "Toyota"},
		Model:      inventory.Ref{Name: "Vios"},
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		PriceRange: money.PriceRange(minPrice, maxPrice),
		Features:   []inventory.Feature{},
	}, nil)
	f.variants.EXPECT().GetVariant(gomock.Any(), gomock.Not(id)).Return(nil, inventory.ErrNotFound)

	rr := f.do(http.MethodGet, "/variants/"+id.String())
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "₱700,000.00 - ₱900,000.00", body["price_range"])
	assert.Equal(t, "4069", body["external_id"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/variants/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/variants/4069").Code)
}
