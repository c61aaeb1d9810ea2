// Package v1 provides the operator API: job triggers, run history and variant views.
package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zigwheels/catalog-sync/internal/api/common"
	"github.com/zigwheels/catalog-sync/internal/inventory"
	"github.com/zigwheels/catalog-sync/internal/jobs"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

// JobRunner starts jobs in the background
type JobRunner interface {
	Table() *jobs.Table
	Running(name string) (uuid.UUID, bool)
	Trigger(ctx context.Context, name string, params jobs.Params) (uuid.UUID, error)
}

// JobResponse describes one job
type JobResponse struct {
	Name    string     `json:"name"`
	Running bool       `json:"running"`
	RunID   *uuid.UUID `json:"current_run_id,omitempty"`
	LastRun *jobs.Run  `json:"last_run,omitempty"`
}

// TriggerResponse is returned when a run is accepted
type TriggerResponse struct {
	Job   string    `json:"job"`
	RunID uuid.UUID `json:"run_id"`
}

// Routes serves the v1 API
type Routes struct {
	runner   JobRunner
	runs     jobs.RunStore
	variants inventory.Reader
}

// Router creates the v1 router
func Router(runner JobRunner, runs jobs.RunStore, variants inventory.Reader) http.Handler {
	routes := &Routes{runner: runner, runs: runs, variants: variants}

	r := chi.NewRouter()
	r.Get("/jobs", routes.listJobs)
	r.Post("/jobs/{name}", routes.triggerJob)
	r.Get("/runs", routes.listRuns)
	r.Get("/runs/{id}", routes.getRun)
	r.Get("/variants/{id}", routes.getVariant)
	return r
}

// listJobs handles GET /v1/jobs
func (rt *Routes) listJobs(w http.ResponseWriter, r *http.Request) {
	latest, err := rt.runs.Latest(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list latest runs", "error", err)
		common.WriteErrorResponse(w, "Failed to list jobs", http.StatusInternalServerError)
		return
	}
	lastRun := make(map[string]jobs.Run, len(latest))
	for _, run := range latest {
		lastRun[run.Job] = run
	}

	names := rt.runner.Table().Names()
	resp := make([]JobResponse, 0, len(names))
	for _, name := range names {
		job := JobResponse{Name: name}
		if id, ok := rt.runner.Running(name); ok {
			job.Running = true
			if id != uuid.Nil {
				job.RunID = &id
			}
		}
		if run, ok := lastRun[name]; ok {
			job.LastRun = &run
		}
		resp = append(resp, job)
	}
	common.WriteJSONResponse(w, resp, http.StatusOK)
}

// triggerJob handles POST /v1/jobs/{name}. The optional model_id query
// parameter limits sync-variants to one stored model.
func (rt *Routes) triggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	modelID, err := common.OptionalUUIDQuery(r, "model_id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID, err := rt.runner.Trigger(r.Context(), name, jobs.Params{ModelID: modelID})
	switch {
	case errors.Is(err, jobs.ErrUnknownJob):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, jobs.ErrAlreadyRunning):
		common.WriteErrorResponse(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to trigger job", "job", name, "error", err)
		common.WriteErrorResponse(w, "Failed to trigger job", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Job triggered", "job", name, "run_id", runID)
	w.Header().Set("Location", "/v1/runs/"+runID.String())
	common.WriteJSONResponse(w, TriggerResponse{Job: name, RunID: runID}, http.StatusAccepted)
}

// listRuns handles GET /v1/runs
func (rt *Routes) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := common.LimitQuery(r, defaultRunsLimit, maxRunsLimit)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	runs, err := rt.runs.List(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list runs", "error", err)
		common.WriteErrorResponse(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []jobs.Run{}
	}
	common.WriteJSONResponse(w, runs, http.StatusOK)
}

// getRun handles GET /v1/runs/{id}
func (rt *Routes) getRun(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := rt.runs.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrRunNotFound) {
		common.WriteErrorResponse(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to get run", "run_id", id, "error", err)
		common.WriteErrorResponse(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, run, http.StatusOK)
}

// getVariant handles GET /v1/variants/{id}
func (rt *Routes) getVariant(w http.ResponseWriter, r *http.Request) {
	id, err := common.UUIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	variant, err := rt.variants.GetVariant(r.Context(), id)
	if errors.Is(err, inventory.ErrNotFound) {
		common.WriteErrorResponse(w, "Variant not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to get variant", "variant_id", id, "error", err)
		common.WriteErrorResponse(w, "Failed to get variant", http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, variant, http.StatusOK)
}
