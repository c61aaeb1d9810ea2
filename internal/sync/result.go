package sync

import (
	"fmt"

	"github.com/zigwheels/catalog-sync/internal/reconcile"
)

// Result summarizes one stage run
type Result struct {
	Stage string `json:"stage"`

	// Processed counts records written, whatever their outcome
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`

	// Skipped counts remote records without an identifier
	Skipped int `json:"skipped"`

	// Units and FailedUnits count the parents fanned out over (models, variants)
	Units       int `json:"units,omitempty"`
	FailedUnits int `json:"failed_units,omitempty"`
}

func newResult(stage string) *Result {
	return &Result{Stage: stage}
}

func (r *Result) record(outcome reconcile.Outcome) {
	r.Processed++
	switch outcome {
	case reconcile.OutcomeCreated:
		r.Created++
	case reconcile.OutcomeUpdated:
		r.Updated++
	case reconcile.OutcomeUnchanged:
		r.Unchanged++
	}
}

func (r *Result) merge(other *Result) {
	if other == nil {
		return
	}
	r.Processed += other.Processed
	r.Created += other.Created
	r.Updated += other.Updated
	r.Unchanged += other.Unchanged
	r.Skipped += other.Skipped
}

// Error reports a stage that could not proceed
type Error struct {
	Stage string
	// Target is the parent being worked on, empty for whole-stage failures
	Target string
	Err    error
}

func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("sync %s (%s): %v", e.Stage, e.Target, e.Err)
	}
	return fmt.Sprintf("sync %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
