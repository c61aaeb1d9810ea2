package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/zigwheels/catalog-sync/internal/config"
	"github.com/zigwheels/catalog-sync/internal/otel"
	"github.com/zigwheels/catalog-sync/internal/sync/queue"
)

// unit status labels recorded in metrics, matching the sync_unit statuses
const (
	unitCompleted = "COMPLETED"
	unitFailed    = "FAILED"
)

// SyncVariants enqueues one unit per stored model under runID and drains the
// run with the configured number of workers. Units left by other processes
// draining the same run are included in the unit counts.
func (o *Orchestrator) SyncVariants(ctx context.Context, runID uuid.UUID) (*Result, error) {
	return o.instrument(ctx, config.StageVariants, func(ctx context.Context, res *Result) error {
		models, err := o.store.ListModels(ctx)
		if err != nil {
			return &Error{Stage: config.StageVariants, Err: err}
		}

		targets := make([]string, 0, len(models))
		for _, m := range models {
			targets = append(targets, m.ID.String())
		}
		if err := o.queue.Enqueue(ctx, runID, targets); err != nil {
			return &Error{Stage: config.StageVariants, Err: err}
		}
		slog.InfoContext(ctx, "Enqueued variant units", "run_id", runID, "units", len(targets), "workers", o.workers)

		if err := o.drain(ctx, runID, res); err != nil {
			return &Error{Stage: config.StageVariants, Err: err}
		}

		summary, err := o.queue.Summarize(ctx, runID)
		if err != nil {
			return &Error{Stage: config.StageVariants, Err: err}
		}
		res.Units = int(summary.Total)
		res.FailedUnits = int(summary.Failed)
		res.Processed = int(summary.Processed)
		return nil
	})
}

// SyncModelVariants runs the unit of one stored model directly, without the queue
func (o *Orchestrator) SyncModelVariants(ctx context.Context, modelID uuid.UUID) (*Result, error) {
	return o.instrument(ctx, config.StageVariants, func(ctx context.Context, res *Result) error {
		model, err := o.store.GetModel(ctx, modelID)
		if err != nil {
			return &Error{Stage: config.StageVariants, Target: modelID.String(), Err: err}
		}
		res.Units = 1

		unitRes, err := o.syncModelVariants(ctx, model)
		res.merge(unitRes)
		if err != nil {
			return &Error{Stage: config.StageVariants, Target: model.ExternalID.String(), Err: err}
		}
		return nil
	})
}

// drain claims and runs units until the run has none pending. Only queue
// failures stop the workers; a failing unit is recorded and skipped.
func (o *Orchestrator) drain(ctx context.Context, runID uuid.UUID, res *Result) error {
	var mu stdsync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for range o.workers {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				unit, err := o.queue.Claim(gctx, runID)
				if err != nil {
					return err
				}
				if unit == nil {
					return nil
				}

				unitRes, err := o.runUnit(gctx, unit)
				if err != nil {
					return err
				}
				mu.Lock()
				res.merge(unitRes)
				mu.Unlock()
			}
		})
	}
	return g.Wait()
}

// runUnit syncs the variants of one model and settles the unit on the queue.
// The returned error is a queue error; unit failures are recorded, not returned.
func (o *Orchestrator) runUnit(ctx context.Context, unit *queue.Unit) (*Result, error) {
	ctx, span := otel.StartSpan(ctx, o.tracer, "sync.variants.unit",
		trace.WithAttributes(
			otel.AttrStage.String(config.StageVariants),
			otel.AttrRunID.String(unit.RunID.String()),
			otel.AttrTarget.String(unit.TargetID),
		))

	unitRes, err := o.unitBody(ctx, unit)
	otel.End(span, err)

	processed := 0
	if unitRes != nil {
		processed = unitRes.Processed
	}
	// the unit is settled even when ctx was cancelled
	settleCtx := context.WithoutCancel(ctx)

	if err != nil {
		o.metrics.RecordUnit(ctx, unitFailed)
		slog.ErrorContext(ctx, "Variant unit failed",
			"run_id", unit.RunID,
			"target", unit.TargetID,
			"attempt", unit.Attempts,
			"error", err)
		if failErr := o.queue.Fail(settleCtx, unit.ID, processed, err); failErr != nil {
			return nil, failErr
		}
		return unitRes, nil
	}

	o.metrics.RecordUnit(ctx, unitCompleted)
	if err := o.queue.Complete(settleCtx, unit.ID, processed); err != nil {
		return nil, err
	}
	return unitRes, nil
}

func (o *Orchestrator) unitBody(ctx context.Context, unit *queue.Unit) (*Result, error) {
	modelID, err := uuid.Parse(unit.TargetID)
	if err != nil {
		return nil, fmt.Errorf("invalid unit target %q: %w", unit.TargetID, err)
	}
	model, err := o.store.GetModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return o.syncModelVariants(ctx, model)
}

// syncModelVariants fetches the variants of one model, then the overview of
// each variant, and reconciles them. The partial result is returned with any error.
func (o *Orchestrator) syncModelVariants(ctx context.Context, model Parent) (*Result, error) {
	res := newResult(config.StageVariants)

	variants, err := o.client.FetchVariants(ctx, model.ExternalID)
	if err != nil {
		return res, err
	}
	slog.InfoContext(ctx, "Fetched variants", "model", model.Name, "count", len(variants))

	for i, variant := range variants {
		overview, err := o.client.FetchVariantOverview(ctx, model.ExternalID, variant.ID)
		if err != nil {
			return res, fmt.Errorf("failed to fetch overview of variant %s: %w", variant.ID, err)
		}

		r, err := o.reconciler.Variant(ctx, model.ID, variant, overview)
		if err := o.account(ctx, res, "Variant", r, err, i, len(variants),
			"model", model.Name,
			"external_id", variant.ID.String(),
			"name", variant.Name,
			"features", len(variant.KeyFeatures)); err != nil {
			return res, err
		}
	}
	return res, nil
}
