package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/zigwheels/catalog-sync/internal/catalog"
	"github.com/zigwheels/catalog-sync/internal/config"
	"github.com/zigwheels/catalog-sync/internal/otel"
	"github.com/zigwheels/catalog-sync/internal/reconcile"
	"github.com/zigwheels/catalog-sync/internal/sync/queue"
	"github.com/zigwheels/catalog-sync/internal/telemetry"
)

const defaultWorkers = 4

// ErrUnknownStage is returned by RunStage for names outside config.Stages
var ErrUnknownStage = errors.New("unknown stage")

var outcomeVerbs = map[reconcile.Outcome]string{
	reconcile.OutcomeCreated:   "Created",
	reconcile.OutcomeUpdated:   "Updated",
	reconcile.OutcomeUnchanged: "Unchanged",
}

// Orchestrator runs the sync stages
type Orchestrator struct {
	client     catalog.Client
	reconciler Reconciler
	store      Store
	queue      queue.Queue
	workers    int
	metrics    *telemetry.SyncMetrics
	tracer     trace.Tracer
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithWorkers sets how many variant units this process works on in parallel
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = metrics
	}
}

// WithTracer sets the tracer used for stage and unit spans
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// New creates an Orchestrator
func New(client catalog.Client, reconciler Reconciler, store Store, q queue.Queue, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:     client,
		reconciler: reconciler,
		store:      store,
		queue:      q,
		workers:    defaultWorkers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunStage runs the named stage. runID scopes the variant units; the other stages ignore it.
func (o *Orchestrator) RunStage(ctx context.Context, stage string, runID uuid.UUID) (*Result, error) {
	switch stage {
	case config.StageCities:
		return o.SyncCities(ctx)
	case config.StageBrands:
		return o.SyncBrands(ctx)
	case config.StageModels:
		return o.SyncModels(ctx)
	case config.StageVariants:
		return o.SyncVariants(ctx, runID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
}

// SyncCities fetches the city list and reconciles every city
func (o *Orchestrator) SyncCities(ctx context.Context) (*Result, error) {
	return o.instrument(ctx, config.StageCities, func(ctx context.Context, res *Result) error {
		cities, err := o.client.FetchCities(ctx)
		if err != nil {
			return &Error{Stage: config.StageCities, Err: err}
		}
		slog.InfoContext(ctx, "Fetched cities", "count", len(cities))

		for i, city := range cities {
			r, err := o.reconciler.City(ctx, city)
			if err := o.account(ctx, res, "City", r, err, i, len(cities),
				"external_id", city.ID.String(), "name", city.Name); err != nil {
				return &Error{Stage: config.StageCities, Target: city.ID.String(), Err: err}
			}
		}
		return nil
	})
}

// SyncBrands fetches the brand list and reconciles every brand
func (o *Orchestrator) SyncBrands(ctx context.Context) (*Result, error) {
	return o.instrument(ctx, config.StageBrands, func(ctx context.Context, res *Result) error {
		brands, err := o.client.FetchBrands(ctx)
		if err != nil {
			return &Error{Stage: config.StageBrands, Err: err}
		}
		slog.InfoContext(ctx, "Fetched brands", "count", len(brands))

		for i, brand := range brands {
			r, err := o.reconciler.Brand(ctx, brand)
			if err := o.account(ctx, res, "Brand", r, err, i, len(brands),
				"external_id", brand.ID.String(), "name", brand.Name); err != nil {
				return &Error{Stage: config.StageBrands, Target: brand.ID.String(), Err: err}
			}
		}
		return nil
	})
}

// SyncModels fetches and reconciles the models of every stored brand.
// A brand whose models cannot be synced is logged and counted as a failed unit.
func (o *Orchestrator) SyncModels(ctx context.Context) (*Result, error) {
	return o.instrument(ctx, config.StageModels, func(ctx context.Context, res *Result) error {
		brands, err := o.store.ListBrands(ctx)
		if err != nil {
			return &Error{Stage: config.StageModels, Err: err}
		}
		res.Units = len(brands)

		for _, brand := range brands {
			if err := ctx.Err(); err != nil {
				return &Error{Stage: config.StageModels, Err: err}
			}
			if err := o.syncBrandModels(ctx, brand, res); err != nil {
				res.FailedUnits++
				slog.ErrorContext(ctx, "Failed to sync brand models",
					"brand", brand.Name,
					"external_id", brand.ExternalID.String(),
					"error", err)
			}
		}
		return nil
	})
}

func (o *Orchestrator) syncBrandModels(ctx context.Context, brand Parent, res *Result) error {
	models, err := o.client.FetchModels(ctx, brand.ExternalID)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Fetched models", "brand", brand.Name, "count", len(models))

	for i, model := range models {
		r, err := o.reconciler.Model(ctx, brand.ID, model)
		if err := o.account(ctx, res, "Model", r, err, i, len(models),
			"brand", brand.Name, "external_id", model.ID.String(), "name", model.Name); err != nil {
			return err
		}
	}
	return nil
}

// instrument wraps a stage body with its span, timing, metrics and summary log
func (o *Orchestrator) instrument(
	ctx context.Context,
	stage string,
	body func(ctx context.Context, res *Result) error,
) (*Result, error) {
	ctx, span := otel.StartSpan(ctx, o.tracer, "sync."+stage,
		trace.WithAttributes(otel.AttrStage.String(stage)))

	start := time.Now()
	res := newResult(stage)
	slog.InfoContext(ctx, "Starting sync stage", "stage", stage)

	err := body(ctx, res)
	duration := time.Since(start)
	o.metrics.RecordStageDuration(ctx, stage, duration, err == nil)

	span.SetAttributes(
		otel.AttrProcessed.Int(res.Processed),
		otel.AttrFailedUnits.Int(res.FailedUnits),
	)
	otel.End(span, err)

	if err != nil {
		slog.ErrorContext(ctx, "Sync stage failed",
			"stage", stage,
			"processed", res.Processed,
			"duration", duration,
			"error", err)
		return res, err
	}

	slog.InfoContext(ctx, "Sync stage completed",
		"stage", stage,
		"processed", res.Processed,
		"created", res.Created,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"skipped", res.Skipped,
		"units", res.Units,
		"failed_units", res.FailedUnits,
		"duration", duration)
	return res, nil
}

// account folds one reconcile call into res and logs its outcome. Records
// without an identifier are skipped; any other error is returned.
func (o *Orchestrator) account(
	ctx context.Context,
	res *Result,
	kind string,
	r reconcile.Result,
	err error,
	index, total int,
	attrs ...any,
) error {
	if errors.Is(err, reconcile.ErrMissingExternalID) {
		res.Skipped++
		slog.WarnContext(ctx, "Skipping "+kind+" without id", attrs...)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to reconcile %s: %w", kind, err)
	}

	res.record(r.Outcome)
	o.metrics.RecordRecord(ctx, res.Stage, string(r.Outcome))

	args := append([]any{"index", index + 1, "total", total, "outcome", string(r.Outcome)}, attrs...)
	slog.DebugContext(ctx, outcomeVerbs[r.Outcome]+" "+kind, args...)
	return nil
}
