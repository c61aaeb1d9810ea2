// Package queue stores variant units of work in Postgres so that any number
// of workers, in one process or many, can drain a run.
package queue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zigwheels/catalog-sync/internal/db/sqlc"
)

// maxErrorLength bounds the error text stored on a failed unit
const maxErrorLength = 2048

// Unit is one claimed unit of work
type Unit struct {
	ID       uuid.UUID
	RunID    uuid.UUID
	TargetID string
	Attempts int32
}

// Summary aggregates the units of one run
type Summary struct {
	Total       int64
	Completed   int64
	Failed      int64
	Outstanding int64
	Processed   int64
}

// Queue hands out units of work for a run
//
//go:generate mockgen -destination=mocks/mock_queue.go -package=mocks -source=queue.go Queue
type Queue interface {
	// Enqueue adds one pending unit per target. Targets already enqueued for the run are ignored.
	Enqueue(ctx context.Context, runID uuid.UUID, targets []string) error

	// Claim marks the next pending unit as running and returns it, or nil when none is left
	Claim(ctx context.Context, runID uuid.UUID) (*Unit, error)

	// Complete marks a unit as done with the number of records it processed
	Complete(ctx context.Context, unitID uuid.UUID, processed int) error

	// Fail marks a unit as failed with its cause. processed counts the
	// records the unit wrote before failing; those writes are not rolled back.
	Fail(ctx context.Context, unitID uuid.UUID, processed int, cause error) error

	// Summarize counts the units of a run by status
	Summarize(ctx context.Context, runID uuid.UUID) (Summary, error)
}

// Postgres is a Queue backed by the sync_unit table. Claims use
// FOR UPDATE SKIP LOCKED so concurrent workers never receive the same unit.
type Postgres struct {
	queries *sqlc.Queries
}

// NewPostgres creates a Postgres queue
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{queries: sqlc.New(pool)}
}

// Enqueue implements Queue
func (q *Postgres) Enqueue(ctx context.Context, runID uuid.UUID, targets []string) error {
	if len(targets) == 0 {
		return nil
	}
	if err := q.queries.InsertSyncUnits(ctx, sqlc.InsertSyncUnitsParams{
		RunID:     runID,
		TargetIds: targets,
	}); err != nil {
		return fmt.Errorf("failed to enqueue %d units: %w", len(targets), err)
	}
	return nil
}

// Claim implements Queue
func (q *Postgres) Claim(ctx context.Context, runID uuid.UUID) (*Unit, error) {
	row, err := q.queries.ClaimSyncUnit(ctx, runID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim unit: %w", err)
	}
	return &Unit{
		ID:       row.ID,
		RunID:    row.RunID,
		TargetID: row.TargetID,
		Attempts: row.Attempts,
	}, nil
}

// Complete implements Queue
func (q *Postgres) Complete(ctx context.Context, unitID uuid.UUID, processed int) error {
	if err := q.queries.CompleteSyncUnit(ctx, sqlc.CompleteSyncUnitParams{
		ID:        unitID,
		Processed: clampProcessed(processed),
	}); err != nil {
		return fmt.Errorf("failed to complete unit %s: %w", unitID, err)
	}
	return nil
}

// Fail implements Queue
func (q *Postgres) Fail(ctx context.Context, unitID uuid.UUID, processed int, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > maxErrorLength {
		msg = strings.ToValidUTF8(msg[:maxErrorLength], "")
	}
	if err := q.queries.FailSyncUnit(ctx, sqlc.FailSyncUnitParams{
		ID:        unitID,
		ErrorMsg:  pgtype.Text{String: msg, Valid: true},
		Processed: clampProcessed(processed),
	}); err != nil {
		return fmt.Errorf("failed to mark unit %s as failed: %w", unitID, err)
	}
	return nil
}

// Summarize implements Queue
func (q *Postgres) Summarize(ctx context.Context, runID uuid.UUID) (Summary, error) {
	row, err := q.queries.SummarizeSyncUnits(ctx, runID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize units of run %s: %w", runID, err)
	}
	return Summary{
		Total:       row.Total,
		Completed:   row.Completed,
		Failed:      row.Failed,
		Outstanding: row.Outstanding,
		Processed:   row.Processed,
	}, nil
}

func clampProcessed(processed int) int32 {
	return int32(max(0, min(processed, math.MaxInt32))) //nolint:gosec // clamped
}
