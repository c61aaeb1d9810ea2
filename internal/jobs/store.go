package jobs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zigwheels/catalog-sync/internal/db/sqlc"
)

const maxErrorLength = 2048

// ErrRunNotFound is returned when a run id is not recorded
var ErrRunNotFound = errors.New("run not found")

// Status is the state of a run
type Status string

const (
	// StatusRunning means the run has not finished
	StatusRunning Status = "RUNNING"
	// StatusCompleted means the stage finished, possibly with failed units
	StatusCompleted Status = "COMPLETED"
	// StatusFailed means the stage could not proceed
	StatusFailed Status = "FAILED"
)

// Run is the record of one job invocation
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Job         string     `json:"job"`
	Status      Status     `json:"status"`
	Processed   int        `json:"processed"`
	FailedUnits int        `json:"failed_units"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// RunStore records job runs
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go RunStore
type RunStore interface {
	// Start records a new running run of job and returns its id
	Start(ctx context.Context, job string) (uuid.UUID, error)

	// Finish records the end of a run. A nil result with a nil error is recorded as completed with no records.
	Finish(ctx context.Context, runID uuid.UUID, res *Result, runErr error) error

	// Get returns one run
	Get(ctx context.Context, runID uuid.UUID) (*Run, error)

	// List returns the most recent runs, newest first
	List(ctx context.Context, limit int) ([]Run, error)

	// Latest returns the most recent run of every job
	Latest(ctx context.Context) ([]Run, error)
}

// PostgresRunStore is a RunStore on the sync_run table
type PostgresRunStore struct {
	queries *sqlc.Queries
}

// NewPostgresRunStore creates a PostgresRunStore
func NewPostgresRunStore(pool *pgxpool.Pool) *PostgresRunStore {
	return &PostgresRunStore{queries: sqlc.New(pool)}
}

// Start implements RunStore
func (s *PostgresRunStore) Start(ctx context.Context, job string) (uuid.UUID, error) {
	run, err := s.queries.InsertSyncRun(ctx, job)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record run of %s: %w", job, err)
	}
	return run.ID, nil
}

// Finish implements RunStore
func (s *PostgresRunStore) Finish(ctx context.Context, runID uuid.UUID, res *Result, runErr error) error {
	params := sqlc.FinishSyncRunParams{
		ID:     runID,
		Status: sqlc.RunStatusCOMPLETED,
	}
	if res != nil {
		params.Processed = clamp(res.Processed)
		params.FailedUnits = clamp(res.FailedUnits)
	}
	if runErr != nil {
		msg := strings.ToValidUTF8(runErr.Error(), "?")
		if len(msg) > maxErrorLength {
			msg = strings.ToValidUTF8(msg[:maxErrorLength], "")
		}
		params.Status = sqlc.RunStatusFAILED
		params.ErrorMsg = pgtype.Text{String: msg, Valid: true}
	}

	if err := s.queries.FinishSyncRun(ctx, params); err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	return nil
}

// Get implements RunStore
func (s *PostgresRunStore) Get(ctx context.Context, runID uuid.UUID) (*Run, error) {
	row, err := s.queries.GetSyncRun(ctx, runID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	run := toRun(row)
	return &run, nil
}

// List implements RunStore
func (s *PostgresRunStore) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.queries.ListSyncRuns(ctx, clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return toRuns(rows), nil
}

// Latest implements RunStore
func (s *PostgresRunStore) Latest(ctx context.Context) ([]Run, error) {
	rows, err := s.queries.ListLatestSyncRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest runs: %w", err)
	}
	return toRuns(rows), nil
}

func toRuns(rows []sqlc.SyncRun) []Run {
	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, toRun(row))
	}
	return runs
}

func toRun(row sqlc.SyncRun) Run {
	run := Run{
		ID:          row.ID,
		Job:         row.JobName,
		Status:      Status(row.Status),
		Processed:   int(row.Processed),
		FailedUnits: int(row.FailedUnits),
		StartedAt:   row.StartedAt,
	}
	if row.ErrorMsg.Valid {
		run.Error = row.ErrorMsg.String
	}
	if row.FinishedAt.Valid {
		finished := row.FinishedAt.Time
		run.FinishedAt = &finished
	}
	return run
}

func clamp(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	return int32(n)
}
