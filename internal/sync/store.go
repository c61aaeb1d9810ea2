package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zigwheels/catalog-sync/internal/catalog"
	"github.com/zigwheels/catalog-sync/internal/db/sqlc"
)

// ErrModelNotFound is returned when a unit names a model that is not stored
var ErrModelNotFound = errors.New("model not found")

// PostgresStore implements Store on the catalog tables
type PostgresStore struct {
	queries *sqlc.Queries
}

// NewPostgresStore creates a PostgresStore
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{queries: sqlc.New(pool)}
}

// ListBrands implements Store
func (s *PostgresStore) ListBrands(ctx context.Context) ([]Parent, error) {
	brands, err := s.queries.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	parents := make([]Parent, 0, len(brands))
	for _, b := range brands {
		parents = append(parents, Parent{ID: b.ID, ExternalID: catalog.ExternalID(b.ExternalID), Name: b.Name})
	}
	return parents, nil
}

// ListModels implements Store
func (s *PostgresStore) ListModels(ctx context.Context) ([]Parent, error) {
	models, err := s.queries.ListCarModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	parents := make([]Parent, 0, len(models))
	for _, m := range models {
		parents = append(parents, Parent{ID: m.ID, ExternalID: catalog.ExternalID(m.ExternalID), Name: m.Name})
	}
	return parents, nil
}

// GetModel implements Store
func (s *PostgresStore) GetModel(ctx context.Context, id uuid.UUID) (Parent, error) {
	m, err := s.queries.GetCarModel(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Parent{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	if err != nil {
		return Parent{}, fmt.Errorf("failed to get model %s: %w", id, err)
	}
	return Parent{ID: m.ID, ExternalID: catalog.ExternalID(m.ExternalID), Name: m.Name}, nil
}
