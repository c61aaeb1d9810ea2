// Package inventory reads synced variants back for operators.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zigwheels/catalog-sync/internal/db/sqlc"
	"github.com/zigwheels/catalog-sync/internal/money"
)

const launchDateLayout = "2006-01-02"

// ErrNotFound is returned when the variant is not stored
var ErrNotFound = errors.New("variant not found")

// Ref names a parent entity
type Ref struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Feature is one feature of a variant
type Feature struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Variant is the stored view of a variant with its parents and features
type Variant struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"external_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	VehicleType string    `json:"vehicle_type"`
	FuelType    string    `json:"fuel_type"`
	BodyType    string    `json:"body_type"`
	LaunchDate  string    `json:"launch_date,omitempty"`

	Brand Ref `json:"brand"`
	Model Ref `json:"model"`

	MinPrice   money.Money `json:"min_price"`
	MaxPrice   money.Money `json:"max_price"`
	PriceRange string      `json:"price_range"`

	Features []Feature `json:"features"`
}

// Reader loads variant views
//
//go:generate mockgen -destination=mocks/mock_reader.go -package=mocks -source=inventory.go Reader
type Reader interface {
	GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error)
}

// PostgresReader is a Reader on the catalog tables
type PostgresReader struct {
	queries *sqlc.Queries
}

// NewPostgresReader creates a PostgresReader
func NewPostgresReader(pool *pgxpool.Pool) *PostgresReader {
	return &PostgresReader{queries: sqlc.New(pool)}
}

// GetVariant implements Reader
func (r *PostgresReader) GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error) {
	row, err := r.queries.GetVariantDetail(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get variant %s: %w", id, err)
	}

	minPrice, err := money.FromNumeric(row.MinPrice, row.MinPriceCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid min price of variant %s: %w", id, err)
	}
	maxPrice, err := money.FromNumeric(row.MaxPrice, row.MaxPriceCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid max price of variant %s: %w", id, err)
	}

	features, err := r.queries.ListVariantFeatures(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list features of variant %s: %w", id, err)
	}

	v := &Variant{
		ID:          row.ID,
		ExternalID:  row.ExternalID,
		Name:        row.Name,
		Slug:        row.Slug,
		VehicleType: row.VehicleType,
		FuelType:    row.FuelType,
		BodyType:    row.BodyType,
		Brand:       Ref{ID: row.BrandID, Name: row.BrandName},
		Model:       Ref{ID: row.ModelID, Name: row.ModelName},
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		PriceRange:  money.PriceRange(minPrice, maxPrice),
		Features:    make([]Feature, 0, len(features)),
	}
	if row.LaunchDate.Valid {
		v.LaunchDate = row.LaunchDate.Time.Format(launchDateLayout)
	}
	for _, f := range features {
		v.Features = append(v.Features, Feature{Name: f.Name, Value: f.Value, Unit: f.Unit, Type: f.Type})
	}
	return v, nil
}
