// Package reconcile persists remote catalog records as local entities keyed by
// their natural key, without creating duplicates.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zigwheels/catalog-sync/internal/catalog"
	"github.com/zigwheels/catalog-sync/internal/db/sqlc"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

var (
	// ErrMissingExternalID is returned for records that carry no remote identifier
	ErrMissingExternalID = errors.New("record has no external id")
	// ErrNilPool is returned when constructing a Reconciler without a pool
	ErrNilPool = errors.New("database pool is required")
)

// Outcome describes what an upsert did to the stored row
type Outcome string

const (
	// OutcomeCreated means a new row was inserted
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated means an existing row was overwritten with different values
	OutcomeUpdated Outcome = "updated"
	// OutcomeUnchanged means the stored row already matched the record
	OutcomeUnchanged Outcome = "unchanged"
)

// Result identifies the stored row and how it was affected
type Result struct {
	ID      uuid.UUID
	Outcome Outcome
}

// Reconciler writes catalog records to Postgres
type Reconciler struct {
	pool     *pgxpool.Pool
	queries  *sqlc.Queries
	currency string
}

// New creates a Reconciler. Prices are tagged with currency.
func New(pool *pgxpool.Pool, currency string) (*Reconciler, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	if currency == "" {
		return nil, errors.New("currency is required")
	}
	return &Reconciler{
		pool:     pool,
		queries:  sqlc.New(pool),
		currency: currency,
	}, nil
}

// LaunchDate converts a Unix timestamp in seconds to its UTC calendar date
func LaunchDate(seconds int64) time.Time {
	t := time.Unix(seconds, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// City upserts a city keyed by its external id
func (r *Reconciler) City(ctx context.Context, rec catalog.CityRecord) (Result, error) {
	if rec.ID.IsZero() {
		return Result{}, ErrMissingExternalID
	}
	return upsert(
		func() (uuid.UUID, bool, error) {
			row, err := r.queries.UpsertCity(ctx, sqlc.UpsertCityParams{
				ExternalID: rec.ID.String(),
				Name:       rec.Name,
				Slug:       rec.Slug,
				Title:      rec.Title,
			})
			return row.ID, row.Inserted, err
		},
		func() (uuid.UUID, error) {
			city, err := r.queries.GetCityByExternalID(ctx, rec.ID.String())
			return city.ID, err
		},
	)
}

// Brand upserts a brand keyed by its external id
func (r *Reconciler) Brand(ctx context.Context, rec catalog.BrandRecord) (Result, error) {
	if rec.ID.IsZero() {
		return Result{}, ErrMissingExternalID
	}
	return upsert(
		func() (uuid.UUID, bool, error) {
			row, err := r.queries.UpsertBrand(ctx, sqlc.UpsertBrandParams{
				ExternalID: rec.ID.String(),
				Name:       rec.Name,
				Slug:       rec.Slug,
			})
			return row.ID, row.Inserted, err
		},
		func() (uuid.UUID, error) {
			brand, err := r.queries.GetBrandByExternalID(ctx, rec.ID.String())
			return brand.ID, err
		},
	)
}

// Model upserts a car model keyed by (external id, brand)
func (r *Reconciler) Model(ctx context.Context, brandID uuid.UUID, rec catalog.ModelRecord) (Result, error) {
	if rec.ID.IsZero() {
		return Result{}, ErrMissingExternalID
	}
	return upsert(
		func() (uuid.UUID, bool, error) {
			row, err := r.queries.UpsertCarModel(ctx, sqlc.UpsertCarModelParams{
				ExternalID: rec.ID.String(),
				BrandID:    brandID,
				Name:       rec.Name,
			})
			return row.ID, row.Inserted, err
		},
		func() (uuid.UUID, error) {
			model, err := r.queries.GetCarModelByKey(ctx, sqlc.GetCarModelByKeyParams{
				ExternalID: rec.ID.String(),
				BrandID:    brandID,
			})
			return model.ID, err
		},
	)
}

// Variant interns the record's features, then upserts the variant and replaces
// its feature membership in one transaction. A nil overview stores zero prices.
func (r *Reconciler) Variant(
	ctx context.Context,
	modelID uuid.UUID,
	rec catalog.VariantRecord,
	overview *catalog.OverviewRecord,
) (Result, error) {
	if rec.ID.IsZero() {
		return Result{}, ErrMissingExternalID
	}

	featureIDs, err := r.Features(ctx, rec.KeyFeatures)
	if err != nil {
		return Result{}, err
	}

	params := r.variantParams(modelID, rec, overview)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Error("Failed to rollback variant transaction",
				"external_id", rec.ID.String(),
				"error", rbErr)
		}
	}()

	querier := sqlc.New(tx)

	result, err := upsert(
		func() (uuid.UUID, bool, error) {
			row, err := querier.UpsertVariant(ctx, params)
			return row.ID, row.Inserted, err
		},
		func() (uuid.UUID, error) {
			variant, err := querier.GetVariantByKey(ctx, sqlc.GetVariantByKeyParams{
				ExternalID: params.ExternalID,
				ModelID:    modelID,
			})
			return variant.ID, err
		},
	)
	if err != nil {
		return Result{}, err
	}

	removed, err := querier.DeleteVariantFeaturesNotIn(ctx, sqlc.DeleteVariantFeaturesNotInParams{
		VariantID: result.ID,
		KeepIds:   featureIDs,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to prune features of variant %s: %w", params.ExternalID, err)
	}

	added, err := querier.AddVariantFeatures(ctx, sqlc.AddVariantFeaturesParams{
		VariantID:  result.ID,
		FeatureIds: featureIDs,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to link features of variant %s: %w", params.ExternalID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to commit variant %s: %w", params.ExternalID, err)
	}

	if result.Outcome == OutcomeUnchanged && removed+added > 0 {
		result.Outcome = OutcomeUpdated
	}
	return result, nil
}

// Features interns every feature and returns the distinct ids in input order.
// The returned slice is never nil.
func (r *Reconciler) Features(ctx context.Context, recs []catalog.FeatureRecord) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(recs))
	seen := make(map[uuid.UUID]struct{}, len(recs))
	for _, rec := range recs {
		id, err := r.InternFeature(ctx, rec)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// InternFeature returns the id of the feature with the record's (name, value, unit),
// inserting it if absent. A concurrent insert of the same key resolves to the
// existing row.
func (r *Reconciler) InternFeature(ctx context.Context, rec catalog.FeatureRecord) (uuid.UUID, error) {
	key := sqlc.GetFeatureIDByKeyParams{
		Name:  rec.Name,
		Value: string(rec.Value),
		Unit:  string(rec.Unit),
	}

	id, err := r.queries.InternFeature(ctx, sqlc.InternFeatureParams{
		Name:  key.Name,
		Value: key.Value,
		Unit:  key.Unit,
		Type:  rec.GroupName,
	})
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) && !isUniqueViolation(err) {
		return uuid.Nil, fmt.Errorf("failed to intern feature %q: %w", key.Name, err)
	}

	id, err = r.queries.GetFeatureIDByKey(ctx, key)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up feature %q: %w", key.Name, err)
	}
	return id, nil
}

func (r *Reconciler) variantParams(
	modelID uuid.UUID,
	rec catalog.VariantRecord,
	overview *catalog.OverviewRecord,
) sqlc.UpsertVariantParams {
	minPrice, maxPrice := decimal.Zero, decimal.Zero
	raw := []byte(`{}`)
	if overview != nil {
		minPrice, maxPrice = overview.MinPrice, overview.MaxPrice
		if len(overview.Raw) > 0 {
			raw = overview.Raw
		}
	}

	var launch pgtype.Date
	if rec.LaunchedTimestamp.Valid {
		launch = pgtype.Date{Time: LaunchDate(rec.LaunchedTimestamp.Seconds), Valid: true}
	}

	return sqlc.UpsertVariantParams{
		ExternalID:       rec.ID.String(),
		ModelID:          modelID,
		Name:             rec.Name,
		Slug:             rec.Slug,
		VehicleType:      rec.VehicleType,
		FuelType:         rec.FuelType,
		BodyType:         rec.BodyType,
		LaunchDate:       launch,
		MinPrice:         toNumeric(minPrice),
		MinPriceCurrency: r.currency,
		MaxPrice:         toNumeric(maxPrice),
		MaxPriceCurrency: r.currency,
		RawData:          raw,
	}
}

// toNumeric converts an amount to a NUMERIC(19,2) compatible value
func toNumeric(d decimal.Decimal) pgtype.Numeric {
	d = d.Round(2)
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// upsert runs a conditional write. The write returns no row when the stored
// values already match, in which case lookup resolves the existing id.
func upsert(
	write func() (uuid.UUID, bool, error),
	lookup func() (uuid.UUID, error),
) (Result, error) {
	id, inserted, err := write()
	switch {
	case err == nil:
		if inserted {
			return Result{ID: id, Outcome: OutcomeCreated}, nil
		}
		return Result{ID: id, Outcome: OutcomeUpdated}, nil
	case errors.Is(err, pgx.ErrNoRows):
		id, err := lookup()
		if err != nil {
			return Result{}, fmt.Errorf("failed to look up unchanged row: %w", err)
		}
		return Result{ID: id, Outcome: OutcomeUnchanged}, nil
	default:
		return Result{}, fmt.Errorf("failed to upsert: %w", err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
