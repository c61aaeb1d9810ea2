package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zigwheels/catalog-sync/database"
	"github.com/zigwheels/catalog-sync/internal/catalog"
	"github.com/zigwheels/catalog-sync/internal/inventory"
	"github.com/zigwheels/catalog-sync/internal/reconcile"
)

func TestGetVariant(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	ctx := context.Background()

	r, err := reconcile.New(db, "PHP")
	require.NoError(t, err)
	reader := inventory.NewPostgresReader(db)

	brand, err := r.Brand(ctx, catalog.BrandRecord{ID: "30", Name: "Toyota"})
	require.NoError(t, err)
	model, err := r.Model(ctx, brand.ID, catalog.ModelRecord{ID: "1943", Name: "Vios"})
	require.NoError(t, err)
	variant, err := r.Variant(ctx, model.ID, catalog.VariantRecord{
		ID:                "4069",
		Name:              "1.3 XLE CVT",
		Slug:              "1-3-xle-cvt",
		FuelType:          "Petrol",
		LaunchedTimestamp: catalog.Timestamp{Seconds: 1579046400 + 3600, Valid: true},
		KeyFeatures: []catalog.FeatureRecord{
			{Name: "Engine", Value: "1329", Unit: "cc", GroupName: "Engine"},
			{Name: "Airbags", Value: "7", GroupName: "Safety"},
		},
	}, &catalog.OverviewRecord{
		MinPrice: decimal.NewFromInt(700000),
		MaxPrice: decimal.NewFromInt(900000),
	})
	require.NoError(t, err)

	got, err := reader.GetVariant(ctx, variant.ID)
	require.NoError(t, err)

	assert.Equal(t, "4069", got.ExternalID)
	assert.Equal(t, "1.3 XLE CVT", got.Name)
	assert.Equal(t, "Petrol", got.FuelType)
	assert.Equal(t, "2020-01-15", got.LaunchDate)
	assert.Equal(t, inventory.Ref{ID: brand.ID, Name: "Toyota"}, got.Brand)
	assert.Equal(t, inventory.Ref{ID: model.ID, Name: "Vios"}, got.Model)
	assert.Equal(t, "PHP", got.MinPrice.Currency)
	assert.Equal(t, "₱700,000.00 - ₱900,000.00", got.PriceRange)
	assert.Equal(t, []inventory.Feature{
		{Name: "Engine", Value: "1329", Unit: "cc", Type: "Engine"},
		{Name: "Airbags", Value: "7", Type: "Safety"},
	}, got.Features)

	_, err = reader.GetVariant(ctx, uuid.New())
	require.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestGetVariantWithoutOverview(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	ctx := context.Background()

	r, err := reconcile.New(db, "PHP")
	require.NoError(t, err)

	brand, err := r.Brand(ctx, catalog.BrandRecord{ID: "31", Name: "Honda"})
	require.NoError(t, err)
	model, err := r.Model(ctx, brand.ID, catalog.ModelRecord{ID: "2001", Name: "City"})
	require.NoError(t, err)
	variant, err := r.Variant(ctx, model.ID, catalog.VariantRecord{ID: "5001"}, nil)
	require.NoError(t, err)

	got, err := inventory.NewPostgresReader(db).GetVariant(ctx, variant.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LaunchDate)
	assert.Empty(t, got.Features)
	assert.NotNil(t, got.Features)
	assert.Equal(t, "₱0.00 - ₱0.00", got.PriceRange)
}
