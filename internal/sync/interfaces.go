package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/zigwheels/catalog-sync/internal/catalog"
	"github.com/zigwheels/catalog-sync/internal/reconcile"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks -source=interfaces.go Reconciler,Store

// Reconciler persists one remote record as a local entity
type Reconciler interface {
	City(ctx context.Context, rec catalog.CityRecord) (reconcile.Result, error)
	Brand(ctx context.Context, rec catalog.BrandRecord) (reconcile.Result, error)
	Model(ctx context.Context, brandID uuid.UUID, rec catalog.ModelRecord) (reconcile.Result, error)
	Variant(
		ctx context.Context,
		modelID uuid.UUID,
		rec catalog.VariantRecord,
		overview *catalog.OverviewRecord,
	) (reconcile.Result, error)
}

// Parent is a stored brand or model that nested stages fan out over
type Parent struct {
	ID         uuid.UUID
	ExternalID catalog.ExternalID
	Name       string
}

// Store reads the stored parents of the nested stages
type Store interface {
	ListBrands(ctx context.Context) ([]Parent, error)
	ListModels(ctx context.Context) ([]Parent, error)
	GetModel(ctx context.Context, id uuid.UUID) (Parent, error)
}
