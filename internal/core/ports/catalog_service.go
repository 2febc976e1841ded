package ports

import (
	"context"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

// TableSummary aggregates one catalog table for the admin dashboard.
type TableSummary struct {
	Table      domain.CatalogTable
	Items      int
	TotalStock int
	OutOfStock int
}

// CatalogService exposes catalog reads.
type CatalogService interface {
	List(ctx context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error)
	Summary(ctx context.Context) ([]TableSummary, error)
}
