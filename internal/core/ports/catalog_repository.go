package ports

import (
	"context"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

// CatalogRepository reads rentable items and their stock.
type CatalogRepository interface {
	List(ctx context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error)
	// FindByID returns domain.ErrItemNotFound when the table has no such item.
	FindByID(ctx context.Context, table domain.CatalogTable, id string) (*domain.CatalogItem, error)
}

// RentalRepository stores checked-out carts.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) (string, error)
}
