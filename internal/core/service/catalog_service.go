package service

import (
	"context"
	"fmt"

	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
)

type CatalogService struct {
	repo ports.CatalogRepository
}

func NewCatalogService(repo ports.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) List(ctx context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error) {
	if !table.Valid() {
		return nil, domain.ErrUnknownCatalog
	}
	items, err := s.repo.List(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return items, nil
}

// Summary counts items and stock per catalog table.
func (s *CatalogService) Summary(ctx context.Context) ([]ports.TableSummary, error) {
	tables := domain.CatalogTables()
	out := make([]ports.TableSummary, 0, len(tables))
	for _, table := range tables {
		items, err := s.List(ctx, table)
		if err != nil {
			return nil, err
		}
		sum := ports.TableSummary{Table: table, Items: len(items)}
		for _, it := range items {
			sum.TotalStock += it.TotalStock
			if it.TotalStock == 0 {
				sum.OutOfStock++
			}
		}
		out = append(out, sum)
	}
	return out, nil
}
