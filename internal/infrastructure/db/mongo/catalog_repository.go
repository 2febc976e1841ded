package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

type CatalogRepository struct {
	store *RecordStore
}

func NewCatalogRepository(store *RecordStore) *CatalogRepository {
	return &CatalogRepository{store: store}
}

// List returns every item of table in natural order.
func (r *CatalogRepository) List(ctx context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error) {
	var docs []bson.M
	if err := r.store.Find(ctx, string(table), nil, &docs); err != nil {
		return nil, err
	}
	items := make([]domain.CatalogItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toCatalogItem(table, doc))
	}
	return items, nil
}

// FindByID returns a single item with its stock coerced to a ceiling.
func (r *CatalogRepository) FindByID(ctx context.Context, table domain.CatalogTable, id string) (*domain.CatalogItem, error) {
	var doc bson.M
	if err := r.store.FindOne(ctx, string(table), idFilter(id), &doc); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item %s/%s: %w", table, id, err)
	}
	item := toCatalogItem(table, doc)
	return &item, nil
}

func toCatalogItem(table domain.CatalogTable, doc bson.M) domain.CatalogItem {
	return domain.CatalogItem{
		ID:         idString(doc["_id"]),
		Name:       stringField(doc, "name"),
		Table:      table,
		TotalStock: domain.CoerceStock(doc["total_stock"]),
	}
}
