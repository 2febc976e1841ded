package mongo

import (
	"context"
	"fmt"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

const rentalsTable = "rentals"

type RentalRepository struct {
	store *RecordStore
}

func NewRentalRepository(store *RecordStore) *RentalRepository {
	return &RentalRepository{store: store}
}

// Create stores a rental request and returns its id.
func (r *RentalRepository) Create(ctx context.Context, rental *domain.Rental) (string, error) {
	id, err := r.store.Insert(ctx, rentalsTable, rental)
	if err != nil {
		return "", fmt.Errorf("insert rental: %w", err)
	}
	return id, nil
}
