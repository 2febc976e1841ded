package ports

import (
	"context"

	"github.com/rentalhub/rental-api/internal/core/cart"
	"github.com/rentalhub/rental-api/internal/core/domain"
)

// CartView is a snapshot of one session's cart.
type CartView struct {
	Items      []cart.LineItem
	TotalItems int
}

// CartResult is a snapshot plus what the last mutation did. Warning is set
// when the user should be told about a stock limit.
type CartResult struct {
	CartView
	Outcome cart.Outcome
	Warning string
}

// AddItemInput identifies the catalog item to add.
type AddItemInput struct {
	Table    domain.CatalogTable
	ItemID   string
	Quantity int
}

// CartService manages one cart per browser session.
type CartService interface {
	View(sessionID string) CartView
	AddItem(ctx context.Context, sessionID string, in AddItemInput) (*CartResult, error)
	RemoveItem(sessionID, itemID string) CartResult
	UpdateQuantity(sessionID, itemID string, quantity int) CartResult
	Clear(sessionID string) CartView
	Checkout(ctx context.Context, sessionID string, who *domain.Identity) (*domain.Rental, error)
}
