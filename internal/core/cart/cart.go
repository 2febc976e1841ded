// Package cart implements the stock-bounded rental cart. A Cart is a plain
// in-memory container with a single writer; callers that share one across
// goroutines must serialize access themselves.
package cart

import (
	"math"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

// LineItem is one entry of the cart. StockCeiling is captured from the
// catalog when the item is first added.
type LineItem struct {
	ItemID       string              `json:"item_id"`
	Table        domain.CatalogTable `json:"table"`
	Name         string              `json:"name"`
	Quantity     int                 `json:"quantity"`
	StockCeiling int                 `json:"stock_ceiling"`
}

// Status classifies what a mutation did.
type Status string

const (
	// Applied means the requested change was stored as asked.
	Applied Status = "applied"
	// Ignored means the request was a no-op (unknown item, quantity below 1).
	Ignored Status = "ignored"
	// Rejected means the request would exceed the stock ceiling; nothing changed.
	Rejected Status = "rejected"
	// Clamped means the quantity was capped at the stock ceiling.
	Clamped Status = "clamped"
)

// Reason explains a non-applied outcome.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotInCart     Reason = "not_in_cart"
	ReasonBelowMinimum  Reason = "below_minimum"
	ReasonStockExceeded Reason = "stock_exceeded"
)

// Outcome is returned by every mutation so the caller can decide whether to
// warn the user. Ceiling and Current are filled for stock violations.
type Outcome struct {
	Status  Status `json:"status"`
	Reason  Reason `json:"reason,omitempty"`
	Ceiling int    `json:"ceiling,omitempty"`
	Current int    `json:"current,omitempty"`
}

// Warns reports whether the outcome deserves a user-facing warning.
func (o Outcome) Warns() bool {
	return o.Reason == ReasonStockExceeded
}

// Cart is an ordered list of line items keyed by catalog item id.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: []LineItem{}}
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct line items.
func (c *Cart) Len() int { return len(c.items) }

// TotalItems sums quantities across all lines, saturating at math.MaxInt.
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		if it.Quantity > math.MaxInt-total {
			return math.MaxInt
		}
		total += it.Quantity
	}
	return total
}

// Add puts quantity units of item in the cart. A quantity below 1 counts as
// 1. If the result would exceed the item's stock the cart is left untouched
// and the outcome reports the ceiling and the amount already held.
func (c *Cart) Add(item domain.CatalogItem, quantity int) Outcome {
	if quantity < 1 {
		quantity = 1
	}

	idx := c.indexOf(item.ID)
	current := 0
	if idx >= 0 {
		current = c.items[idx].Quantity
	}
	ceiling := item.TotalStock

	if quantity > ceiling-current {
		return Outcome{Status: Rejected, Reason: ReasonStockExceeded, Ceiling: ceiling, Current: current}
	}

	if idx >= 0 {
		c.items[idx].Quantity += quantity
		return Outcome{Status: Applied}
	}

	c.items = append(c.items, LineItem{
		ItemID:       item.ID,
		Table:        item.Table,
		Name:         item.Name,
		Quantity:     quantity,
		StockCeiling: ceiling,
	})
	return Outcome{Status: Applied}
}

// Remove deletes the line for itemID. Unknown ids are ignored.
func (c *Cart) Remove(itemID string) Outcome {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return Outcome{Status: Ignored, Reason: ReasonNotInCart}
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return Outcome{Status: Applied}
}

// UpdateQuantity sets the quantity of an existing line. Values below 1 are
// ignored; values above the captured ceiling are clamped to it.
func (c *Cart) UpdateQuantity(itemID string, quantity int) Outcome {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return Outcome{Status: Ignored, Reason: ReasonNotInCart}
	}
	if quantity < 1 {
		return Outcome{Status: Ignored, Reason: ReasonBelowMinimum}
	}

	line := &c.items[idx]
	if quantity > line.StockCeiling {
		line.Quantity = line.StockCeiling
		return Outcome{Status: Clamped, Reason: ReasonStockExceeded, Ceiling: line.StockCeiling, Current: line.Quantity}
	}

	line.Quantity = quantity
	return Outcome{Status: Applied}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = []LineItem{}
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.items {
		if c.items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
