package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentalhub/rental-api/internal/core/cart"
	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
)

// CartService keeps an in-memory cart per browser session. Carts are never
// persisted; a restart empties them. Only non-empty carts are held, and
// those left idle are dropped by EvictIdle.
type CartService struct {
	catalog ports.CatalogRepository
	rentals ports.RentalRepository
	log     zerolog.Logger
	now     func() time.Time

	mu    sync.Mutex
	carts map[string]*cart.Cart
	seen  map[string]time.Time
}

func NewCartService(catalog ports.CatalogRepository, rentals ports.RentalRepository, log zerolog.Logger) *CartService {
	return &CartService{
		catalog: catalog,
		rentals: rentals,
		log:     log,
		now:     time.Now,
		carts:   make(map[string]*cart.Cart),
		seen:    make(map[string]time.Time),
	}
}

// The helpers below must be called with mu held.

// lookup returns the stored cart of sessionID, or an empty cart that is not
// stored.
func (s *CartService) lookup(sessionID string) *cart.Cart {
	if c, ok := s.carts[sessionID]; ok {
		s.seen[sessionID] = s.now()
		return c
	}
	return cart.New()
}

// cartFor returns the cart of sessionID, storing a new one if needed.
func (s *CartService) cartFor(sessionID string) *cart.Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = cart.New()
		s.carts[sessionID] = c
	}
	s.seen[sessionID] = s.now()
	return c
}

// release forgets the cart of sessionID once it holds nothing.
func (s *CartService) release(sessionID string, c *cart.Cart) {
	if c.Len() == 0 {
		delete(s.carts, sessionID)
		delete(s.seen, sessionID)
	}
}

// EvictIdle drops carts not used since cutoff and returns how many were
// dropped.
func (s *CartService) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for sid, at := range s.seen {
		if at.Before(cutoff) {
			delete(s.carts, sid)
			delete(s.seen, sid)
			n++
		}
	}
	return n
}

// Len returns the number of carts held in memory.
func (s *CartService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func snapshot(c *cart.Cart) ports.CartView {
	return ports.CartView{Items: c.Items(), TotalItems: c.TotalItems()}
}

// View returns the current cart of sessionID.
func (s *CartService) View(sessionID string) ports.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.lookup(sessionID))
}

// AddItem resolves the item's stock from the catalog and adds it. Exceeding
// the stock is not an error: the result carries the outcome and a warning.
func (s *CartService) AddItem(ctx context.Context, sessionID string, in ports.AddItemInput) (*ports.CartResult, error) {
	if !in.Table.Valid() {
		return nil, domain.ErrUnknownCatalog
	}

	item, err := s.catalog.FindByID(ctx, in.Table, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	s.mu.Lock()
	c := s.cartFor(sessionID)
	out := c.Add(*item, in.Quantity)
	res := s.result(c, out)
	s.release(sessionID, c)
	s.mu.Unlock()

	if out.Warns() {
		s.log.Debug().
			Str("session_id", sessionID).
			Str("item_id", item.ID).
			Int("ceiling", out.Ceiling).
			Int("current", out.Current).
			Msg("add rejected: stock exceeded")
	}
	return &res, nil
}

// RemoveItem deletes a line; unknown ids are ignored.
func (s *CartService) RemoveItem(sessionID, itemID string) ports.CartResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(sessionID)
	res := s.result(c, c.Remove(itemID))
	s.release(sessionID, c)
	return res
}

// UpdateQuantity sets a line's quantity, clamping to the captured ceiling.
func (s *CartService) UpdateQuantity(sessionID, itemID string, quantity int) ports.CartResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(sessionID)
	return s.result(c, c.UpdateQuantity(itemID, quantity))
}

// Clear empties the cart of sessionID.
func (s *CartService) Clear(sessionID string) ports.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(sessionID)
	c.Clear()
	s.release(sessionID, c)
	return snapshot(c)
}

// Checkout writes the cart as a rental request and empties it. The cart is
// only cleared once the record store accepted the request.
func (s *CartService) Checkout(ctx context.Context, sessionID string, who *domain.Identity) (*domain.Rental, error) {
	if who == nil {
		return nil, domain.ErrAuthentication
	}

	view := s.View(sessionID)
	if len(view.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	rental := &domain.Rental{
		UserID:    who.ID,
		Username:  who.Username,
		Lines:     make([]domain.RentalLine, 0, len(view.Items)),
		Status:    domain.RentalStatusPending,
		CreatedAt: s.now().UTC(),
	}
	for _, it := range view.Items {
		rental.Lines = append(rental.Lines, domain.RentalLine{
			ItemID:   it.ItemID,
			Table:    it.Table,
			Name:     it.Name,
			Quantity: it.Quantity,
		})
	}

	id, err := s.rentals.Create(ctx, rental)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	rental.ID = id

	s.Clear(sessionID)

	s.log.Info().
		Str("session_id", sessionID).
		Str("user_id", who.ID).
		Str("rental_id", id).
		Int("lines", len(rental.Lines)).
		Msg("cart checked out")

	return rental, nil
}

func (s *CartService) result(c *cart.Cart, out cart.Outcome) ports.CartResult {
	return ports.CartResult{
		CartView: snapshot(c),
		Outcome:  out,
		Warning:  warningFor(out),
	}
}

// warningFor renders the message shown to the user for a stock violation.
func warningFor(out cart.Outcome) string {
	if !out.Warns() {
		return ""
	}
	if out.Status == cart.Clamped {
		return fmt.Sprintf("Insufficient stock: the limit for this item is %d.", out.Ceiling)
	}
	return fmt.Sprintf("Insufficient stock: only %d available and %d already in your cart.", out.Ceiling, out.Current)
}
