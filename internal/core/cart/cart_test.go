package cart

import (
	"math"
	"reflect"
	"testing"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

func item(id string, stock int) domain.CatalogItem {
	return domain.CatalogItem{ID: id, Name: "item " + id, Table: domain.TableEquipment, TotalStock: stock}
}

func quantityOf(t *testing.T, c *Cart, id string) int {
	t.Helper()
	for _, it := range c.Items() {
		if it.ItemID == id {
			return it.Quantity
		}
	}
	t.Fatalf("item %s not in cart", id)
	return 0
}

func assertBounded(t *testing.T, c *Cart) {
	t.Helper()
	for _, it := range c.Items() {
		if it.Quantity < 1 || it.Quantity > it.StockCeiling {
			t.Fatalf("line %s out of bounds: quantity=%d ceiling=%d", it.ItemID, it.Quantity, it.StockCeiling)
		}
	}
}

func TestAdd_NewItem(t *testing.T) {
	c := New()
	out := c.Add(item("cam", 3), 2)
	if out.Status != Applied {
		t.Fatalf("expected applied, got %+v", out)
	}
	items := c.Items()
	if len(items) != 1 || items[0].Quantity != 2 || items[0].StockCeiling != 3 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestAdd_DefaultQuantity(t *testing.T) {
	c := New()
	c.Add(item("cam", 3), 0)
	if got := quantityOf(t, c, "cam"); got != 1 {
		t.Fatalf("expected quantity 1, got %d", got)
	}
}

func TestAdd_Twice(t *testing.T) {
	tests := []struct {
		name     string
		q        int
		ceiling  int
		want     int
		warnings int
	}{
		{"fits twice", 2, 4, 4, 0},
		{"fits twice with room", 2, 5, 4, 0},
		{"second rejected", 2, 3, 2, 1},
		{"second rejected at exact q", 3, 3, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			warnings := 0
			for i := 0; i < 2; i++ {
				if out := c.Add(item("mic", tt.ceiling), tt.q); out.Warns() {
					warnings++
				}
			}
			if got := quantityOf(t, c, "mic"); got != tt.want {
				t.Fatalf("expected quantity %d, got %d", tt.want, got)
			}
			if warnings != tt.warnings {
				t.Fatalf("expected %d warnings, got %d", tt.warnings, warnings)
			}
		})
	}
}

func TestAdd_RejectionReportsCeilingAndCurrent(t *testing.T) {
	c := New()
	c.Add(item("mic", 3), 2)
	out := c.Add(item("mic", 3), 2)

	want := Outcome{Status: Rejected, Reason: ReasonStockExceeded, Ceiling: 3, Current: 2}
	if out != want {
		t.Fatalf("expected %+v, got %+v", want, out)
	}
}

func TestAdd_ExceedsOnFirstAdd(t *testing.T) {
	c := New()
	out := c.Add(item("tripod", 1), 2)
	if out.Status != Rejected || c.Len() != 0 {
		t.Fatalf("expected rejection with empty cart, got %+v len=%d", out, c.Len())
	}
}

func TestAdd_ZeroStockNeverFits(t *testing.T) {
	c := New()
	if out := c.Add(item("broken", 0), 1); out.Status != Rejected {
		t.Fatalf("expected rejection, got %+v", out)
	}
}

func TestAdd_NeverExceedsCeiling(t *testing.T) {
	c := New()
	quantities := []int{1, 3, 2, 5, 1, 1, 4, 2}
	for _, q := range quantities {
		c.Add(item("a", 6), q)
		c.Add(item("b", 2), q)
		assertBounded(t, c)
	}
}

func TestAdd_HugeQuantityIsRejected(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 1)

	out := c.Add(item("a", 5), math.MaxInt)
	if out.Status != Rejected || out.Ceiling != 5 || out.Current != 1 {
		t.Fatalf("expected rejection, got %+v", out)
	}
	assertBounded(t, c)
	if c.TotalItems() != 1 {
		t.Fatalf("expected 1 item, got %d", c.TotalItems())
	}

	c.Add(item("b", math.MaxInt), math.MaxInt)
	if out := c.Add(item("b", math.MaxInt), math.MaxInt); out.Status != Rejected {
		t.Fatalf("expected rejection at full stock, got %+v", out)
	}
	assertBounded(t, c)
	if c.TotalItems() != math.MaxInt {
		t.Fatalf("expected total to saturate, got %d", c.TotalItems())
	}
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 1)
	c.Add(item("b", 5), 1)
	c.Add(item("a", 5), 1)

	items := c.Items()
	if items[0].ItemID != "a" || items[1].ItemID != "b" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 1)
	c.Add(item("b", 5), 1)

	if out := c.Remove("a"); out.Status != Applied {
		t.Fatalf("expected applied, got %+v", out)
	}
	if c.Len() != 1 || c.Items()[0].ItemID != "b" {
		t.Fatalf("unexpected items: %+v", c.Items())
	}
}

func TestRemove_Missing(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 2)
	before := c.Items()

	if out := c.Remove("nope"); out.Status != Ignored {
		t.Fatalf("expected ignored, got %+v", out)
	}
	if !reflect.DeepEqual(before, c.Items()) {
		t.Fatalf("cart changed: before=%+v after=%+v", before, c.Items())
	}
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 1)

	if out := c.UpdateQuantity("a", 4); out.Status != Applied {
		t.Fatalf("expected applied, got %+v", out)
	}
	if got := quantityOf(t, c, "a"); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestUpdateQuantity_BelowMinimumIsNoop(t *testing.T) {
	for _, q := range []int{0, -3} {
		c := New()
		c.Add(item("a", 5), 2)

		out := c.UpdateQuantity("a", q)
		if out.Status != Ignored || out.Reason != ReasonBelowMinimum {
			t.Fatalf("expected ignored below minimum, got %+v", out)
		}
		if got := quantityOf(t, c, "a"); got != 2 {
			t.Fatalf("quantity changed to %d", got)
		}
	}
}

func TestUpdateQuantity_ClampsToCeiling(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 1)

	out := c.UpdateQuantity("a", 6)
	if out.Status != Clamped || out.Ceiling != 5 || !out.Warns() {
		t.Fatalf("expected clamped warning, got %+v", out)
	}
	if got := quantityOf(t, c, "a"); got != 5 {
		t.Fatalf("expected clamp to 5, got %d", got)
	}
	assertBounded(t, c)
}

func TestUpdateQuantity_UsesCapturedCeiling(t *testing.T) {
	c := New()
	c.Add(item("a", 3), 1)
	// A later add with a different stock value does not move the ceiling.
	c.Add(item("a", 10), 1)

	c.UpdateQuantity("a", 8)
	if got := quantityOf(t, c, "a"); got != 3 {
		t.Fatalf("expected clamp to captured ceiling 3, got %d", got)
	}
}

func TestUpdateQuantity_Missing(t *testing.T) {
	c := New()
	if out := c.UpdateQuantity("ghost", 2); out.Status != Ignored || out.Reason != ReasonNotInCart {
		t.Fatalf("expected ignored, got %+v", out)
	}
	if c.Len() != 0 {
		t.Fatalf("cart must stay empty")
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 2)
	c.Add(item("b", 5), 3)

	c.Clear()
	if c.Len() != 0 || c.TotalItems() != 0 {
		t.Fatalf("expected empty cart, got %+v", c.Items())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("clearing twice must stay empty")
	}
}

func TestTotalItems(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 2)
	c.Add(item("b", 5), 3)
	c.UpdateQuantity("a", 4)

	if got := c.TotalItems(); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New()
	c.Add(item("a", 5), 2)
	items := c.Items()
	items[0].Quantity = 99

	if got := quantityOf(t, c, "a"); got != 2 {
		t.Fatalf("cart mutated through Items(): %d", got)
	}
}
