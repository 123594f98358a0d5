package cart

import (
	"sync"

	"github.com/jj-oyna/glass-pos/internal/pricing"
)

// Cart is the ordered collection of priced line items for the order being
// built. Insertion order is display order. A single mutex guards all
// operations so the snapshot-then-clear sequence at finalize stays atomic
// against concurrent entry.
type Cart struct {
	mu    sync.Mutex
	items []pricing.LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Append adds an item to the end of the sequence.
func (c *Cart) Append(item pricing.LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Remove deletes the item with the given id. Removing an absent id is a
// no-op; it reports whether an item was removed.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Len returns the number of items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy of the current sequence in insertion order. The
// copy never aliases the live cart and is never nil, so an empty cart
// serializes as an empty JSON array.
func (c *Cart) Items() []pricing.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]pricing.LineItem, 0, len(c.items))
	return append(out, c.items...)
}

// BaseTotals sums area and price over the current items. It is recomputed
// on every call so it always reflects the live set.
func (c *Cart) BaseTotals() pricing.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	var t pricing.Totals
	for _, item := range c.items {
		t.AreaM2 += item.AreaM2
		t.Amount += item.TotalPrice
	}
	return t
}
