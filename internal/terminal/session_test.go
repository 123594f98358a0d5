package terminal

import (
	"errors"
	"testing"
	"time"

	"github.com/jj-oyna/glass-pos/internal/catalog"
	"github.com/jj-oyna/glass-pos/internal/entry"
	"github.com/jj-oyna/glass-pos/internal/order"
)

var testGlass = catalog.GlassType{ID: "1", Name: "Oq 4mm", PricePerM2: 64000}

func testSession() *Session {
	return newSession("sess-1", testGlass, time.Now())
}

func press(t *testing.T, s *Session, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if _, _, err := s.HandleKey(k); err != nil {
			t.Fatalf("key %q: %v", k, err)
		}
	}
}

func TestSessionKeyCommit(t *testing.T) {
	s := testSession()
	press(t, s, "1", "0", "0", "next", "5", "0", "next", "2")

	item, committed, err := s.HandleKey("next")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !committed {
		t.Fatal("expected a committed line item")
	}
	if item.AreaM2 != 1.0 || item.TotalPrice != 64000 {
		t.Fatalf("unexpected pricing: area=%v price=%v", item.AreaM2, item.TotalPrice)
	}

	view := s.View(3)
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 cart item, got %d", len(view.Items))
	}
	if view.Entry.Width != "0" || view.Entry.Height != "0" || view.Entry.Quantity != "0" {
		t.Fatalf("pad not reset after commit: %+v", view.Entry)
	}
	if view.Entry.Active != entry.FieldWidth {
		t.Fatalf("expected width active after commit, got %s", view.Entry.Active)
	}
	if view.Totals.Amount != 65920 {
		t.Fatalf("expected surcharged total 65920, got %v", view.Totals.Amount)
	}
}

func TestSessionCommaIsSeparator(t *testing.T) {
	s := testSession()
	press(t, s, "1", ",", "5")

	view := s.View(3)
	if view.Entry.Width != "1.5" {
		t.Fatalf("comma must type the decimal separator, got %q", view.Entry.Width)
	}
}

func TestSessionIncompleteCycleDiscardsSilently(t *testing.T) {
	s := testSession()
	press(t, s, "1", "0", "0", "next", "5", "0", "next")

	// Quantity still "0": cycling past must not commit and must keep the
	// dimension buffers.
	_, committed, err := s.HandleKey("next")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if committed {
		t.Fatal("incomplete entry must not commit")
	}
	view := s.View(3)
	if len(view.Items) != 0 {
		t.Fatal("cart must stay empty")
	}
	if view.Entry.Width != "100" || view.Entry.Height != "50" {
		t.Fatalf("buffers must be preserved, got %+v", view.Entry)
	}
	if view.Entry.Active != entry.FieldWidth {
		t.Fatalf("expected return to width, got %s", view.Entry.Active)
	}
}

func TestSessionEscapeClearsActiveBuffer(t *testing.T) {
	s := testSession()
	press(t, s, "7", "5")
	press(t, s, "escape")
	if got := s.View(3).Entry.Width; got != "0" {
		t.Fatalf("expected cleared buffer, got %q", got)
	}
}

func TestSessionUnknownKey(t *testing.T) {
	s := testSession()
	if _, _, err := s.HandleKey("enter"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestSessionCheckout(t *testing.T) {
	s := testSession()
	if _, err := s.AddItem(testGlass, 100, 50, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	s.SetCustomer("Ali")

	var committed order.SavedOrder
	o, err := s.Checkout(order.Finalizer{}, 3, func(o order.SavedOrder) error {
		committed = o
		return nil
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.ID != committed.ID {
		t.Fatal("commit callback must receive the finalized order")
	}
	if o.TotalAmount != 65920 || o.CustomerName != "Ali" {
		t.Fatalf("unexpected order: %+v", o)
	}

	view := s.View(3)
	if len(view.Items) != 0 || view.CustomerName != "" {
		t.Fatal("checkout must clear the cart and customer name")
	}
}

func TestSessionCheckoutRejections(t *testing.T) {
	s := testSession()
	s.SetCustomer("Ali")
	if _, err := s.Checkout(order.Finalizer{}, 3, nil); !errors.Is(err, order.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	if _, err := s.AddItem(testGlass, 100, 50, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	s.SetCustomer("   ")
	if _, err := s.Checkout(order.Finalizer{}, 3, nil); !errors.Is(err, order.ErrNoCustomer) {
		t.Fatalf("expected ErrNoCustomer, got %v", err)
	}
	if s.View(3).Items == nil || len(s.View(3).Items) != 1 {
		t.Fatal("rejected checkout must leave the cart untouched")
	}
}

func TestSessionCheckoutCommitFailureKeepsCart(t *testing.T) {
	s := testSession()
	if _, err := s.AddItem(testGlass, 100, 50, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	s.SetCustomer("Ali")

	boom := errors.New("boom")
	if _, err := s.Checkout(order.Finalizer{}, 3, func(order.SavedOrder) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected commit error, got %v", err)
	}
	view := s.View(3)
	if len(view.Items) != 1 || view.CustomerName != "Ali" {
		t.Fatal("failed commit must not clear the session")
	}
}
