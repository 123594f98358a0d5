package order

import (
	"testing"
	"time"

	"github.com/jj-oyna/glass-pos/internal/catalog"
	"github.com/jj-oyna/glass-pos/internal/pricing"
)

var oq4mm = catalog.GlassType{ID: "1", Name: "Oq 4mm", PricePerM2: 64000}

func mustPrice(t *testing.T, gt catalog.GlassType, h, w float64, q int) pricing.LineItem {
	t.Helper()
	item, err := pricing.Price(gt, h, w, q)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	return item
}

func TestFinalizeExampleScenario(t *testing.T) {
	item := mustPrice(t, oq4mm, 100, 50, 2) // 1.0 m², 64 000
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f := Finalizer{Now: func() time.Time { return fixed }}

	ord, err := f.Finalize([]pricing.LineItem{item}, "Anvar", 3)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if ord.TotalAmount != 65920 {
		t.Fatalf("expected total amount 65920, got %v", ord.TotalAmount)
	}
	if ord.TotalArea != 1.03 {
		t.Fatalf("expected total area 1.03, got %v", ord.TotalArea)
	}
	if ord.WastePercent != 3 {
		t.Fatalf("expected waste percent 3, got %v", ord.WastePercent)
	}
	if ord.Timestamp != fixed.UnixMilli() {
		t.Fatalf("unexpected timestamp %d", ord.Timestamp)
	}
	if ord.CustomerName != "Anvar" {
		t.Fatalf("unexpected customer %q", ord.CustomerName)
	}
	if len(ord.Items) != 1 || ord.Items[0].ID != item.ID {
		t.Fatal("expected snapshot of the given items")
	}
}

func TestFinalizeRejectsBlankCustomer(t *testing.T) {
	item := mustPrice(t, oq4mm, 100, 50, 1)
	f := Finalizer{}
	for _, name := range []string{"", "   ", "\t"} {
		if _, err := f.Finalize([]pricing.LineItem{item}, name, 3); err != ErrNoCustomer {
			t.Fatalf("customer %q: expected ErrNoCustomer, got %v", name, err)
		}
	}
}

func TestFinalizeRejectsEmptyCart(t *testing.T) {
	f := Finalizer{}
	if _, err := f.Finalize(nil, "Anvar", 3); err != ErrEmptyCart {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestFinalizeSnapshotDoesNotAlias(t *testing.T) {
	items := []pricing.LineItem{mustPrice(t, oq4mm, 100, 50, 1)}
	f := Finalizer{}
	ord, err := f.Finalize(items, "Anvar", 3)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	items[0] = pricing.LineItem{ID: "mutated"}
	if ord.Items[0].ID == "mutated" {
		t.Fatal("archived items must not alias the caller's slice")
	}
}

func TestFinalizeAssignsUniqueIDs(t *testing.T) {
	items := []pricing.LineItem{mustPrice(t, oq4mm, 100, 50, 1)}
	f := Finalizer{}
	a, _ := f.Finalize(items, "Anvar", 3)
	b, _ := f.Finalize(items, "Anvar", 3)
	if a.ID == b.ID {
		t.Fatalf("expected unique order ids, both %s", a.ID)
	}
}

func TestShortID(t *testing.T) {
	o := SavedOrder{ID: "3e1f8a52-9d5c-4b6f-8a1d-0c2e4f6abcde"}
	if o.ShortID() != "BCDE" {
		t.Fatalf("expected BCDE, got %s", o.ShortID())
	}
	short := SavedOrder{ID: "ab"}
	if short.ShortID() != "AB" {
		t.Fatalf("expected AB, got %s", short.ShortID())
	}
}
