package terminal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jj-oyna/glass-pos/internal/archive"
	"github.com/jj-oyna/glass-pos/internal/catalog"
	"github.com/jj-oyna/glass-pos/internal/gate"
	"github.com/jj-oyna/glass-pos/internal/order"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cat, err := catalog.New([]catalog.GlassType{
		{ID: "1", Name: "Oq 4mm", PricePerM2: 64000},
		{ID: "2", Name: "Yod 4mm", PricePerM2: 75000},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	g, err := gate.New("kalit")
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	return &Service{
		Sessions:     NewStore(time.Hour),
		Catalog:      cat,
		Archive:      archive.New(client, "test:archive"),
		Gate:         g,
		Finalizer:    order.Finalizer{},
		WastePercent: 3,
		Log:          zerolog.Nop(),
	}
}

func TestServiceCheckoutFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	view := svc.CreateSession()
	if view.GlassType.ID != "1" {
		t.Fatalf("expected first glass type preselected, got %q", view.GlassType.ID)
	}

	if _, err := svc.SelectGlass(view.ID, "2"); err != nil {
		t.Fatalf("select glass: %v", err)
	}
	item, err := svc.AddItem(view.ID, "2", 100, 100, 1)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.TotalPrice != 75000 {
		t.Fatalf("expected price from selected type, got %v", item.TotalPrice)
	}
	if _, err := svc.SetCustomer(view.ID, "Karim aka"); err != nil {
		t.Fatalf("set customer: %v", err)
	}

	o, err := svc.Checkout(ctx, view.ID, "kalit")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.TotalAmount != 77250 {
		t.Fatalf("expected surcharged 77250, got %v", o.TotalAmount)
	}

	if svc.Archive.Len() != 1 {
		t.Fatalf("expected archived order, len=%d", svc.Archive.Len())
	}
	if got := svc.Archive.All()[0].ID; got != o.ID {
		t.Fatalf("archived id mismatch: %s != %s", got, o.ID)
	}

	after, err := svc.Snapshot(view.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(after.Items) != 0 || after.CustomerName != "" {
		t.Fatal("checkout must clear the session")
	}
}

func TestServiceCheckoutNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Birinchi", "Ikkinchi"} {
		view := svc.CreateSession()
		if _, err := svc.AddItem(view.ID, "1", 50, 50, 1); err != nil {
			t.Fatalf("add item: %v", err)
		}
		if _, err := svc.SetCustomer(view.ID, name); err != nil {
			t.Fatalf("set customer: %v", err)
		}
		o, err := svc.Checkout(ctx, view.ID, "kalit")
		if err != nil {
			t.Fatalf("checkout %s: %v", name, err)
		}
		ids = append(ids, o.ID)
	}

	all := svc.Archive.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 archived orders, got %d", len(all))
	}
	if all[0].ID != ids[1] || all[1].ID != ids[0] {
		t.Fatal("archive must list newest first")
	}
}

func TestServiceCheckoutDenied(t *testing.T) {
	svc := newTestService(t)
	view := svc.CreateSession()
	if _, err := svc.AddItem(view.ID, "1", 100, 50, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := svc.SetCustomer(view.ID, "Ali"); err != nil {
		t.Fatalf("set customer: %v", err)
	}

	if _, err := svc.Checkout(context.Background(), view.ID, "notogri"); !errors.Is(err, gate.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	if svc.Archive.Len() != 0 {
		t.Fatal("denied checkout must not archive")
	}
	after, err := svc.Snapshot(view.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(after.Items) != 1 || after.CustomerName != "Ali" {
		t.Fatal("denied checkout must leave the session untouched")
	}
}

func TestServiceSelectGlassUnknown(t *testing.T) {
	svc := newTestService(t)
	view := svc.CreateSession()
	if _, err := svc.SelectGlass(view.ID, "99"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestServiceUnknownSession(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Snapshot("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
