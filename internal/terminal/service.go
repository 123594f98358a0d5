package terminal

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jj-oyna/glass-pos/internal/archive"
	"github.com/jj-oyna/glass-pos/internal/catalog"
	"github.com/jj-oyna/glass-pos/internal/entry"
	"github.com/jj-oyna/glass-pos/internal/gate"
	"github.com/jj-oyna/glass-pos/internal/notify"
	"github.com/jj-oyna/glass-pos/internal/obs"
	"github.com/jj-oyna/glass-pos/internal/order"
	"github.com/jj-oyna/glass-pos/internal/pricing"
)

// Service composes the terminal flow: sessions, the catalog, the checkout
// gate, the archive, and the receipt queue.
type Service struct {
	Sessions     *Store
	Catalog      *catalog.Catalog
	Archive      *archive.Store
	Gate         *gate.Gate
	Finalizer    order.Finalizer
	Enqueuer     *notify.Enqueuer
	WastePercent float64
	Log          zerolog.Logger
}

// CreateSession opens a session with the catalog's first glass type
// preselected, matching the terminal's initial state.
func (svc *Service) CreateSession() View {
	s := svc.Sessions.Create(svc.Catalog.First())
	return s.View(svc.WastePercent)
}

// Snapshot returns the live state of a session.
func (svc *Service) Snapshot(id string) (View, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	return s.View(svc.WastePercent), nil
}

// HandleKey routes a key press on a session.
func (svc *Service) HandleKey(id, key string) (View, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	item, committed, err := s.HandleKey(key)
	if err != nil {
		return View{}, err
	}
	if committed {
		countPriced("ok")
		svc.Log.Debug().
			Str("session_id", id).
			Str("item_id", item.ID).
			Float64("area_m2", item.AreaM2).
			Msg("line item committed")
	}
	return s.View(svc.WastePercent), nil
}

// SelectField jumps the pad to the given field.
func (svc *Service) SelectField(id string, f entry.Field) (View, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	s.SelectField(f)
	return s.View(svc.WastePercent), nil
}

// SelectGlass switches the session's glass type by catalog id.
func (svc *Service) SelectGlass(id, glassTypeID string) (View, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	g, err := svc.Catalog.Get(glassTypeID)
	if err != nil {
		return View{}, err
	}
	s.SetGlass(g)
	return s.View(svc.WastePercent), nil
}

// SetCustomer records the customer name on the session.
func (svc *Service) SetCustomer(id, name string) (View, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	s.SetCustomer(name)
	return s.View(svc.WastePercent), nil
}

// AddItem prices explicit dimensions against a catalog glass type and
// appends the line item to the session's cart.
func (svc *Service) AddItem(id, glassTypeID string, heightCm, widthCm float64, quantity int) (pricing.LineItem, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return pricing.LineItem{}, err
	}
	g, err := svc.Catalog.Get(glassTypeID)
	if err != nil {
		return pricing.LineItem{}, err
	}
	item, err := s.AddItem(g, heightCm, widthCm, quantity)
	if err != nil {
		countPriced("invalid")
		return pricing.LineItem{}, err
	}
	countPriced("ok")
	return item, nil
}

// RemoveItem drops one line item from the session's cart.
func (svc *Service) RemoveItem(id, itemID string) (View, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	s.RemoveItem(itemID)
	return s.View(svc.WastePercent), nil
}

// ClearItems empties the session's cart.
func (svc *Service) ClearItems(id string) (View, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	s.ClearItems()
	return s.View(svc.WastePercent), nil
}

// Checkout runs the finalize flow: verify the shared secret, freeze the
// cart into an archived order, then clear the session, all under the
// session mutex. The receipt delivery task is enqueued afterwards; an
// enqueue failure is logged and does not undo the archived order.
func (svc *Service) Checkout(ctx context.Context, id, secret string) (order.SavedOrder, error) {
	s, err := svc.Sessions.Get(id)
	if err != nil {
		return order.SavedOrder{}, err
	}

	if err := svc.Gate.Verify(secret); err != nil {
		countGate("denied")
		return order.SavedOrder{}, err
	}
	countGate("ok")

	o, err := s.Checkout(svc.Finalizer, svc.WastePercent, func(o order.SavedOrder) error {
		if err := svc.Archive.Prepend(ctx, o); err != nil {
			// The order is already committed in memory; losing the redis
			// write must not fail the sale.
			svc.Log.Error().Err(err).Str("order_id", o.ID).Msg("archive persist failed")
		}
		return nil
	})
	if err != nil {
		countFinalized("rejected")
		return order.SavedOrder{}, err
	}
	countFinalized("ok")
	svc.Log.Info().
		Str("order_id", o.ID).
		Str("customer", o.CustomerName).
		Float64("total_amount", o.TotalAmount).
		Msg("order finalized")

	if svc.Enqueuer != nil {
		if err := svc.Enqueuer.Enqueue(ctx, o); err != nil {
			svc.Log.Warn().Err(err).Str("order_id", o.ID).Msg("receipt enqueue failed")
		}
	}
	return o, nil
}

func countPriced(result string) {
	if obs.LineItemsPricedTotal != nil {
		obs.LineItemsPricedTotal.WithLabelValues(result).Inc()
	}
}

func countGate(result string) {
	if obs.GateAttemptsTotal != nil {
		obs.GateAttemptsTotal.WithLabelValues(result).Inc()
	}
}

func countFinalized(result string) {
	if obs.OrdersFinalizedTotal != nil {
		obs.OrdersFinalizedTotal.WithLabelValues(result).Inc()
	}
}
