package terminal

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jj-oyna/glass-pos/internal/cart"
	"github.com/jj-oyna/glass-pos/internal/catalog"
	"github.com/jj-oyna/glass-pos/internal/entry"
	"github.com/jj-oyna/glass-pos/internal/order"
	"github.com/jj-oyna/glass-pos/internal/pricing"
)

// ErrUnknownKey is returned when a key press does not map to a terminal action.
var ErrUnknownKey = errors.New("terminal: unknown key")

// Session is one operator's terminal: the dimension pad, the selected
// glass type, the live cart, and the customer name, all guarded by a
// single mutex so concurrent requests on the same session serialize.
type Session struct {
	mu sync.Mutex

	id        string
	pad       *entry.Pad
	glass     catalog.GlassType
	cart      *cart.Cart
	customer  string
	createdAt time.Time
	lastSeen  time.Time
}

func newSession(id string, glass catalog.GlassType, now time.Time) *Session {
	return &Session{
		id:        id,
		pad:       entry.NewPad(),
		glass:     glass,
		cart:      cart.New(),
		createdAt: now,
		lastSeen:  now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ttl > 0 && now.Sub(s.lastSeen) > ttl
}

// HandleKey routes one key press. Digits and the separator edit the
// active buffer; "next" advances the field cycle and, from the quantity
// field with a complete entry, prices the dimensions against the selected
// glass type and appends the line item to the cart. "escape" and "clear"
// both reset the active buffer. The committed item and true are returned
// on a commit.
func (s *Session) HandleKey(key string) (pricing.LineItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".":
		s.pad.Press(key)
		return pricing.LineItem{}, false, nil
	case ",":
		// Comma keyboards type the separator too.
		s.pad.Press(".")
		return pricing.LineItem{}, false, nil
	case "backspace":
		s.pad.Backspace()
		return pricing.LineItem{}, false, nil
	case "clear", "escape":
		s.pad.Clear()
		return pricing.LineItem{}, false, nil
	case "next":
		commit, ok := s.pad.Advance()
		if !ok {
			return pricing.LineItem{}, false, nil
		}
		item, err := pricing.Price(s.glass, commit.HeightCm, commit.WidthCm, commit.Quantity)
		if err != nil {
			return pricing.LineItem{}, false, err
		}
		s.cart.Append(item)
		return item, true, nil
	}
	return pricing.LineItem{}, false, ErrUnknownKey
}

// SelectField jumps the pad to the given field.
func (s *Session) SelectField(f entry.Field) {
	s.mu.Lock()
	s.pad.SelectField(f)
	s.mu.Unlock()
}

// SetGlass switches the glass type priced on subsequent commits. Items
// already in the cart keep the type they were priced with.
func (s *Session) SetGlass(g catalog.GlassType) {
	s.mu.Lock()
	s.glass = g
	s.mu.Unlock()
}

// SetCustomer records the customer name for checkout.
func (s *Session) SetCustomer(name string) {
	s.mu.Lock()
	s.customer = strings.TrimSpace(name)
	s.mu.Unlock()
}

// AddItem prices explicit dimensions and appends the result, bypassing
// the pad.
func (s *Session) AddItem(g catalog.GlassType, heightCm, widthCm float64, quantity int) (pricing.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := pricing.Price(g, heightCm, widthCm, quantity)
	if err != nil {
		return pricing.LineItem{}, err
	}
	s.cart.Append(item)
	return item, nil
}

// RemoveItem drops one line item. Removing an absent id is a no-op.
func (s *Session) RemoveItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Remove(id)
}

// ClearItems empties the cart.
func (s *Session) ClearItems() {
	s.mu.Lock()
	s.cart.Clear()
	s.mu.Unlock()
}

// Checkout finalizes the session under its mutex: freeze the cart into an
// order, hand it to commit for archiving, then clear the cart and the
// customer name. A finalize rejection leaves the session untouched.
func (s *Session) Checkout(f order.Finalizer, wastePercent float64, commit func(order.SavedOrder) error) (order.SavedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := f.Finalize(s.cart.Items(), s.customer, wastePercent)
	if err != nil {
		return order.SavedOrder{}, err
	}
	if commit != nil {
		if err := commit(o); err != nil {
			return order.SavedOrder{}, err
		}
	}
	s.cart.Clear()
	s.customer = ""
	return o, nil
}

// EntryView is the pad state shown on the terminal.
type EntryView struct {
	Active   entry.Field `json:"activeField"`
	Width    string      `json:"width"`
	Height   string      `json:"height"`
	Quantity string      `json:"quantity"`
}

// View is the full session snapshot returned to the terminal: entry
// state, selection, cart contents, and live totals with the waste
// surcharge applied.
type View struct {
	ID           string             `json:"id"`
	Entry        EntryView          `json:"entry"`
	GlassType    catalog.GlassType  `json:"glassType"`
	CustomerName string             `json:"customerName"`
	Items        []pricing.LineItem `json:"items"`
	BaseTotals   pricing.Totals     `json:"baseTotals"`
	Totals       pricing.Totals     `json:"totals"`
	WastePercent float64            `json:"wastePercent"`
}

// View snapshots the session.
func (s *Session) View(wastePercent float64) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.cart.BaseTotals()
	return View{
		ID: s.id,
		Entry: EntryView{
			Active:   s.pad.Active(),
			Width:    s.pad.Width(),
			Height:   s.pad.Height(),
			Quantity: s.pad.Quantity(),
		},
		GlassType:    s.glass,
		CustomerName: s.customer,
		Items:        s.cart.Items(),
		BaseTotals:   base,
		Totals:       base.WithSurcharge(wastePercent),
		WastePercent: wastePercent,
	}
}
