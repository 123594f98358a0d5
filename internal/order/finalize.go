package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jj-oyna/glass-pos/internal/pricing"
)

// ErrEmptyCart is returned when finalize is attempted with no items.
var ErrEmptyCart = errors.New("order: cart is empty")

// ErrNoCustomer is returned when the customer name is blank.
var ErrNoCustomer = errors.New("order: customer name is required")

// SavedOrder is a finalized order: a frozen snapshot of the cart with
// surcharged totals. Never mutated after creation.
type SavedOrder struct {
	ID           string             `json:"id"`
	Timestamp    int64              `json:"timestamp"`
	Items        []pricing.LineItem `json:"items"`
	TotalAmount  float64            `json:"totalAmount"`
	TotalArea    float64            `json:"totalArea"`
	CustomerName string             `json:"customerName"`
	WastePercent float64            `json:"wastePercent"`
}

// ShortID returns the short order reference used on receipts: the last
// four characters of the id, uppercased.
func (o SavedOrder) ShortID() string {
	id := o.ID
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return strings.ToUpper(id)
}

// Time returns the creation instant.
func (o SavedOrder) Time() time.Time {
	return time.UnixMilli(o.Timestamp)
}

// Finalizer freezes carts into archived orders.
type Finalizer struct {
	// Now is an injectable clock for tests. Defaults to time.Now.
	Now func() time.Time
}

func (f Finalizer) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Finalize snapshots the given items plus customer name into an immutable
// SavedOrder with surcharged totals, a fresh id, and a timestamp. It
// rejects a blank customer name or an empty cart and performs no side
// effects: prepending to the archive and clearing the live cart are the
// caller's responsibility.
func (f Finalizer) Finalize(items []pricing.LineItem, customerName string, wastePercent float64) (SavedOrder, error) {
	if strings.TrimSpace(customerName) == "" {
		return SavedOrder{}, ErrNoCustomer
	}
	if len(items) == 0 {
		return SavedOrder{}, ErrEmptyCart
	}
	var base pricing.Totals
	for _, item := range items {
		base.AreaM2 += item.AreaM2
		base.Amount += item.TotalPrice
	}
	total := base.WithSurcharge(wastePercent)
	return SavedOrder{
		ID:           uuid.NewString(),
		Timestamp:    f.now().UnixMilli(),
		Items:        append([]pricing.LineItem(nil), items...),
		TotalAmount:  total.Amount,
		TotalArea:    total.AreaM2,
		CustomerName: customerName,
		WastePercent: wastePercent,
	}, nil
}
