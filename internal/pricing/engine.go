package pricing

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/jj-oyna/glass-pos/internal/catalog"
)

// AreaPrecision is the number of decimal places the computed area is
// rounded to. Archived totals are derived from the rounded area, so
// rounding must happen before the unit price multiply.
const AreaPrecision = 3

// ErrInvalidInput is returned when dimensions or quantity cannot produce
// a line item.
var ErrInvalidInput = errors.New("pricing: invalid dimensions or quantity")

// LineItem is one priced cut: dimensions times quantity against a glass
// type. Immutable after creation. The glass type is embedded by value so
// archived items stay interpretable if the catalog changes later.
type LineItem struct {
	ID         string            `json:"id"`
	GlassType  catalog.GlassType `json:"glassType"`
	HeightCm   float64           `json:"heightCm"`
	WidthCm    float64           `json:"widthCm"`
	Quantity   int               `json:"quantity"`
	AreaM2     float64           `json:"areaM2"`
	TotalPrice float64           `json:"totalPrice"`
}

// Totals pairs an area with its price.
type Totals struct {
	AreaM2 float64 `json:"areaM2"`
	Amount float64 `json:"amount"`
}

// WithSurcharge grows both components by the waste percentage.
func (t Totals) WithSurcharge(percent float64) Totals {
	return Totals{
		AreaM2: Surcharge(t.AreaM2, percent),
		Amount: Surcharge(t.Amount, percent),
	}
}

// Price converts a dimension/quantity triple into a priced line item. It
// returns ErrInvalidInput when height or width is not a finite positive
// number or quantity is not a positive integer.
func Price(glass catalog.GlassType, heightCm, widthCm float64, quantity int) (LineItem, error) {
	if !finitePositive(heightCm) || !finitePositive(widthCm) || quantity <= 0 {
		return LineItem{}, ErrInvalidInput
	}
	area := RoundArea(heightCm * widthCm / 10000 * float64(quantity))
	return LineItem{
		ID:         uuid.NewString(),
		GlassType:  glass,
		HeightCm:   heightCm,
		WidthCm:    widthCm,
		Quantity:   quantity,
		AreaM2:     area,
		TotalPrice: area * float64(glass.PricePerM2),
	}, nil
}

// RoundArea rounds half-up at AreaPrecision decimal places.
func RoundArea(area float64) float64 {
	shift := math.Pow(10, AreaPrecision)
	return math.Round(area*shift) / shift
}

// Surcharge grows value by percent: Surcharge(x, 3) = x * 1.03.
func Surcharge(value, percent float64) float64 {
	return value * (1 + percent/100)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
