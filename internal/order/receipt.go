package order

import (
	"fmt"
	"math"
	"strings"

	"github.com/jj-oyna/glass-pos/internal/pricing"
)

// Group is the per-glass-type section of a receipt: the line items of one
// glass type plus their summed area and price. Group order follows the
// first appearance of each glass type in the order.
type Group struct {
	GlassName string             `json:"glassName"`
	Items     []pricing.LineItem `json:"items"`
	AreaM2    float64            `json:"areaM2"`
	Price     float64            `json:"price"`
}

// GroupByGlass builds the grouped-by-glass-type breakdown the rendering
// collaborator consumes.
func GroupByGlass(items []pricing.LineItem) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, item := range items {
		key := item.GlassType.Name
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{GlassName: key})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].AreaM2 += item.AreaM2
		groups[i].Price += item.TotalPrice
	}
	return groups
}

// Caption builds the short notification caption for a finalized order:
// short id, customer, surcharged area, and surcharged amount.
func Caption(o SavedOrder) string {
	customer := strings.TrimSpace(o.CustomerName)
	if customer == "" {
		customer = "Noma'lum"
	}
	return fmt.Sprintf(
		"📋 *YANGI BUYURTMA #%s*\n👤 Mijoz: *%s*\n📊 Yuza (Atxotli): *%.3f m²*\n💰 Summa: *%s so'm*",
		o.ShortID(), customer, o.TotalArea, FormatMoney(o.TotalAmount),
	)
}

// FormatMoney rounds to whole so'm and groups digits by thousands with
// spaces.
func FormatMoney(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
