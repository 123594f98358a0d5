package order

import (
	"strings"
	"testing"

	"github.com/jj-oyna/glass-pos/internal/catalog"
	"github.com/jj-oyna/glass-pos/internal/pricing"
)

var yod = catalog.GlassType{ID: "3", Name: "Yod", PricePerM2: 75000}

func TestGroupByGlassTwoTypes(t *testing.T) {
	a := mustPrice(t, oq4mm, 100, 50, 2) // 1.0 m², 64 000
	b := mustPrice(t, yod, 100, 50, 1)   // 0.5 m², 37 500
	c := mustPrice(t, oq4mm, 100, 50, 1) // 0.5 m², 32 000

	groups := GroupByGlass([]pricing.LineItem{a, b, c})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].GlassName != "Oq 4mm" || groups[1].GlassName != "Yod" {
		t.Fatalf("groups must follow first appearance: %s, %s", groups[0].GlassName, groups[1].GlassName)
	}
	if len(groups[0].Items) != 2 || len(groups[1].Items) != 1 {
		t.Fatal("unexpected group membership")
	}
	if groups[0].AreaM2 != 1.5 || groups[0].Price != 96000 {
		t.Fatalf("unexpected Oq 4mm sums: %v m², %v", groups[0].AreaM2, groups[0].Price)
	}
	if groups[1].AreaM2 != 0.5 || groups[1].Price != 37500 {
		t.Fatalf("unexpected Yod sums: %v m², %v", groups[1].AreaM2, groups[1].Price)
	}
}

func TestGroupByGlassEmpty(t *testing.T) {
	if groups := GroupByGlass(nil); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}

func TestCaption(t *testing.T) {
	o := SavedOrder{
		ID:           "xxxxabcd",
		CustomerName: "Anvar",
		TotalArea:    1.03,
		TotalAmount:  65920,
	}
	got := Caption(o)
	for _, want := range []string{"#ABCD", "*Anvar*", "1.030 m²", "65 920 so'm"} {
		if !strings.Contains(got, want) {
			t.Fatalf("caption missing %q:\n%s", want, got)
		}
	}
}

func TestCaptionUnknownCustomer(t *testing.T) {
	got := Caption(SavedOrder{ID: "abcd", CustomerName: "  "})
	if !strings.Contains(got, "Noma'lum") {
		t.Fatalf("expected fallback customer name:\n%s", got)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		950:        "950",
		65920:      "65 920",
		65920.4:    "65 920",
		65919.6:    "65 920",
		1234567:    "1 234 567",
		-65920:     "-65 920",
		1000000000: "1 000 000 000",
	}
	for in, want := range cases {
		if got := FormatMoney(in); got != want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", in, got, want)
		}
	}
}
