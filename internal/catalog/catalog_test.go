package catalog

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeed(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if len(c.List()) != 13 {
		t.Fatalf("expected 13 seed glass types, got %d", len(c.List()))
	}
	gt, err := c.Get("1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gt.Name != "Oq 4mm" || gt.PricePerM2 != 64000 {
		t.Fatalf("unexpected seed entry: %+v", gt)
	}
	if c.First().ID != "1" {
		t.Fatalf("unexpected first entry %s", c.First().ID)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[{"id":"a","name":"Test 4mm","pricePerM2":50000}]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	gt, err := c.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gt.PricePerM2 != 50000 {
		t.Fatalf("unexpected price %d", gt.PricePerM2)
	}
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	cases := map[string][]GlassType{
		"empty":          nil,
		"missing id":     {{Name: "x", PricePerM2: 1}},
		"missing name":   {{ID: "1", PricePerM2: 1}},
		"zero price":     {{ID: "1", Name: "x", PricePerM2: 0}},
		"negative price": {{ID: "1", Name: "x", PricePerM2: -5}},
		"duplicate id": {
			{ID: "1", Name: "x", PricePerM2: 1},
			{ID: "1", Name: "y", PricePerM2: 2},
		},
	}
	for name, types := range cases {
		if _, err := New(types); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := c.Get("nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListHandler(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	h := &Handler{Catalog: c}
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/v1/catalog", nil))
	if rec.Code != 200 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}
