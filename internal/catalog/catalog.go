package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound indicates the requested glass type is not in the catalog.
var ErrNotFound = errors.New("glass type not found")

// GlassType is one catalog entry: a category of glass priced per square
// metre. Entries are immutable once loaded.
type GlassType struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PricePerM2 int64  `json:"pricePerM2"`
}

// Catalog is the load-once price card. It is never mutated after Load, so
// concurrent reads need no locking.
type Catalog struct {
	types []GlassType
	byID  map[string]GlassType
}

// Load builds a catalog from the JSON file at path, or from the built-in
// seed list when path is empty.
func Load(path string) (*Catalog, error) {
	types := seedTypes()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		types = nil
		if err := json.Unmarshal(data, &types); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	}
	return New(types)
}

// New validates the provided entries and builds a catalog from them.
func New(types []GlassType) (*Catalog, error) {
	if len(types) == 0 {
		return nil, errors.New("catalog is empty")
	}
	byID := make(map[string]GlassType, len(types))
	for _, gt := range types {
		if strings.TrimSpace(gt.ID) == "" {
			return nil, fmt.Errorf("glass type %q has no id", gt.Name)
		}
		if strings.TrimSpace(gt.Name) == "" {
			return nil, fmt.Errorf("glass type %s has no name", gt.ID)
		}
		if gt.PricePerM2 <= 0 {
			return nil, fmt.Errorf("glass type %s has non-positive price", gt.ID)
		}
		if _, exists := byID[gt.ID]; exists {
			return nil, fmt.Errorf("duplicate glass type id %s", gt.ID)
		}
		byID[gt.ID] = gt
	}
	return &Catalog{types: append([]GlassType(nil), types...), byID: byID}, nil
}

// List returns all glass types in catalog order.
func (c *Catalog) List() []GlassType {
	return append([]GlassType(nil), c.types...)
}

// Get looks up a glass type by id.
func (c *Catalog) Get(id string) (GlassType, error) {
	gt, ok := c.byID[id]
	if !ok {
		return GlassType{}, ErrNotFound
	}
	return gt, nil
}

// First returns the first catalog entry, the default selection for a new
// terminal session.
func (c *Catalog) First() GlassType {
	return c.types[0]
}

// seedTypes is the shop's price card, used when no catalog file is
// configured. Prices are so'm per square metre.
func seedTypes() []GlassType {
	return []GlassType{
		{ID: "1", Name: "Oq 4mm", PricePerM2: 64000},
		{ID: "2", Name: "Oq 6mm", PricePerM2: 110000},
		{ID: "3", Name: "Yod", PricePerM2: 75000},
		{ID: "4", Name: "Ko'k", PricePerM2: 90000},
		{ID: "5", Name: "Qora", PricePerM2: 90000},
		{ID: "6", Name: "Ko'zgu", PricePerM2: 110000},
		{ID: "7", Name: "Forza", PricePerM2: 120000},
		{ID: "8", Name: "Oq bodom gulli", PricePerM2: 90000},
		{ID: "9", Name: "Oq dekorativ", PricePerM2: 90000},
		{ID: "10", Name: "Yod Bodomgul", PricePerM2: 105000},
		{ID: "13", Name: "Yod Dekorativ", PricePerM2: 105000},
		{ID: "11", Name: "Qora gul", PricePerM2: 120000},
		{ID: "12", Name: "Tilla gul", PricePerM2: 105000},
	}
}
