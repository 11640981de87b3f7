package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"storefront/config"
	"storefront/models"
)

// ParseCatalog decodes a products.json document. A document without an
// "items" key yields an empty catalog; anything after the document is an error.
func ParseCatalog(r io.Reader) ([]models.CatalogItem, error) {
	var c models.Catalog
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode catalog: trailing data after document")
	}
	if c.Items == nil {
		return []models.CatalogItem{}, nil
	}
	return c.Items, nil
}

// LoadCatalogFile reads and parses the catalog at path.
func LoadCatalogFile(path string) ([]models.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// GroupOf maps the id prefix convention (m/s/d) to a display group.
func GroupOf(id string) string {
	switch {
	case strings.HasPrefix(id, "m"):
		return models.GroupMain
	case strings.HasPrefix(id, "s"):
		return models.GroupSide
	case strings.HasPrefix(id, "d"):
		return models.GroupDrink
	default:
		return models.GroupOther
	}
}

// CatalogGroup lists the line indexes that belong to one display group.
type CatalogGroup struct {
	Group   string
	Indexes []int
}

var groupOrder = []string{models.GroupMain, models.GroupSide, models.GroupDrink, models.GroupOther}

// GroupItems sections items for display. Empty groups are omitted; item
// order within a group is catalog order.
func GroupItems(items []models.CatalogItem) []CatalogGroup {
	byGroup := make(map[string][]int)
	for i, it := range items {
		g := GroupOf(it.ID)
		byGroup[g] = append(byGroup[g], i)
	}
	var out []CatalogGroup
	for _, g := range groupOrder {
		if idx := byGroup[g]; len(idx) > 0 {
			out = append(out, CatalogGroup{Group: g, Indexes: idx})
		}
	}
	return out
}

// LoadCatalog reads the catalog from the configured source ("file" or "db").
// On failure it returns an empty, non-nil catalog together with the error so
// callers can keep running and show a diagnostic.
func LoadCatalog(ctx context.Context, source, path string) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	var err error
	if source == config.CatalogSourceDB {
		items, err = ListCatalog(ctx)
	} else {
		items, err = LoadCatalogFile(path)
	}
	if err != nil {
		return []models.CatalogItem{}, err
	}
	return items, nil
}
