package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/db"
	"storefront/models"

	"github.com/jackc/pgx/v5"
)

// ListCatalog loads the catalog from catalog_items / catalog_item_sizes in position order.
func ListCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	if db.Pool == nil {
		return nil, db.ErrNoDB
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, price, image FROM catalog_items
		ORDER BY position, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	items := []models.CatalogItem{}
	index := make(map[string]int)
	for rows.Next() {
		var it models.CatalogItem
		var image *string
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &image); err != nil {
			return nil, err
		}
		if image != nil {
			it.Image = *image
		}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sizeRows, err := db.Pool.Query(ctx, `
		SELECT item_id, name, price FROM catalog_item_sizes
		ORDER BY item_id, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query catalog sizes: %w", err)
	}
	defer sizeRows.Close()

	for sizeRows.Next() {
		var itemID string
		var s models.Size
		if err := sizeRows.Scan(&itemID, &s.Name, &s.Price); err != nil {
			return nil, err
		}
		if i, ok := index[itemID]; ok {
			items[i].Sizes = append(items[i].Sizes, s)
		}
	}
	return items, sizeRows.Err()
}

// ErrDuplicateItemID is returned by ReplaceCatalog when two items share an id.
var ErrDuplicateItemID = errors.New("duplicate catalog item id")

// catalogIDs returns the stored id for each item. Items without an id get
// "x<pos>", suffixed until it no longer clashes with another item's id.
func catalogIDs(items []models.CatalogItem) ([]string, error) {
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if taken[it.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItemID, it.ID)
		}
		taken[it.ID] = true
	}
	ids := make([]string, len(items))
	for pos, it := range items {
		id := it.ID
		if id == "" {
			id = fmt.Sprintf("x%d", pos)
			for n := 1; taken[id]; n++ {
				id = fmt.Sprintf("x%d_%d", pos, n)
			}
			taken[id] = true
		}
		ids[pos] = id
	}
	return ids, nil
}

// ReplaceCatalog swaps the stored catalog for items in one transaction.
// Items without an id get a positional one ("x<n>"); duplicate ids are
// rejected before anything is written.
func ReplaceCatalog(ctx context.Context, items []models.CatalogItem) error {
	if db.Pool == nil {
		return db.ErrNoDB
	}
	ids, err := catalogIDs(items)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM catalog_items`); err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
		for pos, it := range items {
			id := ids[pos]
			var image *string
			if it.Image != "" {
				image = &it.Image
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO catalog_items (id, position, name, price, image)
				VALUES ($1, $2, $3, $4, $5)`,
				id, pos, it.Name, it.Price, image,
			); err != nil {
				return fmt.Errorf("insert item %s: %w", id, err)
			}
			for spos, s := range it.Sizes {
				if _, err := tx.Exec(ctx, `
					INSERT INTO catalog_item_sizes (item_id, position, name, price)
					VALUES ($1, $2, $3, $4)`,
					id, spos, s.Name, s.Price,
				); err != nil {
					return fmt.Errorf("insert size %s/%s: %w", id, s.Name, err)
				}
			}
		}
		return nil
	})
}
