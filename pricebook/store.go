package pricebook

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"slabquote/infrastructure/sqlite"
	"slabquote/models"
)

// Bootstrap returns the book the server serves at startup. Persisted
// entries win so admin price edits survive restarts; the loader only
// seeds an empty table.
func Bootstrap(ctx context.Context, db *sqlite.DB, loader *Loader) (*Book, error) {
	entries, err := LoadEntries(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return NewBook(entries, false), nil
	}

	book, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := SaveEntries(ctx, db, book.Entries()); err != nil {
		return nil, err
	}
	return book, nil
}

// SaveEntries upserts book entries by code so admin edits and sheet
// refreshes survive restarts.
func SaveEntries(ctx context.Context, db *sqlite.DB, entries []models.PriceEntry) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO price_entries (code, name, description, unit, price, vendor, material, color, thickness, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(code) DO UPDATE SET
  name = excluded.name,
  description = excluded.description,
  unit = excluded.unit,
  price = excluded.price,
  vendor = excluded.vendor,
  material = excluded.material,
  color = excluded.color,
  thickness = excluded.thickness,
  updated_at = CURRENT_TIMESTAMP`,
				e.Code, e.Name, e.Description, e.Unit, e.Price, e.Vendor, e.Material, e.Color, e.Thickness); err != nil {
				return fmt.Errorf("upsert price entry %s: %w", e.Code, err)
			}
		}
		return nil
	})
}

// LoadEntries reads the persisted book.
func LoadEntries(ctx context.Context, db *sqlite.DB) ([]models.PriceEntry, error) {
	entries := make([]models.PriceEntry, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&entries).
			Order("code ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load price entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry applies an admin edit to one entry.
func UpdateEntry(ctx context.Context, db *sqlite.DB, code string, price float64, description string) error {
	if price < 0 {
		return fmt.Errorf("price must be non-negative")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE price_entries
SET price = ?, description = ?, updated_at = CURRENT_TIMESTAMP
WHERE code = ?`, price, description, normalizeCode(code))
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %q", ErrUnknownCode, code)
		}
		return nil
	})
}
