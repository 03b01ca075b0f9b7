package quote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"slabquote/infrastructure/sqlite"
	"slabquote/models"
	"slabquote/pricebook"
	"slabquote/pricing"
)

// ErrDuplicateItem is returned when a code is already on the quote. The
// caller surfaces it as a notice instead of a second line.
var ErrDuplicateItem = errors.New("item is already on the quote")

// ErrItemNotOnQuote is returned when a valid book code has no line on the
// visitor's draft.
var ErrItemNotOnQuote = errors.New("item is not on the quote")

// EnsureDraft loads the draft quote for a visitor token, creating it on
// first use.
func EnsureDraft(ctx context.Context, db *sqlite.DB, token string) (models.Quote, error) {
	var quote models.Quote
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&quote).
			Where("token = ?", token).
			Where("status = ?", models.QuoteStatusDraft).
			Limit(1).
			Scan(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		quote = models.Quote{
			Token:     token,
			Reference: newQuoteReference(),
			Status:    models.QuoteStatusDraft,
		}
		_, err = tx.NewInsert().Model(&quote).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Quote{}, err
	}
	return quote, nil
}

// LoadDraftWithItems returns the visitor's draft and its lines. A missing
// draft comes back as sql.ErrNoRows.
func LoadDraftWithItems(ctx context.Context, db *sqlite.DB, token string) (models.Quote, []models.QuoteItem, error) {
	var quote models.Quote
	var items []models.QuoteItem
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().
			Model(&quote).
			Where("token = ?", token).
			Where("status = ?", models.QuoteStatusDraft).
			Limit(1).
			Scan(ctx); err != nil {
			return err
		}
		return tx.NewSelect().
			Model(&items).
			Where("quote_id = ?", quote.ID).
			Order("id ASC").
			Scan(ctx)
	})
	if err != nil {
		return models.Quote{}, nil, err
	}
	return quote, items, nil
}

// AddItem prices a book entry and appends it to the visitor's draft.
func AddItem(ctx context.Context, db *sqlite.DB, book *pricebook.Book, cfg pricing.Config, token, code string, quantity float64) error {
	entry, err := book.Lookup(code)
	if err != nil {
		return err
	}
	cost, err := pricing.LineCost(lineForEntry(entry, quantity))
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		quote, err := lockDraft(ctx, tx, token)
		if err != nil {
			return err
		}

		exists, err := tx.NewSelect().
			Model((*models.QuoteItem)(nil)).
			Where("quote_id = ?", quote.ID).
			Where("code = ?", entry.Code).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateItem
		}

		item := models.QuoteItem{
			QuoteID:  quote.ID,
			Code:     entry.Code,
			Category: categoryFor(entry),
			Quantity: quantity,
			Cost:     pricing.Round2(cost),
		}
		if _, err := tx.NewInsert().Model(&item).Exec(ctx); err != nil {
			return err
		}
		return recomputeTotals(ctx, tx, book, cfg, quote.ID)
	})
}

// UpdateItemQuantity reprices one line at a new quantity.
func UpdateItemQuantity(ctx context.Context, db *sqlite.DB, book *pricebook.Book, cfg pricing.Config, token, code string, quantity float64) error {
	entry, err := book.Lookup(code)
	if err != nil {
		return err
	}
	cost, err := pricing.LineCost(lineForEntry(entry, quantity))
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		quote, err := lockDraft(ctx, tx, token)
		if err != nil {
			return err
		}
		res, err := tx.NewUpdate().
			Model((*models.QuoteItem)(nil)).
			Set("quantity = ?", quantity).
			Set("cost = ?", pricing.Round2(cost)).
			Where("quote_id = ?", quote.ID).
			Where("code = ?", entry.Code).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %q", ErrItemNotOnQuote, code)
		}
		return recomputeTotals(ctx, tx, book, cfg, quote.ID)
	})
}

// RemoveItem drops one line from the draft.
func RemoveItem(ctx context.Context, db *sqlite.DB, book *pricebook.Book, cfg pricing.Config, token, code string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		quote, err := lockDraft(ctx, tx, token)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.QuoteItem)(nil)).
			Where("quote_id = ?", quote.ID).
			Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
			Exec(ctx); err != nil {
			return err
		}
		return recomputeTotals(ctx, tx, book, cfg, quote.ID)
	})
}

// SetProMode toggles contractor pricing and re-rolls the totals.
func SetProMode(ctx context.Context, db *sqlite.DB, book *pricebook.Book, cfg pricing.Config, token string, proMode bool) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		quote, err := lockDraft(ctx, tx, token)
		if err != nil {
			return err
		}
		if _, err := tx.NewUpdate().
			Model((*models.Quote)(nil)).
			Set("pro_mode = ?", proMode).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", quote.ID).
			Exec(ctx); err != nil {
			return err
		}
		return recomputeTotals(ctx, tx, book, cfg, quote.ID)
	})
}

// MarkSubmitted stores the contact details and flips the draft to
// submitted. The caller only invokes this after the intake endpoint
// confirmed receipt.
func MarkSubmitted(ctx context.Context, db *sqlite.DB, token string, form ContactForm) (models.Quote, error) {
	var quote models.Quote
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		quote, err = lockDraft(ctx, tx, token)
		if err != nil {
			return err
		}
		now := time.Now()
		// Rotate the token so the visitor's cookie can start a fresh draft
		// without tripping the unique token constraint.
		_, err = tx.NewUpdate().
			Model((*models.Quote)(nil)).
			Set("token = ?", uuid.NewString()).
			Set("status = ?", models.QuoteStatusSubmitted).
			Set("name = ?", form.Name).
			Set("email = ?", form.Email).
			Set("phone = ?", form.Phone).
			Set("notes = ?", form.Notes).
			Set("region = ?", form.Region).
			Set("zip = ?", form.Zip).
			Set("submitted_at = ?", now).
			Set("updated_at = ?", now).
			Where("id = ?", quote.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return models.Quote{}, err
	}
	quote.Status = models.QuoteStatusSubmitted
	return quote, nil
}

func lockDraft(ctx context.Context, tx bun.Tx, token string) (models.Quote, error) {
	var quote models.Quote
	err := tx.NewSelect().
		Model(&quote).
		Where("token = ?", token).
		Where("status = ?", models.QuoteStatusDraft).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.Quote{}, err
	}
	return quote, nil
}

// recomputeTotals re-prices every line against the current book and rolls
// the quote totals up. Lines whose code left the book keep their stored
// cost.
func recomputeTotals(ctx context.Context, tx bun.Tx, book *pricebook.Book, cfg pricing.Config, quoteID int64) error {
	var quote models.Quote
	if err := tx.NewSelect().Model(&quote).Where("id = ?", quoteID).Limit(1).Scan(ctx); err != nil {
		return err
	}

	var items []models.QuoteItem
	if err := tx.NewSelect().Model(&items).Where("quote_id = ?", quoteID).Order("id ASC").Scan(ctx); err != nil {
		return err
	}

	lineCosts := make([]float64, 0, len(items))
	for _, item := range items {
		cost := item.Cost
		if entry, err := book.Lookup(item.Code); err == nil {
			if c, err := pricing.LineCost(lineForEntry(entry, item.Quantity)); err == nil {
				cost = pricing.Round2(c)
			}
		}
		if cost != item.Cost {
			if _, err := tx.NewUpdate().
				Model((*models.QuoteItem)(nil)).
				Set("cost = ?", cost).
				Where("id = ?", item.ID).
				Exec(ctx); err != nil {
				return err
			}
		}
		lineCosts = append(lineCosts, cost)
	}

	totals := pricing.Aggregate(lineCosts, quote.ProMode, cfg)
	_, err := tx.NewUpdate().
		Model((*models.Quote)(nil)).
		Set("subtotal = ?", pricing.Round2(totals.Subtotal)).
		Set("profit = ?", pricing.Round2(totals.Profit)).
		Set("total = ?", pricing.Round2(totals.Total)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", quoteID).
		Exec(ctx)
	return err
}

// lineForEntry maps a book entry to a pricing input. Waste applies to
// area-measured material, never to services, edges or flat fees.
func lineForEntry(entry models.PriceEntry, quantity float64) pricing.LineInput {
	return pricing.LineInput{
		Unit:       entry.Unit,
		UnitPrice:  entry.Price,
		Quantity:   quantity,
		ApplyWaste: entry.Unit == pricing.UnitSquareFoot && entry.Material != "",
	}
}

func categoryFor(entry models.PriceEntry) string {
	if entry.Material != "" {
		return "material"
	}
	if entry.Unit == pricing.UnitLinearFoot {
		return "trim"
	}
	return "service"
}

func newQuoteReference() string {
	id := uuid.NewString()
	return "EST-" + strings.ToUpper(id[:8])
}
