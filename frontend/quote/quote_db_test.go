package quote

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"slabquote/infrastructure/sqlite"
	"slabquote/models"
	"slabquote/pricebook"
	"slabquote/pricing"
)

func openQuoteTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "quote-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func testBook(t *testing.T) *pricebook.Book {
	t.Helper()
	return pricebook.NewBook([]models.PriceEntry{
		{Code: "CT-QZ-CALA", Name: "Calacatta Quartz", Unit: pricing.UnitSquareFoot, Price: 60, Vendor: "StoneCo", Material: "Quartz"},
		{Code: "BS-STD", Name: "Standard Backsplash", Unit: pricing.UnitLinearFoot, Price: 18},
		{Code: "SV-DEMO", Name: "Demolition", Unit: pricing.UnitEach, Price: 350},
	}, false)
}

func testPricingConfig() pricing.Config {
	return pricing.Config{ProfitPercent: 42.61}
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestEnsureDraft_CreatesOnceAndReuses(t *testing.T) {
	db := openQuoteTestDB(t)
	ctx := context.Background()

	first, err := EnsureDraft(ctx, db, "tok-1")
	if err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if first.Reference == "" {
		t.Fatalf("expected a reference on the new draft")
	}
	if first.Status != models.QuoteStatusDraft {
		t.Fatalf("expected draft status, got %q", first.Status)
	}

	second, err := EnsureDraft(ctx, db, "tok-1")
	if err != nil {
		t.Fatalf("ensure draft again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same draft, got ids %d and %d", first.ID, second.ID)
	}

	other, err := EnsureDraft(ctx, db, "tok-2")
	if err != nil {
		t.Fatalf("ensure draft for second token: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("expected separate drafts per token")
	}
}

func TestAddItem_PricesMaterialWithWaste(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	// 10 sqft of quartz at $60 carries the 1.30 small-job waste factor.
	if err := AddItem(ctx, db, book, testPricingConfig(), "tok", "CT-QZ-CALA", 10); err != nil {
		t.Fatalf("add item: %v", err)
	}

	quote, items, err := LoadDraftWithItems(ctx, db, "tok")
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if !nearlyEqual(items[0].Cost, 780) {
		t.Fatalf("expected line cost 780, got %v", items[0].Cost)
	}
	if !nearlyEqual(quote.Subtotal, 780) || !nearlyEqual(quote.Total, 780) {
		t.Fatalf("expected totals 780/780, got %v/%v", quote.Subtotal, quote.Total)
	}
}

func TestAddItem_DuplicateCodeIsRejected(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if err := AddItem(ctx, db, book, testPricingConfig(), "tok", "SV-DEMO", 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	err := AddItem(ctx, db, book, testPricingConfig(), "tok", "SV-DEMO", 2)
	if !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}

	quote, items, err := LoadDraftWithItems(ctx, db, "tok")
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected duplicate add to be a no-op, got %d items", len(items))
	}
	if !nearlyEqual(quote.Total, 350) {
		t.Fatalf("expected total unchanged at 350, got %v", quote.Total)
	}
}

func TestAddItem_UnknownCode(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	err := AddItem(ctx, db, book, testPricingConfig(), "tok", "CT-NOPE", 5)
	if !errors.Is(err, pricebook.ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
}

func TestUpdateItemQuantity_CrossesWasteBoundary(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if err := AddItem(ctx, db, book, testPricingConfig(), "tok", "CT-QZ-CALA", 10); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// 30 sqft drops the factor to 1.20: 30 * 60 * 1.20 = 2160.
	if err := UpdateItemQuantity(ctx, db, book, testPricingConfig(), "tok", "CT-QZ-CALA", 30); err != nil {
		t.Fatalf("update quantity: %v", err)
	}

	quote, items, err := LoadDraftWithItems(ctx, db, "tok")
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if !nearlyEqual(items[0].Cost, 2160) {
		t.Fatalf("expected line cost 2160, got %v", items[0].Cost)
	}
	if !nearlyEqual(quote.Total, 2160) {
		t.Fatalf("expected total 2160, got %v", quote.Total)
	}
}

func TestUpdateItemQuantity_CodeNotOnDraft(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}

	// BS-STD is a valid book code but was never added to this draft.
	err := UpdateItemQuantity(ctx, db, book, testPricingConfig(), "tok", "BS-STD", 8)
	if !errors.Is(err, ErrItemNotOnQuote) {
		t.Fatalf("expected ErrItemNotOnQuote, got %v", err)
	}
	if errors.Is(err, pricebook.ErrUnknownCode) {
		t.Fatalf("a known code must not be reported as unknown: %v", err)
	}
}

func TestRemoveItem_RerollsTotals(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if err := AddItem(ctx, db, book, testPricingConfig(), "tok", "SV-DEMO", 1); err != nil {
		t.Fatalf("add demo: %v", err)
	}
	if err := AddItem(ctx, db, book, testPricingConfig(), "tok", "BS-STD", 8); err != nil {
		t.Fatalf("add backsplash: %v", err)
	}

	if err := RemoveItem(ctx, db, book, testPricingConfig(), "tok", "SV-DEMO"); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	quote, items, err := LoadDraftWithItems(ctx, db, "tok")
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if len(items) != 1 || items[0].Code != "BS-STD" {
		t.Fatalf("expected only the backsplash line, got %+v", items)
	}
	if !nearlyEqual(quote.Total, 144) {
		t.Fatalf("expected total 144, got %v", quote.Total)
	}
}

func TestSetProMode_AddsProfitOnTop(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if err := AddItem(ctx, db, book, testPricingConfig(), "tok", "SV-DEMO", 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if err := SetProMode(ctx, db, book, testPricingConfig(), "tok", true); err != nil {
		t.Fatalf("enable pro mode: %v", err)
	}

	quote, _, err := LoadDraftWithItems(ctx, db, "tok")
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if !quote.ProMode {
		t.Fatalf("expected pro mode on")
	}
	if !nearlyEqual(quote.Subtotal, 350) {
		t.Fatalf("expected subtotal 350, got %v", quote.Subtotal)
	}
	wantProfit := pricing.Round2(350 * 42.61 / 100)
	if !nearlyEqual(quote.Profit, wantProfit) {
		t.Fatalf("expected profit %v, got %v", wantProfit, quote.Profit)
	}
	if !nearlyEqual(quote.Total, 350+wantProfit) {
		t.Fatalf("expected total %v, got %v", 350+wantProfit, quote.Total)
	}

	if err := SetProMode(ctx, db, book, testPricingConfig(), "tok", false); err != nil {
		t.Fatalf("disable pro mode: %v", err)
	}
	quote, _, err = LoadDraftWithItems(ctx, db, "tok")
	if err != nil {
		t.Fatalf("reload draft: %v", err)
	}
	if quote.ProMode || !nearlyEqual(quote.Total, 350) {
		t.Fatalf("expected plain total 350 after disabling, got %v", quote.Total)
	}
}

func TestMarkSubmitted_ClosesDraft(t *testing.T) {
	db := openQuoteTestDB(t)
	book := testBook(t)
	ctx := context.Background()

	if _, err := EnsureDraft(ctx, db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if err := AddItem(ctx, db, book, testPricingConfig(), "tok", "SV-DEMO", 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	form := ContactForm{Name: "Dana Reyes", Email: "dana@example.com", Zip: "94110"}
	submitted, err := MarkSubmitted(ctx, db, "tok", form)
	if err != nil {
		t.Fatalf("mark submitted: %v", err)
	}
	if submitted.Status != models.QuoteStatusSubmitted {
		t.Fatalf("expected submitted status, got %q", submitted.Status)
	}

	// The token no longer resolves to a draft.
	if _, _, err := LoadDraftWithItems(ctx, db, "tok"); err == nil {
		t.Fatalf("expected no draft after submission")
	}

	// A new draft under the same token starts fresh.
	fresh, err := EnsureDraft(ctx, db, "tok")
	if err != nil {
		t.Fatalf("ensure fresh draft: %v", err)
	}
	if fresh.ID == submitted.ID {
		t.Fatalf("expected a new draft row after submission")
	}
}
