package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"slabquote/infrastructure/audit"
	"slabquote/infrastructure/cache"
	"slabquote/infrastructure/intake"
	sessioncookie "slabquote/infrastructure/session"
	"slabquote/infrastructure/sqlite"
	"slabquote/models"
)

func seedDraft(t *testing.T, db *sqlite.DB, token string) {
	t.Helper()
	ctx := context.Background()
	if _, err := EnsureDraft(ctx, db, token); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if err := AddItem(ctx, db, testBook(t), testPricingConfig(), token, "SV-DEMO", 1); err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func submitRequest(token string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/shop/quote/submit", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(sessioncookie.QuoteCookie(token, sessioncookie.QuoteCookieMaxAge))
	return r
}

func TestAddItem_InchesConvertToLinearFeet(t *testing.T) {
	db := openQuoteTestDB(t)
	books := cache.NewPriceBookCache(testBook(t))
	if _, err := EnsureDraft(context.Background(), db, "tok"); err != nil {
		t.Fatalf("ensure draft: %v", err)
	}

	handler := AddItemCommandHandler(db, books, testPricingConfig())

	form := url.Values{"code": {"BS-STD"}, "quantity": {"96"}, "measure": {"in"}}
	r := httptest.NewRequest(http.MethodPost, "/shop/quote/items", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(sessioncookie.QuoteCookie("tok", sessioncookie.QuoteCookieMaxAge))

	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	_, items, err := LoadDraftWithItems(context.Background(), db, "tok")
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	// 96 inches is 8 linear feet at $18: $144.
	if items[0].Quantity != 8 || items[0].Cost != 144 {
		t.Fatalf("expected 8 LF at $144, got %v LF at $%v", items[0].Quantity, items[0].Cost)
	}
}

func TestSubmitQuote_InvalidFormSkipsIntakeCall(t *testing.T) {
	db := openQuoteTestDB(t)
	books := cache.NewPriceBookCache(testBook(t))
	seedDraft(t, db, "tok")

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	handler := SubmitQuoteCommandHandler(db, books, testPricingConfig(), intake.NewClient(srv.URL, time.Second, 0), audit.NewService())

	w := httptest.NewRecorder()
	handler(w, submitRequest("tok", url.Values{"name": {"Dana"}, "email": {"not-an-email"}}))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Location"), "error=") {
		t.Fatalf("expected validation error redirect, got %q", w.Header().Get("Location"))
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no intake call on validation failure, got %d", hits.Load())
	}
	if _, _, err := LoadDraftWithItems(context.Background(), db, "tok"); err != nil {
		t.Fatalf("expected draft to survive: %v", err)
	}
}

func TestSubmitQuote_SuccessFinalisesDraft(t *testing.T) {
	db := openQuoteTestDB(t)
	books := cache.NewPriceBookCache(testBook(t))
	seedDraft(t, db, "tok")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	handler := SubmitQuoteCommandHandler(db, books, testPricingConfig(), intake.NewClient(srv.URL, time.Second, 0), audit.NewService())

	w := httptest.NewRecorder()
	handler(w, submitRequest("tok", url.Values{"name": {"Dana Reyes"}, "email": {"dana@example.com"}}))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Location"), "status=") {
		t.Fatalf("expected success redirect, got %q", w.Header().Get("Location"))
	}
	if _, _, err := LoadDraftWithItems(context.Background(), db, "tok"); err == nil {
		t.Fatalf("expected no draft left after submission")
	}

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == sessioncookie.QuoteCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected the quote cookie to be cleared")
	}
}

func TestSubmitQuote_IntakeFailureKeepsDraft(t *testing.T) {
	db := openQuoteTestDB(t)
	books := cache.NewPriceBookCache(testBook(t))
	seedDraft(t, db, "tok")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	handler := SubmitQuoteCommandHandler(db, books, testPricingConfig(), intake.NewClient(srv.URL, time.Second, 0), audit.NewService())

	w := httptest.NewRecorder()
	handler(w, submitRequest("tok", url.Values{"name": {"Dana Reyes"}, "email": {"dana@example.com"}}))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Location"), "error=") {
		t.Fatalf("expected failure redirect, got %q", w.Header().Get("Location"))
	}

	quote, items, err := LoadDraftWithItems(context.Background(), db, "tok")
	if err != nil {
		t.Fatalf("expected draft to survive intake failure: %v", err)
	}
	if quote.Status != models.QuoteStatusDraft || len(items) != 1 {
		t.Fatalf("expected intact draft, got status %q with %d items", quote.Status, len(items))
	}
}
