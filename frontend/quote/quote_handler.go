package quote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"slabquote/infrastructure/audit"
	"slabquote/infrastructure/cache"
	"slabquote/infrastructure/intake"
	sessioncookie "slabquote/infrastructure/session"
	"slabquote/infrastructure/sqlite"
	"slabquote/models"
	"slabquote/pricebook"
	"slabquote/pricing"
)

// QuotePageQueryHandler renders the visitor's working estimate.
func QuotePageQueryHandler(db *sqlite.DB, books *cache.PriceBookCache, cfg pricing.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		token := ensureQuoteToken(w, r)
		quote, err := EnsureDraft(r.Context(), db, token)
		if err != nil {
			http.Error(w, "failed to load quote", http.StatusInternalServerError)
			return
		}

		_, items, err := LoadDraftWithItems(r.Context(), db, token)
		if err != nil {
			http.Error(w, "failed to load quote items", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Reference: quote.Reference,
			ProMode:   quote.ProMode,
			Rows:      buildItemRows(book, items),
			Subtotal:  quote.Subtotal,
			Profit:    quote.Profit,
			Total:     quote.Total,
			Notice:    strings.TrimSpace(r.URL.Query().Get("status")),
			Error:     strings.TrimSpace(r.URL.Query().Get("error")),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := QuotePage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render quote page", http.StatusInternalServerError)
			return
		}
	}
}

// AddItemCommandHandler appends a priced line to the draft.
func AddItemCommandHandler(db *sqlite.DB, books *cache.PriceBookCache, cfg pricing.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		token := ensureQuoteToken(w, r)
		if _, err := EnsureDraft(r.Context(), db, token); err != nil {
			redirectQuoteError(w, r, "failed to open quote")
			return
		}

		code := strings.TrimSpace(r.FormValue("code"))
		quantity, err := parseQuantity(r.FormValue("quantity"))
		if err != nil {
			redirectQuoteError(w, r, err.Error())
			return
		}
		// Backsplash runs are measured in inches on site; the book bills
		// linear feet.
		if r.FormValue("measure") == "in" {
			quantity = pricing.BacksplashFeet(quantity)
		}

		switch err := AddItem(r.Context(), db, book, cfg, token, code, quantity); {
		case err == nil:
			redirectQuoteStatus(w, r, fmt.Sprintf("added %s to the quote", code))
		case errors.Is(err, ErrDuplicateItem):
			redirectQuoteStatus(w, r, fmt.Sprintf("%s is already on the quote; adjust its quantity instead", code))
		case errors.Is(err, pricebook.ErrUnknownCode):
			redirectQuoteError(w, r, fmt.Sprintf("unknown pricing code %q", code))
		case errors.Is(err, pricing.ErrInvalidArea):
			redirectQuoteError(w, r, "quantity must be a non-negative number")
		default:
			redirectQuoteError(w, r, "failed to add item")
		}
	}
}

// UpdateItemCommandHandler reprices one line at a new quantity.
func UpdateItemCommandHandler(db *sqlite.DB, books *cache.PriceBookCache, cfg pricing.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		token := ensureQuoteToken(w, r)
		code := chi.URLParam(r, "code")
		quantity, err := parseQuantity(r.FormValue("quantity"))
		if err != nil {
			redirectQuoteError(w, r, err.Error())
			return
		}

		switch err := UpdateItemQuantity(r.Context(), db, book, cfg, token, code, quantity); {
		case err == nil:
			redirectQuoteStatus(w, r, fmt.Sprintf("updated %s", code))
		case errors.Is(err, ErrItemNotOnQuote):
			redirectQuoteError(w, r, fmt.Sprintf("%s is not on the quote", code))
		case errors.Is(err, pricebook.ErrUnknownCode):
			redirectQuoteError(w, r, fmt.Sprintf("unknown pricing code %q", code))
		case errors.Is(err, pricing.ErrInvalidArea):
			redirectQuoteError(w, r, "quantity must be a non-negative number")
		default:
			redirectQuoteError(w, r, "failed to update item")
		}
	}
}

// RemoveItemCommandHandler drops one line from the draft.
func RemoveItemCommandHandler(db *sqlite.DB, books *cache.PriceBookCache, cfg pricing.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		token := ensureQuoteToken(w, r)
		code := chi.URLParam(r, "code")
		if err := RemoveItem(r.Context(), db, book, cfg, token, code); err != nil {
			redirectQuoteError(w, r, "failed to remove item")
			return
		}
		redirectQuoteStatus(w, r, fmt.Sprintf("removed %s", code))
	}
}

// ProModeCommandHandler toggles contractor pricing on the draft.
func ProModeCommandHandler(db *sqlite.DB, books *cache.PriceBookCache, cfg pricing.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		token := ensureQuoteToken(w, r)
		if _, err := EnsureDraft(r.Context(), db, token); err != nil {
			redirectQuoteError(w, r, "failed to open quote")
			return
		}

		enabled := r.FormValue("enabled") == "on" || r.FormValue("enabled") == "true"
		if err := SetProMode(r.Context(), db, book, cfg, token, enabled); err != nil {
			redirectQuoteError(w, r, "failed to update pricing mode")
			return
		}
		if enabled {
			redirectQuoteStatus(w, r, "contractor pricing enabled")
			return
		}
		redirectQuoteStatus(w, r, "contractor pricing disabled")
	}
}

// SubmitQuoteCommandHandler validates the contact form and forwards the
// estimate to the intake endpoint. The draft only flips to submitted after
// intake confirms receipt; a failed handoff keeps the draft intact.
func SubmitQuoteCommandHandler(db *sqlite.DB, books *cache.PriceBookCache, cfg pricing.Config, intakeClient *intake.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		token := ensureQuoteToken(w, r)
		form := ContactForm{
			Name:   strings.TrimSpace(r.FormValue("name")),
			Email:  strings.TrimSpace(r.FormValue("email")),
			Phone:  strings.TrimSpace(r.FormValue("phone")),
			Notes:  strings.TrimSpace(r.FormValue("notes")),
			Region: strings.TrimSpace(r.FormValue("region")),
			Zip:    strings.TrimSpace(r.FormValue("zip")),
		}
		if err := validateContactForm(form); err != nil {
			redirectQuoteError(w, r, err.Error())
			return
		}

		quote, items, err := LoadDraftWithItems(r.Context(), db, token)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				redirectQuoteError(w, r, "nothing to submit yet")
				return
			}
			redirectQuoteError(w, r, "failed to load quote")
			return
		}
		if len(items) == 0 {
			redirectQuoteError(w, r, "add at least one item before submitting")
			return
		}

		sub := intake.Submission{
			Reference: quote.Reference,
			Name:      form.Name,
			Email:     form.Email,
			Phone:     form.Phone,
			Notes:     form.Notes,
			Region:    form.Region,
			Zip:       form.Zip,
			Summary:   buildSummary(book, quote, items),
		}
		if err := intakeClient.Submit(r.Context(), sub); err != nil {
			redirectQuoteError(w, r, "we could not send your estimate; your quote has been kept")
			return
		}

		submitted, err := MarkSubmitted(r.Context(), db, token, form)
		if err != nil {
			redirectQuoteError(w, r, "estimate was sent but could not be finalised")
			return
		}
		_ = db.WithWriteTx(r.Context(), func(ctx context.Context, tx bun.Tx) error {
			return auditSvc.Write(ctx, tx, 0, "quote.submit", "quote", submitted.Reference,
				nil, map[string]any{"total": quote.Total, "items": len(items), "pro_mode": quote.ProMode})
		})

		// Fresh token so the next visit starts a clean quote.
		http.SetCookie(w, sessioncookie.QuoteCookie("", -1))
		http.Redirect(w, r, "/shop/quote?status="+url.QueryEscape("estimate "+quote.Reference+" submitted, we will be in touch"), http.StatusSeeOther)
	}
}

func ensureQuoteToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessioncookie.QuoteCookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return c.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, sessioncookie.QuoteCookie(token, sessioncookie.QuoteCookieMaxAge))
	return token
}

func parseQuantity(raw string) (float64, error) {
	quantity, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.New("quantity must be a number")
	}
	if quantity <= 0 {
		return 0, errors.New("quantity must be greater than zero")
	}
	return quantity, nil
}

func validateContactForm(form ContactForm) error {
	if form.Name == "" {
		return errors.New("name is required")
	}
	if form.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(form.Email); err != nil {
		return errors.New("email address is not valid")
	}
	return nil
}

func buildItemRows(book *pricebook.Book, items []models.QuoteItem) []ItemRow {
	rows := make([]ItemRow, 0, len(items))
	for _, item := range items {
		row := ItemRow{
			Code:     item.Code,
			Category: item.Category,
			Quantity: item.Quantity,
			Cost:     item.Cost,
		}
		entry, err := book.Lookup(item.Code)
		if err != nil {
			row.Missing = true
			rows = append(rows, row)
			continue
		}
		row.Name = entry.Name
		row.Unit = entry.Unit
		row.UnitPrice = entry.Price
		if entry.Unit == pricing.UnitSquareFoot && entry.Material != "" {
			if factor, err := pricing.WasteFactor(item.Quantity); err == nil {
				row.WasteFactor = factor
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func buildSummary(book *pricebook.Book, quote models.Quote, items []models.QuoteItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estimate %s\n", quote.Reference)
	for _, item := range items {
		name := item.Code
		unit := ""
		if entry, err := book.Lookup(item.Code); err == nil {
			name = entry.Name
			unit = entry.Unit
		}
		fmt.Fprintf(&b, "- %s (%s): %.2f %s = $%.2f\n", name, item.Code, item.Quantity, unit, item.Cost)
	}
	fmt.Fprintf(&b, "Subtotal: $%.2f\n", quote.Subtotal)
	if quote.ProMode {
		fmt.Fprintf(&b, "Profit: $%.2f\n", quote.Profit)
	}
	fmt.Fprintf(&b, "Total: $%.2f\n", quote.Total)
	return b.String()
}

func redirectQuoteStatus(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/shop/quote?status="+url.QueryEscape(message), http.StatusSeeOther)
}

func redirectQuoteError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/shop/quote?error="+url.QueryEscape(message), http.StatusSeeOther)
}
