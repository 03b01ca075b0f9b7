package adminprices

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	sessioncontext "slabquote/frontend/shared/context"
	"slabquote/infrastructure/audit"
	"slabquote/infrastructure/cache"
	"slabquote/infrastructure/sqlite"
	"slabquote/pricebook"
)

// PricesPageQueryHandler lists the current price book for editing.
func PricesPageQueryHandler(db *sqlite.DB, books *cache.PriceBookCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		var username string
		if session, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
			username = session.User.Username
		}

		entries := book.Entries()
		rows := make([]PriceRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, PriceRow{
				Code:        e.Code,
				Name:        e.Name,
				Description: e.Description,
				Unit:        e.Unit,
				Price:       e.Price,
				Vendor:      e.Vendor,
				Material:    e.Material,
				Color:       e.Color,
				Thickness:   e.Thickness,
			})
		}

		data := PageData{
			Rows:         rows,
			FromFallback: book.FromFallback,
			Notice:       strings.TrimSpace(r.URL.Query().Get("status")),
			Error:        strings.TrimSpace(r.URL.Query().Get("error")),
			Username:     username,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := PricesPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render prices page", http.StatusInternalServerError)
			return
		}
	}
}

// RefreshPricesCommandHandler pulls the remote price sheet, persists it and
// swaps the in-memory snapshot.
func RefreshPricesCommandHandler(db *sqlite.DB, books *cache.PriceBookCache, loader *pricebook.Loader, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book, err := loader.Load(r.Context())
		if err != nil {
			http.Redirect(w, r, "/admin/prices?error="+url.QueryEscape("failed to load price sheet"), http.StatusSeeOther)
			return
		}

		entries := book.Entries()
		if err := pricebook.SaveEntries(r.Context(), db, entries); err != nil {
			http.Redirect(w, r, "/admin/prices?error="+url.QueryEscape("failed to store refreshed prices"), http.StatusSeeOther)
			return
		}
		books.Swap(book)

		userID := sessionUserID(r)
		_ = db.WithWriteTx(r.Context(), func(ctx context.Context, tx bun.Tx) error {
			return auditSvc.Write(ctx, tx, userID, "prices.refresh", "price_book", "sheet",
				nil, map[string]any{"entries": len(entries), "from_fallback": book.FromFallback})
		})

		message := fmt.Sprintf("loaded %d prices from the sheet", len(entries))
		if book.FromFallback {
			message = fmt.Sprintf("sheet unreachable, loaded %d bundled prices", len(entries))
		}
		http.Redirect(w, r, "/admin/prices?status="+url.QueryEscape(message), http.StatusSeeOther)
	}
}

// UpdatePriceCommandHandler edits one entry and re-snapshots the book.
func UpdatePriceCommandHandler(db *sqlite.DB, books *cache.PriceBookCache, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		code := chi.URLParam(r, "code")
		price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
		if err != nil || price < 0 {
			http.Redirect(w, r, "/admin/prices?error="+url.QueryEscape("price must be a non-negative number"), http.StatusSeeOther)
			return
		}
		description := strings.TrimSpace(r.FormValue("description"))

		before, err := book.Lookup(code)
		if err != nil {
			http.Redirect(w, r, "/admin/prices?error="+url.QueryEscape(fmt.Sprintf("unknown pricing code %q", code)), http.StatusSeeOther)
			return
		}

		if err := pricebook.UpdateEntry(r.Context(), db, code, price, description); err != nil {
			if errors.Is(err, pricebook.ErrUnknownCode) {
				http.Redirect(w, r, "/admin/prices?error="+url.QueryEscape(fmt.Sprintf("unknown pricing code %q", code)), http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, "/admin/prices?error="+url.QueryEscape("failed to update price"), http.StatusSeeOther)
			return
		}

		entries, err := pricebook.LoadEntries(r.Context(), db)
		if err != nil {
			http.Redirect(w, r, "/admin/prices?error="+url.QueryEscape("price saved but snapshot reload failed"), http.StatusSeeOther)
			return
		}
		books.Swap(pricebook.NewBook(entries, false))

		userID := sessionUserID(r)
		_ = db.WithWriteTx(r.Context(), func(ctx context.Context, tx bun.Tx) error {
			return auditSvc.Write(ctx, tx, userID, "prices.update", "price_entry", before.Code,
				map[string]any{"price": before.Price, "description": before.Description},
				map[string]any{"price": price, "description": description})
		})

		http.Redirect(w, r, "/admin/prices?status="+url.QueryEscape(fmt.Sprintf("updated %s", before.Code)), http.StatusSeeOther)
	}
}

func sessionUserID(r *http.Request) int64 {
	if session, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
		return session.UserID
	}
	return 0
}
