package adminquotes

import (
	"net/http"

	sessioncontext "slabquote/frontend/shared/context"
	"slabquote/infrastructure/sqlite"
)

// QuotesPageQueryHandler lists submitted estimates.
func QuotesPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quotes, err := listSubmittedQuotes(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load quotes", http.StatusInternalServerError)
			return
		}

		var username string
		if session, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
			username = session.User.Username
		}

		rows := make([]QuoteRow, 0, len(quotes))
		for _, q := range quotes {
			rows = append(rows, QuoteRow{
				Reference:   q.Reference,
				Name:        q.Name,
				Email:       q.Email,
				Phone:       q.Phone,
				Region:      q.Region,
				Zip:         q.Zip,
				ProMode:     q.ProMode,
				ItemCount:   q.ItemCount,
				Subtotal:    q.Subtotal,
				Profit:      q.Profit,
				Total:       q.Total,
				SubmittedAt: q.SubmittedAt,
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := QuotesPage(PageData{Rows: rows, Username: username}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render quotes page", http.StatusInternalServerError)
			return
		}
	}
}

// QuotesExportCSVHandler streams submitted estimates as CSV.
func QuotesExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=quotes.csv")
		if err := writeQuotesCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}
