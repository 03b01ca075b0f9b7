package catalog

import (
	"net/http"
	"sort"
	"strings"

	"slabquote/infrastructure/cache"
	"slabquote/models"
	"slabquote/pricebook"
)

// MaterialsPageQueryHandler renders the material search screen over the
// in-memory price book snapshot.
func MaterialsPageQueryHandler(books *cache.PriceBookCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		filter := pricebook.Filter{
			Query:     strings.TrimSpace(r.URL.Query().Get("q")),
			Vendor:    strings.TrimSpace(r.URL.Query().Get("vendor")),
			Material:  strings.TrimSpace(r.URL.Query().Get("material")),
			Color:     strings.TrimSpace(r.URL.Query().Get("color")),
			Thickness: strings.TrimSpace(r.URL.Query().Get("thickness")),
		}

		matches := book.Search(filter)
		rows := make([]MaterialRow, 0, len(matches))
		for _, m := range matches {
			rows = append(rows, MaterialRow{
				Code:        m.Entry.Code,
				Name:        m.Entry.Name,
				Description: m.Entry.Description,
				Unit:        m.Entry.Unit,
				Price:       m.Entry.Price,
				Vendor:      m.Entry.Vendor,
				Material:    m.Entry.Material,
				Color:       m.Entry.Color,
				Thickness:   m.Entry.Thickness,
				Score:       m.Score,
			})
		}

		data := PageData{
			Query:        filter.Query,
			Vendor:       filter.Vendor,
			Material:     filter.Material,
			Color:        filter.Color,
			Thickness:    filter.Thickness,
			Vendors:      distinctValues(book, func(e models.PriceEntry) string { return e.Vendor }),
			Materials:    distinctValues(book, func(e models.PriceEntry) string { return e.Material }),
			Thicknesses:  distinctValues(book, func(e models.PriceEntry) string { return e.Thickness }),
			Rows:         rows,
			FromFallback: book.FromFallback,
			Notice:       strings.TrimSpace(r.URL.Query().Get("status")),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := MaterialsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render materials page", http.StatusInternalServerError)
			return
		}
	}
}

func distinctValues(book *pricebook.Book, pick func(models.PriceEntry) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range book.Entries() {
		v := strings.TrimSpace(pick(e))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
