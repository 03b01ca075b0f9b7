package adminquotes

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"slabquote/infrastructure/sqlite"
	"slabquote/models"
)

type submittedQuote struct {
	Reference   string  `bun:"reference"`
	Name        string  `bun:"name"`
	Email       string  `bun:"email"`
	Phone       string  `bun:"phone"`
	Region      string  `bun:"region"`
	Zip         string  `bun:"zip"`
	ProMode     bool    `bun:"pro_mode"`
	ItemCount   int     `bun:"item_count"`
	Subtotal    float64 `bun:"subtotal"`
	Profit      float64 `bun:"profit"`
	Total       float64 `bun:"total"`
	SubmittedAt string  `bun:"submitted_at_text"`
}

func listSubmittedQuotes(ctx context.Context, db *sqlite.DB) ([]submittedQuote, error) {
	rows := make([]submittedQuote, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT q.reference, COALESCE(q.name, '') AS name, COALESCE(q.email, '') AS email,
       COALESCE(q.phone, '') AS phone, COALESCE(q.region, '') AS region,
       COALESCE(q.zip, '') AS zip, q.pro_mode, q.subtotal, q.profit, q.total,
       strftime('%d/%m/%Y %H:%M', q.submitted_at) AS submitted_at_text,
       COUNT(qi.id) AS item_count
FROM quotes q
LEFT JOIN quote_items qi ON qi.quote_id = q.id
WHERE q.status = ?
GROUP BY q.id
ORDER BY q.submitted_at DESC`, models.QuoteStatusSubmitted).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func writeQuotesCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"reference", "submitted_at", "name", "email", "phone", "region", "zip", "pro_mode", "items", "subtotal", "profit", "total"}
	if err := writer.Write(header); err != nil {
		return err
	}

	rows, err := listSubmittedQuotes(ctx, db)
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Reference,
			r.SubmittedAt,
			r.Name,
			r.Email,
			r.Phone,
			r.Region,
			r.Zip,
			strconv.FormatBool(r.ProMode),
			strconv.Itoa(r.ItemCount),
			money(r.Subtotal),
			money(r.Profit),
			money(r.Total),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
