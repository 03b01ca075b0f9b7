package adminquotes

import (
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"slabquote/infrastructure/sqlite"
)

func openQuotesTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "quotes-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO quotes (id, token, reference, status, pro_mode, name, email, subtotal, profit, total, submitted_at, created_at, updated_at)
VALUES (1, 't1', 'EST-AAAA1111', 'submitted', 1, 'Dana Reyes', 'dana@example.com', 350, 149.14, 499.14, '2026-08-29 10:00:00', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO quotes (id, token, reference, status, created_at, updated_at)
VALUES (2, 't2', 'EST-BBBB2222', 'draft', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO quote_items (quote_id, code, category, quantity, cost, created_at)
VALUES (1, 'SV-DEMO', 'service', 1, 350, CURRENT_TIMESTAMP)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed quotes: %v", err)
	}
	return db
}

func TestListSubmittedQuotes_ExcludesDrafts(t *testing.T) {
	db := openQuotesTestDB(t)

	rows, err := listSubmittedQuotes(context.Background(), db)
	if err != nil {
		t.Fatalf("list submitted quotes: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one submitted quote, got %d", len(rows))
	}
	row := rows[0]
	if row.Reference != "EST-AAAA1111" {
		t.Fatalf("unexpected reference %q", row.Reference)
	}
	if row.ItemCount != 1 {
		t.Fatalf("expected one item, got %d", row.ItemCount)
	}
	if !row.ProMode {
		t.Fatalf("expected pro mode flag")
	}
}

func TestWriteQuotesCSV(t *testing.T) {
	db := openQuotesTestDB(t)

	var buf strings.Builder
	if err := writeQuotesCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	if records[0][0] != "reference" {
		t.Fatalf("unexpected header %v", records[0])
	}
	row := records[1]
	if row[0] != "EST-AAAA1111" || row[2] != "Dana Reyes" || row[11] != "499.14" {
		t.Fatalf("unexpected row %v", row)
	}
}
