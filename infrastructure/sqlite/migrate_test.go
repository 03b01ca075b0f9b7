package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
)

func openMigratedDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestApplyMigrations_CreatesSchema(t *testing.T) {
	db := openMigratedDB(t)

	for _, table := range []string{"users", "sessions", "price_entries", "quotes", "quote_items", "audit_logs"} {
		var count int
		err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
			return tx.NewRaw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(ctx, &count)
		})
		if err != nil {
			t.Fatalf("check table %s: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestApplyMigrations_IsIdempotent(t *testing.T) {
	db := openMigratedDB(t)
	if err := ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("second apply: %v", err)
	}
}

func TestQuoteItems_CodeUniquePerQuote(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO quotes (token, reference) VALUES ('tok', 'Q-1')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO quote_items (quote_id, code, category, quantity, cost) VALUES (1, 'CT-1', 'countertop', 10, 780)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO quote_items (quote_id, code, category, quantity, cost) VALUES (1, 'CT-1', 'countertop', 5, 300)`)
		return err
	})
	if err == nil {
		t.Fatal("expected unique constraint violation for duplicate code in one quote")
	}
}
