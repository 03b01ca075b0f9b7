package pricebook

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"slabquote/models"
)

//go:embed snapshot.csv
var snapshotFS embed.FS

// Loader fetches the price sheet from the configured URL and falls back to
// the bundled snapshot when the remote is unreachable.
type Loader struct {
	SheetURL string
	Client   *http.Client
	// MaxRetries caps the backoff attempts against the remote sheet.
	MaxRetries uint64
}

// NewLoader builds a loader with sane HTTP defaults.
func NewLoader(sheetURL string, timeout time.Duration, maxRetries uint64) *Loader {
	return &Loader{
		SheetURL:   sheetURL,
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
	}
}

// Load returns the freshest book it can get: the remote sheet when the fetch
// succeeds, otherwise the bundled snapshot flagged FromFallback. The error is
// non-nil only when even the snapshot cannot be parsed.
func (l *Loader) Load(ctx context.Context) (*Book, error) {
	if l.SheetURL != "" {
		entries, rowErrs, err := l.fetchRemote(ctx)
		if err == nil {
			for _, re := range rowErrs {
				slog.Warn("price sheet row skipped", slog.Int("row", re.Row), slog.String("reason", re.Message))
			}
			return NewBook(entries, false), nil
		}
		slog.Warn("price sheet fetch failed, using bundled snapshot", slog.String("url", l.SheetURL), slog.Any("err", err))
	}
	return LoadSnapshot()
}

// LoadSnapshot parses the bundled price list.
func LoadSnapshot() (*Book, error) {
	raw, err := snapshotFS.ReadFile("snapshot.csv")
	if err != nil {
		return nil, fmt.Errorf("read bundled snapshot: %w", err)
	}
	entries, _, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse bundled snapshot: %w", err)
	}
	return NewBook(entries, true), nil
}

func (l *Loader) fetchRemote(ctx context.Context) ([]models.PriceEntry, []RowError, error) {
	var (
		entries []models.PriceEntry
		rowErrs []RowError
	)

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.SheetURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := l.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			err := fmt.Errorf("price sheet fetch: unexpected status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		entries, rowErrs, err = ParseCSV(resp.Body)
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), l.MaxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, nil, err
	}
	return entries, rowErrs, nil
}
