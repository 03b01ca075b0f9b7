// Package pricebook owns the price list: loading it from the remote sheet or
// the bundled snapshot, persisting it, and answering lookups and searches.
package pricebook

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"slabquote/models"
)

// ErrUnknownCode is returned when a pricing code is not in the book. Lookups
// never produce a zero-value price for a missing code.
var ErrUnknownCode = errors.New("unknown pricing code")

// Book is an immutable snapshot of the price list.
type Book struct {
	entries []models.PriceEntry
	byCode  map[string]models.PriceEntry

	// FromFallback is set when the book was loaded from the bundled
	// snapshot because the remote sheet could not be fetched.
	FromFallback bool
}

// NewBook builds a snapshot from entries. Later duplicates of a code win,
// matching sheet-edit order.
func NewBook(entries []models.PriceEntry, fromFallback bool) *Book {
	byCode := make(map[string]models.PriceEntry, len(entries))
	deduped := make([]models.PriceEntry, 0, len(entries))
	for _, e := range entries {
		code := normalizeCode(e.Code)
		e.Code = code
		if _, seen := byCode[code]; !seen {
			deduped = append(deduped, e)
		}
		byCode[code] = e
	}
	for i, e := range deduped {
		deduped[i] = byCode[e.Code]
	}
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].Code < deduped[j].Code })
	return &Book{entries: deduped, byCode: byCode, FromFallback: fromFallback}
}

// Lookup resolves a pricing code.
func (b *Book) Lookup(code string) (models.PriceEntry, error) {
	e, ok := b.byCode[normalizeCode(code)]
	if !ok {
		return models.PriceEntry{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	return e, nil
}

// Entries returns the book contents ordered by code.
func (b *Book) Entries() []models.PriceEntry {
	out := make([]models.PriceEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len reports the number of entries.
func (b *Book) Len() int {
	return len(b.entries)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
