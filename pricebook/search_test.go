package pricebook

import (
	"strings"
	"testing"

	"slabquote/models"
)

func testBook(t *testing.T) *Book {
	t.Helper()
	return NewBook([]models.PriceEntry{
		{Code: "CT-QZ-CALA", Name: "Calacatta Laza Quartz", Unit: "SF", Price: 68, Vendor: "MSI Surfaces", Material: "Quartz", Color: "White", Thickness: "3cm"},
		{Code: "CT-QZ-BRIT", Name: "Brittanicca Quartz", Unit: "SF", Price: 74, Vendor: "Cambria", Material: "Quartz", Color: "Grey", Thickness: "3cm"},
		{Code: "CT-GR-STCL", Name: "Steel Grey Granite", Unit: "SF", Price: 48, Vendor: "MSI Surfaces", Material: "Granite", Color: "Grey", Thickness: "3cm"},
		{Code: "SV-DEMO", Name: "Countertop Demo", Unit: "EA", Price: 350},
	}, false)
}

func TestSearch_FiltersAreANDCombined(t *testing.T) {
	book := testBook(t)

	got := book.Search(Filter{Vendor: "msi", Material: "quartz"})
	if len(got) != 1 || got[0].Entry.Code != "CT-QZ-CALA" {
		t.Fatalf("expected only the MSI quartz entry, got %+v", got)
	}

	got = book.Search(Filter{Vendor: "msi", Material: "quartz", Color: "grey"})
	if len(got) != 0 {
		t.Fatalf("expected no matches when one filter fails, got %+v", got)
	}
}

func TestSearch_EmptyFilterReturnsAll(t *testing.T) {
	book := testBook(t)
	got := book.Search(Filter{})
	if len(got) != book.Len() {
		t.Fatalf("expected all %d entries, got %d", book.Len(), len(got))
	}
}

func TestSearch_FuzzyQueryRanksByScore(t *testing.T) {
	book := testBook(t)
	got := book.Search(Filter{Query: "calacata quarts"})
	if len(got) == 0 {
		t.Fatal("expected fuzzy matches for a misspelled query")
	}
	if got[0].Entry.Code != "CT-QZ-CALA" {
		t.Fatalf("expected Calacatta ranked first, got %s", got[0].Entry.Code)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("results not ordered by descending score at %d", i)
		}
	}
}

func TestSearch_ThresholdDropsNoise(t *testing.T) {
	book := testBook(t)
	got := book.Search(Filter{Query: "zzzzqqqq"})
	if len(got) != 0 {
		t.Fatalf("expected gibberish query to match nothing, got %+v", got)
	}
}

func TestSearch_QueryCombinesWithFilters(t *testing.T) {
	book := testBook(t)
	got := book.Search(Filter{Material: "granite", Query: "grey"})
	if len(got) != 1 || got[0].Entry.Code != "CT-GR-STCL" {
		t.Fatalf("expected the granite entry only, got %+v", got)
	}
}

func TestSimilarity_SubstringShortCircuit(t *testing.T) {
	if got := similarity("quartz", strings.ToLower("Brittanicca Quartz")); got != 1 {
		t.Fatalf("substring hit should score 1, got %v", got)
	}
}
