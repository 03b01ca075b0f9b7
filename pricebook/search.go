package pricebook

import (
	"sort"
	"strings"

	"slabquote/models"
)

// Field weights for fuzzy ranking.
const (
	weightName      = 0.4
	weightMaterial  = 0.3
	weightVendor    = 0.2
	weightThickness = 0.1

	// similarityThreshold drops matches whose weighted score is noise.
	similarityThreshold = 0.25
)

// Filter narrows the book. Non-empty fields are case-insensitive substring
// matches, AND-combined; Query additionally fuzzy-ranks the survivors.
type Filter struct {
	Vendor    string
	Material  string
	Color     string
	Thickness string
	Query     string
}

// Match pairs an entry with its ranking score. Score is 1 for filter-only
// searches and the weighted similarity when a query is present.
type Match struct {
	Entry models.PriceEntry
	Score float64
}

// Search applies the filter to the book. Results are ordered by descending
// score, ties by code.
func (b *Book) Search(f Filter) []Match {
	matches := make([]Match, 0)
	query := strings.ToLower(strings.TrimSpace(f.Query))

	for _, e := range b.entries {
		if !containsFold(e.Vendor, f.Vendor) ||
			!containsFold(e.Material, f.Material) ||
			!containsFold(e.Color, f.Color) ||
			!containsFold(e.Thickness, f.Thickness) {
			continue
		}

		score := 1.0
		if query != "" {
			score = weightName*similarity(query, e.Name) +
				weightMaterial*similarity(query, e.Material) +
				weightVendor*similarity(query, e.Vendor) +
				weightThickness*similarity(query, e.Thickness)
			if score < similarityThreshold {
				continue
			}
		}
		matches = append(matches, Match{Entry: e, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Entry.Code < matches[j].Entry.Code
	})
	return matches
}

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// similarity scores two strings in [0,1] with a Sørensen–Dice coefficient
// over character bigrams. An exact substring hit short-circuits to 1.
func similarity(query, field string) float64 {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return 0
	}
	if strings.Contains(field, query) {
		return 1
	}

	qb := bigrams(query)
	fb := bigrams(field)
	if len(qb) == 0 || len(fb) == 0 {
		return 0
	}

	overlap := 0
	for bg, n := range qb {
		if m, ok := fb[bg]; ok {
			if m < n {
				overlap += m
			} else {
				overlap += n
			}
		}
	}
	total := 0
	for _, n := range qb {
		total += n
	}
	for _, n := range fb {
		total += n
	}
	return float64(2*overlap) / float64(total)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	out := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])]++
	}
	return out
}
