package catalog

import (
	"strings"

	"github.com/agrimart/agrimart-gateway/internal/model"
)

// FilterState is the pair of user-controlled filters over a collection.
// An empty category means "all categories"; a blank search term matches
// everything.
type FilterState struct {
	SearchTerm string
	Category   string
}

// ApplyFilters returns the records matching the filter state. Search is a
// case-insensitive substring match on the display name, category is an exact
// match, and the two compose with AND. The function is pure: the input slice
// is never mutated.
func ApplyFilters[T model.Record](records []model.Enriched[T], f FilterState) []model.Enriched[T] {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))

	out := make([]model.Enriched[T], 0, len(records))
	for _, r := range records {
		if term != "" && !strings.Contains(strings.ToLower(r.Record.DisplayName()), term) {
			continue
		}
		if f.Category != "" && r.Record.CategoryLabel() != f.Category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ExtractCategories returns the distinct non-empty category labels present
// in the full collection, in first-seen order. It is recomputed on refresh,
// not on filter changes, so dropdown options stay stable while filtering.
func ExtractCategories[T model.Record](records []model.Enriched[T]) []string {
	seen := make(map[string]bool, len(records))
	out := make([]string, 0, len(records))
	for _, r := range records {
		label := r.Record.CategoryLabel()
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
