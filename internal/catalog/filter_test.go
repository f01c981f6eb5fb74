package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimart/agrimart-gateway/internal/model"
)

func enrichedProducts(ps ...model.Product) []model.Enriched[model.Product] {
	out := make([]model.Enriched[model.Product], 0, len(ps))
	for _, p := range ps {
		out = append(out, model.Enriched[model.Product]{Record: p})
	}
	return out
}

func names(records []model.Enriched[model.Product]) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Record.Name)
	}
	return out
}

func TestApplyFilters_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	records := enrichedProducts(
		model.Product{ID: 1, Name: "Tomato"},
		model.Product{ID: 2, Name: "tomatoes"},
		model.Product{ID: 3, Name: "Potato"},
	)

	got := ApplyFilters(records, FilterState{SearchTerm: "tomato"})
	assert.Equal(t, []string{"Tomato", "tomatoes"}, names(got))
}

func TestApplyFilters_BlankSearchTermPassesThrough(t *testing.T) {
	records := enrichedProducts(
		model.Product{ID: 1, Name: "Tomato"},
		model.Product{ID: 2, Name: "Potato"},
	)

	for _, term := range []string{"", "   ", "\t"} {
		got := ApplyFilters(records, FilterState{SearchTerm: term})
		assert.Len(t, got, 2, "term %q should match everything", term)
	}
}

func TestApplyFilters_CategoryIsExactMatch(t *testing.T) {
	records := enrichedProducts(
		model.Product{ID: 1, Name: "Tomato", Category: "Vegetables"},
		model.Product{ID: 2, Name: "Apple", Category: "Fruits"},
		model.Product{ID: 3, Name: "Banana", Category: "Fruits"},
	)

	got := ApplyFilters(records, FilterState{Category: "Fruits"})
	assert.Equal(t, []string{"Apple", "Banana"}, names(got))

	// empty category means all categories
	got = ApplyFilters(records, FilterState{Category: ""})
	assert.Len(t, got, 3)
}

func TestApplyFilters_SearchAndCategoryCompose(t *testing.T) {
	records := enrichedProducts(
		model.Product{ID: 1, Name: "Green Apple", Category: "Fruits"},
		model.Product{ID: 2, Name: "Green Beans", Category: "Vegetables"},
		model.Product{ID: 3, Name: "Red Apple", Category: "Fruits"},
	)

	got := ApplyFilters(records, FilterState{SearchTerm: "green", Category: "Fruits"})
	require.Len(t, got, 1)
	assert.Equal(t, "Green Apple", got[0].Record.Name)
}

func TestApplyFilters_IsPure(t *testing.T) {
	records := enrichedProducts(
		model.Product{ID: 1, Name: "Tomato", Category: "Vegetables"},
		model.Product{ID: 2, Name: "Apple", Category: "Fruits"},
	)
	f := FilterState{SearchTerm: "apple"}

	first := ApplyFilters(records, f)
	second := ApplyFilters(records, f)

	assert.Equal(t, first, second, "same inputs must yield the same view")
	assert.Equal(t, "Tomato", records[0].Record.Name, "input slice must not be mutated")
	assert.Len(t, records, 2)
}

func TestExtractCategories_DedupesAndSkipsEmpty(t *testing.T) {
	records := enrichedProducts(
		model.Product{ID: 1, Category: "Fruits"},
		model.Product{ID: 2, Category: ""},
		model.Product{ID: 3, Category: "Vegetables"},
		model.Product{ID: 4, Category: "Fruits"},
	)

	got := ExtractCategories(records)
	assert.Equal(t, []string{"Fruits", "Vegetables"}, got)
}
