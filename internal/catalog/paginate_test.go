package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrimart/agrimart-gateway/internal/model"
)

func TestPaginate_EmptyCollectionHasZeroPages(t *testing.T) {
	got := Paginate([]int{}, 1, 5)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.TotalPages)
	assert.Equal(t, 1, got.PageNumber)
}

func TestPaginate_Completeness(t *testing.T) {
	items := []int{10, 20, 30, 40, 50, 60, 70}

	first := Paginate(items, 1, 3)
	assert.Equal(t, 3, first.TotalPages)

	var seen []int
	for page := 1; page <= first.TotalPages; page++ {
		seen = append(seen, Paginate(items, page, 3).Items...)
	}
	assert.Equal(t, items, seen, "pages must cover the collection exactly once")
}

func TestPaginate_FilteredFruitsScenario(t *testing.T) {
	// 7 records, category filter matching 4, pageSize 3
	records := enrichedProducts(
		model.Product{ID: 1, Name: "Apple", Category: "Fruits"},
		model.Product{ID: 2, Name: "Carrot", Category: "Vegetables"},
		model.Product{ID: 3, Name: "Banana", Category: "Fruits"},
		model.Product{ID: 4, Name: "Potato", Category: "Vegetables"},
		model.Product{ID: 5, Name: "Mango", Category: "Fruits"},
		model.Product{ID: 6, Name: "Onion", Category: "Vegetables"},
		model.Product{ID: 7, Name: "Papaya", Category: "Fruits"},
	)

	filtered := ApplyFilters(records, FilterState{Category: "Fruits"})
	assert.Len(t, filtered, 4)

	page1 := Paginate(filtered, 1, 3)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, []string{"Apple", "Banana", "Mango"}, names(page1.Items))

	page2 := Paginate(filtered, 2, 3)
	assert.Equal(t, []string{"Papaya"}, names(page2.Items))
}

func TestPaginate_ClampsOutOfRangePages(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	over := Paginate(items, 99, 2)
	assert.Equal(t, 3, over.PageNumber)
	assert.Equal(t, []int{5}, over.Items)

	under := Paginate(items, 0, 2)
	assert.Equal(t, 1, under.PageNumber)
	assert.Equal(t, []int{1, 2}, under.Items)
}

func TestPaginate_NonPositivePageSize(t *testing.T) {
	got := Paginate([]int{1, 2, 3}, 1, 0)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.TotalPages)
}
