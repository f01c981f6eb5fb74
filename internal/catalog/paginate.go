package catalog

// Page is one fixed-size slice of a filtered view.
type Page[T any] struct {
	Items      []T
	PageNumber int
	TotalPages int
}

// Paginate slices items into fixed-size pages. An empty collection yields
// zero total pages (the caller hides the pagination control); out-of-range
// page numbers clamp into [1, totalPages]. A non-positive pageSize yields an
// empty page.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		return Page[T]{Items: []T{}, PageNumber: 1, TotalPages: 0}
	}
	if len(items) == 0 {
		return Page[T]{Items: []T{}, PageNumber: 1, TotalPages: 0}
	}

	totalPages := (len(items) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		PageNumber: page,
		TotalPages: totalPages,
	}
}
