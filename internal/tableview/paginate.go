package tableview

import "slices"

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 10

// DefaultPageSizes is the enumerated set of selectable page sizes.
var DefaultPageSizes = []int{5, 10, 25, 50}

// Paginate returns the window rows[pageIndex*pageSize : pageIndex*pageSize+pageSize],
// clipped to the end of rows. A window starting past the end is empty.
// The result is a fresh slice.
func Paginate(rows []Row, pageIndex, pageSize int) []Row {
	if pageSize <= 0 || pageIndex < 0 || pageIndex >= PageCount(len(rows), pageSize) {
		return []Row{}
	}
	start := pageIndex * pageSize
	end := min(start+pageSize, len(rows))
	return slices.Clone(rows[start:end])
}

// PageCount returns the number of non-empty pages for total rows.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// validPageSize reports whether size is one of sizes.
func validPageSize(size int, sizes []int) bool {
	return slices.Contains(sizes, size)
}
