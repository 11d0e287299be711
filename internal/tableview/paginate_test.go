package tableview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func numberedRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"id": fmt.Sprintf("r%d", i+1), "n": i + 1}
	}
	return rows
}

func TestPaginate_LastPartialPage(t *testing.T) {
	rows := numberedRows(23)

	page := Paginate(rows, 2, 10)
	assert.Equal(t, []string{"r21", "r22", "r23"}, ids(page))
}

func TestPaginate_WindowSizes(t *testing.T) {
	for _, total := range []int{0, 1, 9, 10, 11, 23, 50} {
		rows := numberedRows(total)
		for _, size := range DefaultPageSizes {
			var rebuilt []Row
			for idx := 0; idx < PageCount(total, size)+2; idx++ {
				page := Paginate(rows, idx, size)
				want := min(size, max(0, total-idx*size))
				assert.Len(t, page, want, "total=%d size=%d idx=%d", total, size, idx)
				rebuilt = append(rebuilt, page...)
			}
			assert.Equal(t, ids(rows), ids(rebuilt), "total=%d size=%d", total, size)
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	rows := numberedRows(5)

	assert.Empty(t, Paginate(rows, 1, 5))
	assert.Empty(t, Paginate(rows, -1, 5))
	assert.Empty(t, Paginate(rows, 0, 0))
	assert.NotNil(t, Paginate(nil, 0, 10))
}

func TestPaginate_ReturnsCopy(t *testing.T) {
	rows := numberedRows(3)
	page := Paginate(rows, 0, 10)
	page[0] = Row{"id": "other"}
	assert.Equal(t, "r1", rows[0].ID())
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 3, PageCount(23, 10))
	assert.Equal(t, 0, PageCount(5, 0))
}
