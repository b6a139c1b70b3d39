package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Window(t *testing.T) {
	testCases := []struct {
		name           string
		page           int32
		perPage        int32
		expectedOffset int32
		expectedLimit  int32
	}{
		{name: "first page", page: 1, perPage: 3, expectedOffset: 0, expectedLimit: 3},
		{name: "second page", page: 2, perPage: 3, expectedOffset: 3, expectedLimit: 3},
		{name: "fourth page of three", page: 4, perPage: 3, expectedOffset: 9, expectedLimit: 3},
		{name: "large page size", page: 3, perPage: 50, expectedOffset: 100, expectedLimit: 50},
		{name: "page size one", page: 7, perPage: 1, expectedOffset: 6, expectedLimit: 1},
		{name: "huge page saturates instead of wrapping negative", page: 1431655766, perPage: 3, expectedOffset: math.MaxInt32, expectedLimit: 3},
		{name: "largest page and page size", page: math.MaxInt32, perPage: math.MaxInt32, expectedOffset: math.MaxInt32, expectedLimit: math.MaxInt32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := Window(tc.page, tc.perPage)
			assert.Equal(t, tc.expectedOffset, offset)
			assert.Equal(t, tc.expectedLimit, limit)
		})
	}
}

func Test_Compute(t *testing.T) {
	testCases := []struct {
		name     string
		page     int32
		perPage  int32
		total    int64
		expected Page
	}{
		{
			name: "first page with more rows behind it",
			page: 1, perPage: 3, total: 10,
			expected: Page{Number: 1, PerPage: 3, Offset: 0, Limit: 3, HasNext: true, Next: 2},
		},
		{
			name: "middle page has both neighbours",
			page: 2, perPage: 3, total: 10,
			expected: Page{Number: 2, PerPage: 3, Offset: 3, Limit: 3, HasNext: true, HasPrev: true, Next: 3, Prev: 1},
		},
		{
			name: "last partial page",
			page: 4, perPage: 3, total: 10,
			expected: Page{Number: 4, PerPage: 3, Offset: 9, Limit: 3, HasPrev: true, Prev: 3},
		},
		{
			name: "page beyond the last is not an error",
			page: 100, perPage: 3, total: 10,
			expected: Page{Number: 100, PerPage: 3, Offset: 297, Limit: 3, HasPrev: true, Prev: 99},
		},
		{
			name: "empty collection",
			page: 1, perPage: 3, total: 0,
			expected: Page{Number: 1, PerPage: 3, Offset: 0, Limit: 3},
		},
		{
			name: "exact fit has no next page",
			page: 2, perPage: 5, total: 10,
			expected: Page{Number: 2, PerPage: 5, Offset: 5, Limit: 5, HasPrev: true, Prev: 1},
		},
		{
			name: "first page never has a previous page",
			page: 1, perPage: 1, total: 100,
			expected: Page{Number: 1, PerPage: 1, Offset: 0, Limit: 1, HasNext: true, Next: 2},
		},
		{
			name: "huge page keeps a non-negative offset",
			page: 1431655766, perPage: 3, total: 10,
			expected: Page{Number: 1431655766, PerPage: 3, Offset: math.MaxInt32, Limit: 3, HasPrev: true, Prev: 1431655765},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Compute(tc.page, tc.perPage, tc.total))
		})
	}
}

func Test_Compute_Formulas(t *testing.T) {
	// offset = (page-1)*perPage, hasPrev = page > 1, hasNext = offset+limit < total
	for page := int32(1); page <= 6; page++ {
		for perPage := int32(1); perPage <= 5; perPage++ {
			for _, total := range []int64{0, 1, 7, 25} {
				p := Compute(page, perPage, total)
				assert.Equal(t, (page-1)*perPage, p.Offset)
				assert.Equal(t, perPage, p.Limit)
				assert.Equal(t, page > 1, p.HasPrev)
				assert.Equal(t, int64(p.Offset+p.Limit) < total, p.HasNext)
			}
		}
	}
}
