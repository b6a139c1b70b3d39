// Package pagination holds the page-window arithmetic for list endpoints.
// It is pure computation so it can be tested without any transport or store.
package pagination

import "math"

// Page describes a 1-indexed window of size PerPage over total ordered rows.
// Next and Prev are meaningful only when the corresponding Has flag is set.
type Page struct {
	Number  int32
	PerPage int32
	Offset  int32
	Limit   int32
	HasNext bool
	HasPrev bool
	Next    int32
	Prev    int32
}

// Window returns the zero-based row offset and the fetch limit for a page.
// The multiplication runs in int64 so a huge page number saturates at the
// maximum representable offset instead of wrapping negative.
func Window(page, perPage int32) (offset, limit int32) {
	wide := (int64(page) - 1) * int64(perPage)
	switch {
	case wide < 0:
		wide = 0
	case wide > math.MaxInt32:
		wide = math.MaxInt32
	}
	return int32(wide), perPage
}

// Compute derives the full window description for a page over total rows.
// A page beyond the last one simply has HasNext unset; it is not an error.
func Compute(page, perPage int32, total int64) Page {
	offset, limit := Window(page, perPage)
	p := Page{
		Number:  page,
		PerPage: perPage,
		Offset:  offset,
		Limit:   limit,
		HasNext: int64(offset)+int64(limit) < total,
		HasPrev: page > 1,
	}
	if p.HasNext {
		p.Next = page + 1
	}
	if p.HasPrev {
		p.Prev = page - 1
	}
	return p
}
