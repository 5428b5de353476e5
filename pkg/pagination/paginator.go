package pagination

import "fmt"

// PageDefaultSize is the page size used when the client does not pass `first`.
const PageDefaultSize = 10

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 100

// Paginator translates Relay-style pagination arguments into a half-open
// window [SliceFrom, SliceTo) over an ordered result set. Pagination is
// forward only; callers flip the backend sort direction (before slicing) to
// walk a listing from the other end.
type Paginator struct {
	sliceFrom int
	sliceTo   int
}

// New builds a Paginator from `first`/`after` arguments. A nil `first`
// defaults to PageDefaultSize; an `after` cursor pointing past the end of the
// result set yields an empty page, not an error.
func New(first *int32, after *string) (*Paginator, error) {
	size := PageDefaultSize
	if first != nil {
		if *first < 1 {
			return nil, fmt.Errorf("first must be positive, got %d", *first)
		}
		size = int(*first)
	}
	if size > PageMaxSize {
		size = PageMaxSize
	}

	offset := 0
	if after != nil && *after != "" {
		pos, err := DecodeCursor(*after)
		if err != nil {
			return nil, err
		}
		offset = pos
	}

	return &Paginator{
		sliceFrom: offset,
		sliceTo:   offset + size,
	}, nil
}

// SliceFrom returns the zero-based start of the backend window.
func (p *Paginator) SliceFrom() int { return p.sliceFrom }

// SliceTo returns the zero-based exclusive end of the backend window.
func (p *Paginator) SliceTo() int { return p.sliceTo }

// Limit returns the number of items the backend should fetch.
func (p *Paginator) Limit() int { return p.sliceTo - p.sliceFrom }

// EdgeCursor returns the cursor for the localIndex-th edge on the current
// page, localIndex being 1-based. Cursors grow strictly within a page.
func (p *Paginator) EdgeCursor(localIndex int) string {
	return EncodeCursor(p.sliceFrom + localIndex)
}

// PageInfo describes the current page relative to the full result set.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// PageInfo derives page metadata from the total match count. Start and end
// cursors are nil when the window holds no edges.
func (p *Paginator) PageInfo(total int) PageInfo {
	info := PageInfo{
		HasNextPage:     p.sliceTo < total,
		HasPreviousPage: p.sliceFrom > 0,
	}

	count := total - p.sliceFrom
	if count > p.Limit() {
		count = p.Limit()
	}
	if count > 0 {
		start := p.EdgeCursor(1)
		end := p.EdgeCursor(count)
		info.StartCursor = &start
		info.EndCursor = &end
	}

	return info
}
