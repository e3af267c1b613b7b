package listing

import "company_reviews/internal/domain"

type State int

const (
	Loading State = iota
	Empty
	Populated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	}
	return "unknown"
}

// Position identifies one of the two pagination widgets.
type Position int

const (
	Top Position = iota
	Bottom
)

func (p Position) String() string {
	if p == Top {
		return "top"
	}
	return "bottom"
}

// Widget layout: no siblings around the current page, two pages pinned at each end.
const (
	SiblingCount  = 0
	BoundaryCount = 2
)

// Pager is the read-only state of one pagination widget. Both pagers of a
// View are built from the same (Current, Count) pair.
type Pager struct {
	Position Position
	Current  int
	Count    int
}

// PageItem is one button of a pager; Ellipsis items carry no page.
type PageItem struct {
	Page     int
	Ellipsis bool
	Selected bool
}

// Items lays out the page buttons: boundary pages at both ends, the current
// page with its siblings, and ellipses for the gaps.
func (p Pager) Items() []PageItem {
	count, page := p.Count, p.Current
	var out []PageItem
	add := func(from, to int) {
		for i := from; i <= to; i++ {
			out = append(out, PageItem{Page: i, Selected: i == page})
		}
	}
	gap := func() { out = append(out, PageItem{Ellipsis: true}) }

	startEnd := min(BoundaryCount, count)
	endStart := max(count-BoundaryCount+1, BoundaryCount+1)

	siblingsStart := max(min(page-SiblingCount, count-BoundaryCount-SiblingCount*2-1), BoundaryCount+2)
	siblingsEnd := count - 1
	if endStart <= count {
		siblingsEnd = endStart - 2
	}
	siblingsEnd = min(max(page+SiblingCount, BoundaryCount+SiblingCount*2+2), siblingsEnd)

	add(1, startEnd)
	switch {
	case siblingsStart > BoundaryCount+2:
		gap()
	case BoundaryCount+1 < count-BoundaryCount:
		add(BoundaryCount+1, BoundaryCount+1)
	}
	add(siblingsStart, siblingsEnd)
	switch {
	case siblingsEnd < count-BoundaryCount-1:
		gap()
	case count-BoundaryCount > BoundaryCount:
		add(count-BoundaryCount, count-BoundaryCount)
	}
	add(endStart, count)
	return out
}

// View is what the presentation layer draws. Pagers is empty unless the
// state is Populated.
type View struct {
	State     State
	Page      int
	PageCount int
	Items     []domain.Review
	Pagers    []Pager
}
