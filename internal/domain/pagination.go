package domain

import (
	"strconv"
	"strings"
)

// PageNumber is one slot of a pagination bar: a page number or, when
// Overflow is set, an ellipsis standing for two or more skipped pages.
type PageNumber struct {
	Number   int
	Overflow bool
}

// String renders the slot the way it is displayed ("3" or "...").
func (p PageNumber) String() string {
	if p.Overflow {
		return "..."
	}
	return strconv.Itoa(p.Number)
}

// ParsePageNumber coerces a page value taken from markup or a query string.
// Anything unparsable becomes 0; callers clamp.
func ParsePageNumber(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// PageNumbers returns the pagination window for the current page.
//
// The window always holds page 1, page total and every page within one of
// current. A gap of a single page is filled with that page; a wider gap
// collapses into one overflow marker:
//
//	PageNumbers(5, 10) -> 1 ... 4 5 6 ... 10
//	PageNumbers(3, 10) -> 1 2 3 4 ... 10
//
// No pagination is needed when total <= 1. current is not clamped.
func PageNumbers(current, total int) []PageNumber {
	if total <= 1 {
		return nil
	}

	anchors := []int{1}
	for p := current - 1; p <= current+1; p++ {
		if p > 1 && p < total {
			anchors = append(anchors, p)
		}
	}
	anchors = append(anchors, total)

	numbers := make([]PageNumber, 0, len(anchors)+2)
	last := 0
	for _, p := range anchors {
		if p <= last {
			continue
		}
		if last > 0 {
			switch gap := p - last; {
			case gap == 2:
				numbers = append(numbers, PageNumber{Number: last + 1})
			case gap > 2:
				numbers = append(numbers, PageNumber{Overflow: true})
			}
		}
		numbers = append(numbers, PageNumber{Number: p})
		last = p
	}

	return numbers
}

// NavItemType is the kind of a pagination bar item.
type NavItemType string

const (
	NavItemPrev     NavItemType = "prev"
	NavItemNext     NavItemType = "next"
	NavItemPage     NavItemType = "page"
	NavItemOverflow NavItemType = "overflow"
)

// PageNavItem is one item of a pagination bar.
// PageNumber is zero for overflow items.
type PageNavItem struct {
	Type          NavItemType `json:"type"`
	PageNumber    int         `json:"page_number,omitempty"`
	IsCurrentPage bool        `json:"is_current_page,omitempty"`
}

// PageNavItems converts the page window into typed bar items, adding a prev
// item before page 1 unless it is current and a next item after the last
// page unless it is current.
func PageNavItems(current, total int) []PageNavItem {
	numbers := PageNumbers(current, total)
	if len(numbers) == 0 {
		return nil
	}

	items := make([]PageNavItem, 0, len(numbers)+2)
	for _, n := range numbers {
		if n.Overflow {
			items = append(items, PageNavItem{Type: NavItemOverflow})
			continue
		}

		if n.Number == 1 && current != 1 {
			items = append(items, PageNavItem{Type: NavItemPrev, PageNumber: current - 1})
		}

		items = append(items, PageNavItem{
			Type:          NavItemPage,
			PageNumber:    n.Number,
			IsCurrentPage: n.Number == current,
		})

		if n.Number == total && current != total {
			items = append(items, PageNavItem{Type: NavItemNext, PageNumber: current + 1})
		}
	}

	return items
}

// PaginationIDType discriminates the element a pagination id names.
type PaginationIDType string

const (
	PaginationIDTemplate     PaginationIDType = "template"
	PaginationIDLink         PaginationIDType = "link"
	PaginationIDLinkFiltered PaginationIDType = "link-filtered"
)

// PaginationItemIDOptions are the inputs of PaginationItemID.
type PaginationItemIDOptions struct {
	ItemType      NavItemType
	IsCurrentPage bool
	PageID        string
	IDType        PaginationIDType
}

// PaginationItemID derives the DOM id of a pagination template or link:
//
//	pagination-page-current-template
//	pagination-next-template
//	pagination-page-link-4
//	pagination-page-link-filtered-4
//
// The current-page marker only applies to page templates.
func PaginationItemID(opts PaginationItemIDOptions) string {
	parts := []string{"pagination", string(opts.ItemType)}
	if opts.IDType == PaginationIDTemplate && opts.ItemType == NavItemPage && opts.IsCurrentPage {
		parts = append(parts, "current")
	}
	parts = append(parts, string(opts.IDType))
	if opts.PageID != "" {
		parts = append(parts, opts.PageID)
	}

	return strings.Join(parts, "-")
}

// FilteredPageNav is the pagination state of a filtered result set.
type FilteredPageNav struct {
	TotalPages  int `json:"filtered_total_pages"`
	CurrentPage int `json:"filtered_current_page"`
}

// FilteredPageNavInfo recomputes paging for a filtered result set. The
// requested page resets to 1 when it falls outside [1, total pages].
func FilteredPageNavInfo(resultSize, pageSize, currentPage int) FilteredPageNav {
	total := 0
	if pageSize > 0 && resultSize > 0 {
		total = (resultSize + pageSize - 1) / pageSize
	}

	if currentPage < 1 || currentPage > total {
		currentPage = 1
	}

	return FilteredPageNav{TotalPages: total, CurrentPage: currentPage}
}

// PageResults returns the slice of results shown on a page.
func PageResults[T any](results []T, page, pageSize int) []T {
	if pageSize <= 0 || page < 1 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(results) {
		return nil
	}

	return results[start:min(start+pageSize, len(results))]
}
