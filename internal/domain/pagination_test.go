package domain

import (
	"reflect"
	"strings"
	"testing"
)

func renderNumbers(numbers []PageNumber) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{name: "no pagination for single page", current: 1, total: 1, expected: ""},
		{name: "no pagination for zero pages", current: 1, total: 0, expected: ""},
		{name: "two pages", current: 1, total: 2, expected: "1 2"},
		{name: "middle of ten", current: 5, total: 10, expected: "1 ... 4 5 6 ... 10"},
		{name: "first of ten", current: 1, total: 10, expected: "1 2 ... 10"},
		{name: "last of ten", current: 10, total: 10, expected: "1 ... 9 10"},
		{name: "single gap absorbed at start", current: 4, total: 10, expected: "1 2 3 4 5 ... 10"},
		{name: "single gap absorbed at end", current: 7, total: 10, expected: "1 ... 6 7 8 9 10"},
		{name: "near start", current: 3, total: 10, expected: "1 2 3 4 ... 10"},
		{name: "five pages all shown", current: 3, total: 5, expected: "1 2 3 4 5"},
		{name: "out of range current is not clamped", current: 20, total: 10, expected: "1 ... 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderNumbers(PageNumbers(tt.current, tt.total))
			if got != tt.expected {
				t.Errorf("PageNumbers(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.expected)
			}
		})
	}
}

func TestPageNumbers_WindowInvariants(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			numbers := PageNumbers(current, total)
			if total == 1 {
				if len(numbers) != 0 {
					t.Fatalf("PageNumbers(%d, %d) should be empty", current, total)
				}
				continue
			}

			if numbers[0].Overflow || numbers[0].Number != 1 {
				t.Errorf("PageNumbers(%d, %d) does not start with page 1", current, total)
			}
			last := numbers[len(numbers)-1]
			if last.Overflow || last.Number != total {
				t.Errorf("PageNumbers(%d, %d) does not end with page %d", current, total, total)
			}

			overflows := 0
			prev := 0
			for i, n := range numbers {
				if n.Overflow {
					overflows++
					if i > 0 && numbers[i-1].Overflow {
						t.Errorf("PageNumbers(%d, %d) has adjacent overflow markers", current, total)
					}
					continue
				}
				if n.Number <= prev {
					t.Errorf("PageNumbers(%d, %d) is not strictly increasing", current, total)
				}
				if i > 0 && !numbers[i-1].Overflow && n.Number != prev+1 {
					t.Errorf("PageNumbers(%d, %d) skips pages without a marker", current, total)
				}
				if i > 0 && numbers[i-1].Overflow && n.Number-prev < 3 {
					t.Errorf("PageNumbers(%d, %d) elides a gap narrower than two pages", current, total)
				}
				prev = n.Number
			}
			if overflows > 2 {
				t.Errorf("PageNumbers(%d, %d) has %d overflow markers", current, total, overflows)
			}
		}
	}
}

func TestPageNavItems(t *testing.T) {
	t.Run("first page has next but no prev", func(t *testing.T) {
		got := PageNavItems(1, 10)
		want := []PageNavItem{
			{Type: NavItemPage, PageNumber: 1, IsCurrentPage: true},
			{Type: NavItemPage, PageNumber: 2},
			{Type: NavItemOverflow},
			{Type: NavItemPage, PageNumber: 10},
			{Type: NavItemNext, PageNumber: 2},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("PageNavItems(1, 10) = %+v, want %+v", got, want)
		}
	})

	t.Run("last page has prev but no next", func(t *testing.T) {
		got := PageNavItems(10, 10)
		want := []PageNavItem{
			{Type: NavItemPrev, PageNumber: 9},
			{Type: NavItemPage, PageNumber: 1},
			{Type: NavItemOverflow},
			{Type: NavItemPage, PageNumber: 9},
			{Type: NavItemPage, PageNumber: 10, IsCurrentPage: true},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("PageNavItems(10, 10) = %+v, want %+v", got, want)
		}
	})

	t.Run("exactly one current page", func(t *testing.T) {
		for current := 1; current <= 12; current++ {
			count := 0
			for _, item := range PageNavItems(current, 12) {
				if item.IsCurrentPage {
					count++
					if item.Type != NavItemPage || item.PageNumber != current {
						t.Errorf("unexpected current item %+v", item)
					}
				}
			}
			if count != 1 {
				t.Errorf("PageNavItems(%d, 12) has %d current pages", current, count)
			}
		}
	})

	t.Run("nothing for a single page", func(t *testing.T) {
		if items := PageNavItems(1, 1); items != nil {
			t.Errorf("expected nil, got %+v", items)
		}
	})
}

func TestPaginationItemID(t *testing.T) {
	tests := []struct {
		name     string
		opts     PaginationItemIDOptions
		expected string
	}{
		{
			name:     "current page template",
			opts:     PaginationItemIDOptions{ItemType: NavItemPage, IsCurrentPage: true, IDType: PaginationIDTemplate},
			expected: "pagination-page-current-template",
		},
		{
			name:     "page template",
			opts:     PaginationItemIDOptions{ItemType: NavItemPage, IDType: PaginationIDTemplate},
			expected: "pagination-page-template",
		},
		{
			name:     "next template ignores current flag",
			opts:     PaginationItemIDOptions{ItemType: NavItemNext, IsCurrentPage: true, IDType: PaginationIDTemplate},
			expected: "pagination-next-template",
		},
		{
			name:     "static link",
			opts:     PaginationItemIDOptions{ItemType: NavItemPage, PageID: "1", IDType: PaginationIDLink},
			expected: "pagination-page-link-1",
		},
		{
			name:     "filtered link",
			opts:     PaginationItemIDOptions{ItemType: NavItemPrev, PageID: "4", IDType: PaginationIDLinkFiltered},
			expected: "pagination-prev-link-filtered-4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaginationItemID(tt.opts); got != tt.expected {
				t.Errorf("PaginationItemID() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFilteredPageNavInfo(t *testing.T) {
	tests := []struct {
		name                          string
		resultSize, pageSize, current int
		expected                      FilteredPageNav
	}{
		{name: "out of range resets to first", resultSize: 50, pageSize: 10, current: 10, expected: FilteredPageNav{TotalPages: 5, CurrentPage: 1}},
		{name: "no results", resultSize: 0, pageSize: 10, current: 1, expected: FilteredPageNav{TotalPages: 0, CurrentPage: 1}},
		{name: "partial last page", resultSize: 21, pageSize: 10, current: 3, expected: FilteredPageNav{TotalPages: 3, CurrentPage: 3}},
		{name: "zero current", resultSize: 5, pageSize: 10, current: 0, expected: FilteredPageNav{TotalPages: 1, CurrentPage: 1}},
		{name: "invalid page size", resultSize: 5, pageSize: 0, current: 2, expected: FilteredPageNav{TotalPages: 0, CurrentPage: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilteredPageNavInfo(tt.resultSize, tt.pageSize, tt.current)
			if got != tt.expected {
				t.Errorf("FilteredPageNavInfo() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestPageResults(t *testing.T) {
	results := []int{1, 2, 3, 4, 5, 6, 7}

	if got := PageResults(results, 1, 3); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("page 1 = %v", got)
	}
	if got := PageResults(results, 3, 3); !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("page 3 = %v", got)
	}
	if got := PageResults(results, 4, 3); got != nil {
		t.Errorf("page 4 = %v, want nil", got)
	}
	if got := PageResults(results, 0, 3); got != nil {
		t.Errorf("page 0 = %v, want nil", got)
	}
}

func TestParsePageNumber(t *testing.T) {
	if got := ParsePageNumber(" 3 "); got != 3 {
		t.Errorf("ParsePageNumber(\" 3 \") = %d", got)
	}
	if got := ParsePageNumber("abc"); got != 0 {
		t.Errorf("ParsePageNumber(\"abc\") = %d", got)
	}
}
