// Package filter overlays statically rendered collection pages with faceted
// filtering: it populates filter controls from the facet index, runs facet
// queries, swaps result cards and pagination into the page and keeps the
// page URL in sync with the active filters.
package filter

// Element ids the static build embeds on collection pages.
const (
	// FiltersDataID carries the data-* configuration of the page.
	FiltersDataID = "collection-filters"

	// FiltersBarID wraps every filter control.
	FiltersBarID = "filters"

	// CollectionListID holds the statically rendered item cards.
	CollectionListID = "collection-list"

	// PaginationListID holds the statically rendered pagination items.
	PaginationListID = "pagination-list"

	filteredSuffix = "-filtered"
	navSuffix      = "-nav"
)

// Data attributes of the FiltersDataID element, without the data- prefix.
const (
	dataBaseURL        = "base-url"
	dataPageSize       = "page-size"
	dataCurrentPage    = "current-page"
	dataCollectionName = "collection-name"
	dataFilterPrefix   = "filter-"
)

// PageParam is the query parameter carrying the filtered page number.
const PageParam = "page"

// FilteredID returns the id of the filtered sibling of an element.
func FilteredID(id string) string {
	return id + filteredSuffix
}

// NavID returns the id of the nav container wrapping a filter control.
func NavID(filterName string) string {
	return filterName + navSuffix
}
