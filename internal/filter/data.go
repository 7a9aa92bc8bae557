package filter

import (
	"strings"

	"golang.org/x/net/html"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

// FilterMapEntry binds a configured filter to its controls on a page.
type FilterMapEntry struct {
	FilterName string

	// FacetKey is the index key of this collection's filter, e.g. "events_tag".
	FacetKey string

	FilterElement *html.Node
	NavElement    *html.Node
}

// FiltersMap maps filter name -> entry.
type FiltersMap map[string]*FilterMapEntry

// FiltersData is the filtering configuration of one page.
type FiltersData struct {
	FiltersMap     FiltersMap
	BaseURL        string
	PageSize       int
	CurrentPage    int
	CollectionName string
}

// NewFiltersData decodes the page configuration embedded at build time.
// It returns nil when the page carries no usable configuration.
func NewFiltersData(doc *dom.Document) *FiltersData {
	carrier := doc.ElementByID(FiltersDataID)
	if carrier == nil {
		return nil
	}

	data := dom.Dataset(carrier)
	collection := strings.TrimSpace(data[dataCollectionName])
	pageSize := domain.ParsePageNumber(data[dataPageSize])
	if collection == "" || pageSize < 1 {
		return nil
	}

	currentPage := domain.ParsePageNumber(data[dataCurrentPage])
	if currentPage < 1 {
		currentPage = 1
	}

	return &FiltersData{
		FiltersMap:     newFiltersMap(doc, collection, data),
		BaseURL:        data[dataBaseURL],
		PageSize:       pageSize,
		CurrentPage:    currentPage,
		CollectionName: collection,
	}
}

// newFiltersMap matches configured filters to controls present on the page.
// Filters without a control do not apply to the page.
func newFiltersMap(doc *dom.Document, collection string, data map[string]string) FiltersMap {
	m := make(FiltersMap)
	for _, cfg := range domain.Filters {
		control := doc.ElementByID(cfg.Name)
		if control == nil {
			continue
		}

		facetKey := strings.TrimSpace(data[dataFilterPrefix+cfg.Name])
		if facetKey == "" {
			facetKey = domain.FacetKey(collection, cfg.Name)
		}

		m[cfg.Name] = &FilterMapEntry{
			FilterName:    cfg.Name,
			FacetKey:      facetKey,
			FilterElement: control,
			NavElement:    doc.ElementByID(NavID(cfg.Name)),
		}
	}

	return m
}

// ElementsPair is a statically rendered subtree and its replaceable sibling.
type ElementsPair struct {
	Original *html.Node
	Filtered *html.Node
}

// CreateFilteredCollectionItemList adds the hidden filtered sibling of the
// collection list. It returns nil when the page has no collection list.
func CreateFilteredCollectionItemList(doc *dom.Document) *ElementsPair {
	return createFilteredPair(doc, CollectionListID)
}

// CreateFilteredPagination adds the hidden filtered sibling of the
// pagination list. It returns nil when the page has no pagination list.
func CreateFilteredPagination(doc *dom.Document) *ElementsPair {
	return createFilteredPair(doc, PaginationListID)
}

func createFilteredPair(doc *dom.Document, id string) *ElementsPair {
	original := doc.ElementByID(id)
	if original == nil {
		return nil
	}

	if existing := doc.ElementByID(FilteredID(id)); existing != nil {
		return &ElementsPair{Original: original, Filtered: existing}
	}

	filtered := dom.ShallowClone(original)
	dom.SetAttr(filtered, "id", FilteredID(id))
	dom.SetHidden(filtered, true)
	dom.InsertAfter(original, filtered)

	return &ElementsPair{Original: original, Filtered: filtered}
}

// DisplayOriginals shows the static subtree and hides and empties the
// filtered one.
func DisplayOriginals(pair *ElementsPair) {
	if pair == nil {
		return
	}
	dom.SetHidden(pair.Original, false)
	if pair.Filtered != nil {
		dom.SetHidden(pair.Filtered, true)
		dom.RemoveChildren(pair.Filtered)
	}
}

// DisplayFiltered hides the static subtree and shows the filtered one with
// its children replaced by the fragment.
func DisplayFiltered(pair *ElementsPair, f *dom.Fragment) {
	if pair == nil {
		return
	}
	dom.SetHidden(pair.Original, true)
	if pair.Filtered != nil {
		dom.ReplaceChildren(pair.Filtered, f)
		dom.SetHidden(pair.Filtered, false)
	}
}

// HideBoth hides both subtrees and empties the filtered one.
func HideBoth(pair *ElementsPair) {
	if pair == nil {
		return
	}
	dom.SetHidden(pair.Original, true)
	if pair.Filtered != nil {
		dom.SetHidden(pair.Filtered, true)
		dom.RemoveChildren(pair.Filtered)
	}
}
