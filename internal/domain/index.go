package domain

import (
	"slices"
	"strings"
	"time"
)

// IndexEntry is one collection item as recorded in the facet index.
type IndexEntry struct {
	// Primary identifiers
	ID         string `json:"id"`          // Internal UUID
	SourceID   string `json:"source_id"`   // e.g. "manifest", "feed"
	ExternalID string `json:"external_id"` // ID from the source (unique per source)

	Collection string `json:"collection"`
	URL        string `json:"url"` // Page that embeds the item template

	// CollectionItemID is the DOM id of the <template> wrapping the item card.
	CollectionItemID string `json:"collection_item_id"`
	Title            string `json:"title"`

	// SortField is an ISO-8601 timestamp; string order is time order.
	SortField string `json:"sort_field"`

	// Filters maps facet key -> values, e.g. "events_tag" -> ["GEOGRAPHY"].
	Filters map[string][]string `json:"filters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CollectionItemTemplateID returns the template id used for an item slug.
func CollectionItemTemplateID(slug string) string {
	return "collection-item-" + slug
}

// ResultMeta is the metadata block of an index hit.
type ResultMeta struct {
	Title            string `json:"title"`
	SortField        string `json:"sort_field"`
	CollectionItemID string `json:"collection_item_id"`
}

// ResultData is the resolved payload of an index hit.
type ResultData struct {
	URL     string              `json:"url"`
	Meta    ResultMeta          `json:"meta"`
	Filters map[string][]string `json:"filters,omitempty"`

	// SortField mirrors Meta.SortField once flattened.
	SortField string `json:"sort_field,omitempty"`
}

// ToResultData builds the hit payload for an entry.
func (e *IndexEntry) ToResultData() *ResultData {
	return &ResultData{
		URL: e.URL,
		Meta: ResultMeta{
			Title:            e.Title,
			SortField:        e.SortField,
			CollectionItemID: e.CollectionItemID,
		},
		Filters: e.Filters,
	}
}

// FlattenSortField lifts Meta.SortField to the top level.
func (d *ResultData) FlattenSortField() {
	d.SortField = d.Meta.SortField
}

// SortByRecency orders results by SortField, most recent first.
func SortByRecency(results []*ResultData) {
	slices.SortStableFunc(results, func(a, b *ResultData) int {
		return strings.Compare(b.SortField, a.SortField)
	})
}

// FacetPairs flattens an entry's filters into "<facetKey>=<value>" pairs.
func (e *IndexEntry) FacetPairs() []string {
	keys := make([]string, 0, len(e.Filters))
	for k := range e.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range e.Filters[k] {
			pairs = append(pairs, FacetPair(k, v))
		}
	}

	return pairs
}

// FacetPair encodes one facet key/value pair.
func FacetPair(key, value string) string {
	return key + "=" + value
}

// SplitFacetPair decodes a pair built by FacetPair. Facet keys never
// contain "=", values may.
func SplitFacetPair(pair string) (key, value string, ok bool) {
	return strings.Cut(pair, "=")
}

// PairsToFilters rebuilds the filters map from encoded pairs.
func PairsToFilters(pairs []string) map[string][]string {
	if len(pairs) == 0 {
		return nil
	}

	filters := make(map[string][]string)
	for _, p := range pairs {
		k, v, ok := SplitFacetPair(p)
		if !ok {
			continue
		}
		filters[k] = append(filters[k], v)
	}

	return filters
}
