package manifest

import (
	"strings"

	"collection-filter-service/internal/domain"
)

// Manifest is the index export written by the static build.
type Manifest struct {
	GeneratedAt string  `json:"generated_at"`
	Entries     []Entry `json:"entries"`
}

// Entry is one collection item of the manifest.
type Entry struct {
	ID               string              `json:"id"`
	Collection       string              `json:"collection"`
	URL              string              `json:"url"`
	Title            string              `json:"title"`
	SortField        string              `json:"sort_field"`
	CollectionItemID string              `json:"collection_item_id"`
	Filters          map[string][]string `json:"filters"`
}

// ToDomain converts an Entry to a domain.IndexEntry. Filter names are
// qualified with the collection; unknown filters are dropped and an empty
// filter records the unspecified value.
func (e *Entry) ToDomain(sourceID string) *domain.IndexEntry {
	itemID := e.CollectionItemID
	if itemID == "" {
		itemID = domain.CollectionItemTemplateID(e.ID)
	}

	filters := make(map[string][]string)
	for _, cfg := range domain.Filters {
		values, ok := e.Filters[cfg.Name]
		if !ok {
			continue
		}

		key := domain.FacetKey(e.Collection, cfg.Name)
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				filters[key] = append(filters[key], v)
			}
		}
		if len(filters[key]) == 0 {
			filters[key] = []string{domain.UnspecifiedValue}
		}
	}

	return &domain.IndexEntry{
		SourceID:         sourceID,
		ExternalID:       e.ID,
		Collection:       e.Collection,
		URL:              e.URL,
		CollectionItemID: itemID,
		Title:            e.Title,
		SortField:        e.SortField,
		Filters:          filters,
	}
}
