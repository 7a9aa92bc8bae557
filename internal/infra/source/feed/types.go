package feed

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"collection-filter-service/internal/domain"
)

// toEntry converts a feed item of collection to a domain.IndexEntry.
// Categories become tags and the publication year becomes the year.
func toEntry(item *gofeed.Item, sourceID, collection string) *domain.IndexEntry {
	guid := strings.TrimSpace(item.GUID)
	entry := &domain.IndexEntry{
		SourceID:         sourceID,
		ExternalID:       guid,
		Collection:       collection,
		URL:              linkPath(item.Link),
		CollectionItemID: domain.CollectionItemTemplateID(guid),
		Title:            strings.TrimSpace(item.Title),
		Filters:          make(map[string][]string),
	}

	tagKey := domain.FacetKey(collection, "tag")
	for _, c := range item.Categories {
		if c = strings.TrimSpace(c); c != "" {
			entry.Filters[tagKey] = append(entry.Filters[tagKey], c)
		}
	}
	if len(entry.Filters[tagKey]) == 0 {
		entry.Filters[tagKey] = []string{domain.UnspecifiedValue}
	}

	yearKey := domain.FacetKey(collection, "year")
	if published := item.PublishedParsed; published != nil {
		entry.SortField = published.UTC().Format(time.RFC3339)
		entry.Filters[yearKey] = []string{strconv.Itoa(published.Year())}
	} else {
		entry.Filters[yearKey] = []string{domain.UnspecifiedValue}
	}

	return entry
}

// linkPath keeps the path and query of a link so pages are fetched from the
// configured site.
func linkPath(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Path == "" {
		return strings.TrimSpace(link)
	}

	return u.RequestURI()
}
