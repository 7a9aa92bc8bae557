package domain

import (
	"context"
	"errors"
	"time"
)

// ErrFreeTextUnsupported is returned by a FacetIndex asked for a free-text
// query; collection pages only filter by facets.
var ErrFreeTextUnsupported = errors.New("free-text queries are not supported")

// SearchHit is one match of a facet query. Its payload is resolved lazily.
type SearchHit interface {
	Data(ctx context.Context) (*ResultData, error)
}

// SearchResponse is the outcome of a facet query.
type SearchResponse struct {
	Results []SearchHit
}

// FacetIndex is the pre-built faceted search index.
// Implementations: internal/infra/postgres/repository.go
type FacetIndex interface {
	// Search runs a query. query is always nil for collection filtering;
	// only opts.Filters narrow the result.
	Search(ctx context.Context, query *string, opts SearchOptions) (*SearchResponse, error)

	// Filters returns value counts for every facet key in the index.
	Filters(ctx context.Context) (Facets, error)
}

// IndexRepository defines persistence operations for index entries.
// Implementations: internal/infra/postgres/repository.go
type IndexRepository interface {
	// BulkUpsert creates or updates entries.
	// Uses source_id + external_id as the unique key.
	BulkUpsert(ctx context.Context, entries []*IndexEntry) error

	// DeleteStale removes entries of a source whose external id is not in keep.
	DeleteStale(ctx context.Context, sourceID string, keep []string) (int64, error)

	// GetByID retrieves a single entry by its internal ID.
	GetByID(ctx context.Context, id string) (*IndexEntry, error)

	// Count returns the number of entries, optionally for one collection.
	Count(ctx context.Context, collection string) (int64, error)
}

// Source produces index entries from an export of the static site.
// Implementations: internal/infra/source/manifest/, internal/infra/source/feed/
type Source interface {
	// Name returns the unique identifier for this source.
	Name() string

	// Fetch retrieves every entry currently exported by the source.
	Fetch(ctx context.Context) ([]*IndexEntry, error)

	// HealthCheck verifies the source is reachable.
	HealthCheck(ctx context.Context) error
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
