package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collection-filter-service/internal/domain"
)

// upsertBatchSize is the number of rows per INSERT of BulkUpsert.
const upsertBatchSize = 100

// ErrEntryGone is returned when a hit's entry was removed after the search.
var ErrEntryGone = errors.New("index entry no longer exists")

// Repository implements domain.FacetIndex and domain.IndexRepository
// using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Search returns hits for the entries carrying every requested facet pair,
// most recent first. Free-text queries are rejected.
func (r *Repository) Search(ctx context.Context, query *string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	if query != nil {
		return nil, domain.ErrFreeTextUnsupported
	}

	pairs := make([]string, 0, len(opts.Filters))
	for key, value := range opts.Filters {
		pairs = append(pairs, domain.FacetPair(key, value))
	}
	slices.Sort(pairs)

	q := r.db.WithContext(ctx).Model(&IndexEntryModel{})
	if len(pairs) > 0 {
		q = q.Where("facet_pairs @> ?", pq.StringArray(pairs))
	}

	var ids []string
	if err := q.Order("sort_field DESC").Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("searching index entries: %w", err)
	}

	resp := &domain.SearchResponse{Results: make([]domain.SearchHit, len(ids))}
	for i, id := range ids {
		resp.Results[i] = &hit{repo: r, id: id}
	}

	return resp, nil
}

// hit loads its entry on demand.
type hit struct {
	repo *Repository
	id   string
}

func (h *hit) Data(ctx context.Context) (*domain.ResultData, error) {
	entry, err := h.repo.GetByID(ctx, h.id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("entry %s: %w", h.id, ErrEntryGone)
	}

	return entry.ToResultData(), nil
}

type pairCount struct {
	Pair  string
	Count int
}

// Filters returns value counts for every facet key.
func (r *Repository) Filters(ctx context.Context) (domain.Facets, error) {
	var rows []pairCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT pair, COUNT(*) AS count
		FROM index_entries, unnest(facet_pairs) AS pair
		GROUP BY pair
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting facets: %w", err)
	}

	facets := make(domain.Facets)
	for _, row := range rows {
		key, value, ok := domain.SplitFacetPair(row.Pair)
		if !ok {
			continue
		}
		if facets[key] == nil {
			facets[key] = make(map[string]int)
		}
		facets[key][value] = row.Count
	}

	return facets, nil
}

// GetByID retrieves a single entry by its internal ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.IndexEntry, error) {
	var model IndexEntryModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting index entry by id: %w", err)
	}

	return model.ToDomain(), nil
}

// BulkUpsert creates or updates entries in batches.
func (r *Repository) BulkUpsert(ctx context.Context, entries []*domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]*IndexEntryModel, len(entries))
	for i, e := range entries {
		models[i] = FromDomain(e)
		models[i].UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"collection", "url", "collection_item_id", "title",
			"sort_field", "facet_pairs", "updated_at",
		}),
	}).CreateInBatches(models, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("bulk upserting index entries: %w", err)
	}

	for i, m := range models {
		entries[i].ID = m.ID
		entries[i].CreatedAt = m.CreatedAt
		entries[i].UpdatedAt = m.UpdatedAt
	}

	return nil
}

// DeleteStale removes the entries of a source whose external id is not in
// keep. An empty keep removes every entry of the source.
func (r *Repository) DeleteStale(ctx context.Context, sourceID string, keep []string) (int64, error) {
	q := r.db.WithContext(ctx).Where("source_id = ?", sourceID)
	if len(keep) > 0 {
		q = q.Where("external_id NOT IN ?", keep)
	}

	result := q.Delete(&IndexEntryModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting stale index entries: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Count returns the number of entries, of one collection when collection
// is not empty.
func (r *Repository) Count(ctx context.Context, collection string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&IndexEntryModel{})
	if collection != "" {
		q = q.Where("collection = ?", collection)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting index entries: %w", err)
	}

	return count, nil
}
