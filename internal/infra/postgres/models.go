package postgres

import (
	"time"

	"github.com/lib/pq"

	"collection-filter-service/internal/domain"
)

// IndexEntryModel is the GORM model for the index_entries table.
type IndexEntryModel struct {
	ID               string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceID         string `gorm:"type:varchar(50);not null;index:uq_index_entries_source_external,unique"`
	ExternalID       string `gorm:"type:varchar(200);not null;index:uq_index_entries_source_external,unique"`
	Collection       string `gorm:"type:varchar(100);not null;index"`
	URL              string `gorm:"type:varchar(1000);not null"`
	CollectionItemID string `gorm:"type:varchar(300);not null"`
	Title            string `gorm:"type:varchar(500);not null;default:''"`
	SortField        string `gorm:"type:varchar(40);not null;default:''"`

	// FacetPairs holds "<facetKey>=<value>" pairs.
	FacetPairs pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for IndexEntryModel.
func (IndexEntryModel) TableName() string {
	return "index_entries"
}

// ToDomain converts IndexEntryModel to domain.IndexEntry.
func (m *IndexEntryModel) ToDomain() *domain.IndexEntry {
	return &domain.IndexEntry{
		ID:               m.ID,
		SourceID:         m.SourceID,
		ExternalID:       m.ExternalID,
		Collection:       m.Collection,
		URL:              m.URL,
		CollectionItemID: m.CollectionItemID,
		Title:            m.Title,
		SortField:        m.SortField,
		Filters:          domain.PairsToFilters(m.FacetPairs),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain creates an IndexEntryModel from domain.IndexEntry.
func FromDomain(e *domain.IndexEntry) *IndexEntryModel {
	pairs := e.FacetPairs()
	if pairs == nil {
		pairs = []string{}
	}

	return &IndexEntryModel{
		ID:               e.ID,
		SourceID:         e.SourceID,
		ExternalID:       e.ExternalID,
		Collection:       e.Collection,
		URL:              e.URL,
		CollectionItemID: e.CollectionItemID,
		Title:            e.Title,
		SortField:        e.SortField,
		FacetPairs:       pairs,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
