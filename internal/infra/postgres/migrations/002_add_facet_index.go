package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addFacetIndex adds a GIN index on facet_pairs so containment queries
// (facet_pairs @> '{events_tag=CENSUS}') avoid a sequential scan.
func addFacetIndex() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_add_facet_index",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_index_entries_facet_pairs
				ON index_entries USING GIN (facet_pairs)
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP INDEX IF EXISTS idx_index_entries_facet_pairs`).Error
		},
	}
}
