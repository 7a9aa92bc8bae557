package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createIndexEntriesTable creates the facet index table.
func createIndexEntriesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_index_entries",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS index_entries (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					source_id VARCHAR(50) NOT NULL,
					external_id VARCHAR(200) NOT NULL,
					collection VARCHAR(100) NOT NULL,
					url VARCHAR(1000) NOT NULL,
					collection_item_id VARCHAR(300) NOT NULL,
					title VARCHAR(500) NOT NULL DEFAULT '',
					sort_field VARCHAR(40) NOT NULL DEFAULT '',
					facet_pairs TEXT[] NOT NULL DEFAULT '{}',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_index_entries_source_external UNIQUE (source_id, external_id)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_index_entries_collection ON index_entries(collection);",
				"CREATE INDEX IF NOT EXISTS idx_index_entries_sort_field ON index_entries(sort_field DESC);",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS index_entries;").Error
		},
	}
}
