package database

import (
	"database/sql"
	"fmt"
	"os"
)

// Migrate applies docs/schema.sql: the postgis extension plus the
// deceased_records, cemetery_features and file_processing_log tables.
// Every statement is idempotent, so running it on every startup is safe.
func Migrate(db *sql.DB) error {
	b, err := os.ReadFile("docs/schema.sql")
	if err != nil {
		return fmt.Errorf("read cemetery schema docs/schema.sql: %w", err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply cemetery schema: %w", err)
	}
	return nil
}
