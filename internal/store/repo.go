package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"cemeteryhub/pkg/models"
)

// Repo owns all writes of the ingestion pipeline: record upserts, the
// derived feature collection, and the processing audit log. It holds a
// reference to the shared pool; it never opens connections of its own.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// ProcessingLogEntry is one immutable row of the audit trail,
// one per ingestion run.
type ProcessingLogEntry struct {
	RunID            string
	Filename         string
	FileHash         string
	FileSize         int64
	RecordsTotal     int
	RecordsProcessed int
	RecordsFailed    int
	Status           string
	ErrorMessage     *string
}

// UpsertRecord inserts a record keyed by its external record_id. On
// conflict only deceased_name, burial_date, coordinates, status and
// updated_at change; every other field keeps its first-upsert value.
func (r *Repo) UpsertRecord(ctx context.Context, rec *models.BurialRecord, sourceFile string) (int64, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO deceased_records (
			record_id, deceased_name, deceased_name_arabic,
			father_name, grandfather_name,
			death_date, death_location, burial_date, burial_location,
			section, row_number, plot_number, grave_number,
			coordinates,
			age_at_death, cause_of_death, national_id, family_contact,
			additional_data, source_file, processing_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			ST_GeomFromText($14, 4326),
			$15, $16, $17, $18, $19, $20, $21
		)
		ON CONFLICT (record_id) DO UPDATE SET
			deceased_name = EXCLUDED.deceased_name,
			burial_date = EXCLUDED.burial_date,
			coordinates = EXCLUDED.coordinates,
			updated_at = CURRENT_TIMESTAMP,
			processing_status = EXCLUDED.processing_status
		RETURNING id
	`,
		rec.RecordID,
		rec.DeceasedName,
		rec.DeceasedNameArabic,
		rec.FatherName,
		rec.GrandfatherName,
		rec.DeathDate,
		rec.DeathLocation,
		rec.BurialDate,
		rec.BurialLocation,
		rec.Section,
		rec.RowNumber,
		rec.PlotNumber,
		rec.GraveNumber,
		pointWKT(rec),
		rec.AgeAtDeath,
		rec.CauseOfDeath,
		rec.NationalID,
		rec.FamilyContact,
		nullJSON(rec.AdditionalData),
		sourceFile,
		"completed",
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert record %s: %w", rec.RecordID, err)
	}
	return id, nil
}

// UpsertBatch persists records one by one. It never fails wholesale: a
// record that cannot be persisted is collected and skipped, records
// already written stay written.
func (r *Repo) UpsertBatch(ctx context.Context, recs []models.BurialRecord, sourceFile string) (int, []models.ErrorDetail) {
	var (
		inserted int
		failures []models.ErrorDetail
	)

	for i := range recs {
		rec := &recs[i]
		if _, err := r.UpsertRecord(ctx, rec, sourceFile); err != nil {
			log.Printf("[store] failed to upsert record %s: %v", rec.RecordID, err)
			id := rec.RecordID
			failures = append(failures, models.ErrorDetail{RecordID: &id, Message: err.Error()})
			continue
		}
		inserted++
	}

	log.Printf("[store] upserted %d/%d records from %s", inserted, len(recs), sourceFile)
	return inserted, failures
}

// RebuildFeatures replaces the derived feature collection wholesale
// from the completed records that carry a geometry. Delete and
// repopulate run in one transaction so readers never observe a
// half-empty collection.
func (r *Repo) RebuildFeatures(ctx context.Context) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cemetery_features`); err != nil {
		return 0, fmt.Errorf("clear features: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO cemetery_features (feature_id, geometry, properties)
		SELECT
			record_id,
			coordinates,
			jsonb_build_object(
				'record_id', record_id,
				'name', deceased_name,
				'burial_date', burial_date::text,
				'burial_location', burial_location,
				'section', section,
				'row', row_number,
				'plot', plot_number
			)
		FROM deceased_records
		WHERE coordinates IS NOT NULL
			AND processing_status = 'completed'
	`)
	if err != nil {
		return 0, fmt.Errorf("repopulate features: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild tx: %w", err)
	}
	return int(n), nil
}

// LogProcessing appends one audit row. The log is the only durable
// trace of an ingestion attempt, so a write failure is returned to the
// caller rather than swallowed.
func (r *Repo) LogProcessing(ctx context.Context, entry ProcessingLogEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO file_processing_log (
			run_id, filename, file_hash, file_size,
			records_total, records_processed, records_failed,
			status, error_message, processing_end_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
	`,
		entry.RunID,
		entry.Filename,
		entry.FileHash,
		entry.FileSize,
		entry.RecordsTotal,
		entry.RecordsProcessed,
		entry.RecordsFailed,
		entry.Status,
		entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append processing log: %w", err)
	}
	return nil
}

// pointWKT encodes coordinates as WKT for ST_GeomFromText, longitude
// first. Records without coordinates store a NULL geometry.
func pointWKT(rec *models.BurialRecord) *string {
	if !rec.HasCoordinates() {
		return nil
	}
	wkt := fmt.Sprintf("POINT(%v %v)", *rec.Longitude, *rec.Latitude)
	return &wkt
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
