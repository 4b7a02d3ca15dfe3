package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"cemeteryhub/internal/store"
	"cemeteryhub/pkg/models"
)

// Store is the persistence surface the pipeline needs. *store.Repo is
// the production implementation.
type Store interface {
	UpsertBatch(ctx context.Context, recs []models.BurialRecord, sourceFile string) (int, []models.ErrorDetail)
	RebuildFeatures(ctx context.Context) (int, error)
	LogProcessing(ctx context.Context, entry store.ProcessingLogEntry) error
}

// Processor runs one ingestion pipeline: scan, parse, validate,
// persist, rebuild features, write the audit log. Per-file and
// per-record failures are collected and reported; only top-level path
// access, feature rebuild and audit log failures abort a run.
type Processor struct {
	Store Store
}

func NewProcessor(s Store) *Processor {
	return &Processor{Store: s}
}

// ProcessDirectory ingests every regular file found directly under
// path. The scan is not recursive. A file that cannot be parsed does
// not stop the remaining files; all parsed records are pooled into one
// batch.
func (p *Processor) ProcessDirectory(ctx context.Context, path string, meta models.FileMetadata) (*models.Result, error) {
	runID := uuid.NewString()
	log.Printf("[ingest] run %s: processing directory %s", runID, path)

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory does not exist or is not a directory: %s", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}

	var (
		records []models.BurialRecord
		errs    []models.ErrorDetail
	)

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		filePath := filepath.Join(path, entry.Name())
		recs, fileErrs := parseFile(filePath)
		records = append(records, recs...)
		errs = append(errs, fileErrs...)
	}

	log.Printf("[ingest] run %s: parsed %d records, %d errors", runID, len(records), len(errs))
	return p.finish(ctx, runID, records, errs, meta)
}

// ProcessSingleFile runs the same pipeline scoped to exactly one file.
func (p *Processor) ProcessSingleFile(ctx context.Context, path string, meta models.FileMetadata) (*models.Result, error) {
	runID := uuid.NewString()
	log.Printf("[ingest] run %s: processing file %s", runID, path)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("file does not exist or is not a file: %s", path)
	}

	records, errs := parseFile(path)
	log.Printf("[ingest] run %s: parsed %d records, %d errors", runID, len(records), len(errs))
	return p.finish(ctx, runID, records, errs, meta)
}

// parseFile detects the format and parses one file. All failures come
// back as collected error details; a file never aborts the run.
func parseFile(path string) ([]models.BurialRecord, []models.ErrorDetail) {
	parser, err := DetectParser(path)
	if err != nil {
		return nil, []models.ErrorDetail{{Message: err.Error()}}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []models.ErrorDetail{{Message: fmt.Sprintf("read file %s: %v", path, err)}}
	}

	records, warnings, err := parser.Parse(data)
	if err != nil {
		return nil, []models.ErrorDetail{{Message: fmt.Sprintf("failed to parse file %s: %v", path, err)}}
	}

	var errs []models.ErrorDetail
	for _, w := range warnings {
		log.Printf("[ingest] %s: skipped %s", filepath.Base(path), w)
		detail := models.ErrorDetail{Message: w.String()}
		if w.RecordID != "" {
			id := w.RecordID
			detail.RecordID = &id
		}
		errs = append(errs, detail)
	}
	return records, errs
}

// finish runs the stages shared by both entry points: validate,
// persist, materialize, audit.
func (p *Processor) finish(ctx context.Context, runID string, records []models.BurialRecord, errs []models.ErrorDetail, meta models.FileMetadata) (*models.Result, error) {
	valid := make([]models.BurialRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			log.Printf("[ingest] validation failed for record %s: %v", rec.RecordID, err)
			id := rec.RecordID
			errs = append(errs, models.ErrorDetail{RecordID: &id, Message: err.Error()})
			continue
		}
		valid = append(valid, *rec)
	}

	// total attempted = valid + invalid; a record that later fails
	// persistence is still one of the valid ones, not a second attempt
	totalAttempted := len(valid) + len(errs)

	inserted, upsertErrs := p.Store.UpsertBatch(ctx, valid, meta.Filename)
	errs = append(errs, upsertErrs...)

	featureCount, err := p.Store.RebuildFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuild features: %w", err)
	}

	if err := p.Store.LogProcessing(ctx, store.ProcessingLogEntry{
		RunID:            runID,
		Filename:         meta.Filename,
		FileHash:         meta.FileHash,
		FileSize:         meta.Size,
		RecordsTotal:     totalAttempted,
		RecordsProcessed: inserted,
		RecordsFailed:    len(errs),
		Status:           "completed",
	}); err != nil {
		return nil, err
	}

	log.Printf("[ingest] run %s: %d processed, %d failed, %d features", runID, inserted, len(errs), featureCount)

	return &models.Result{
		RunID:            runID,
		RecordsProcessed: inserted,
		RecordsFailed:    len(errs),
		FeaturesCreated:  featureCount,
		Errors:           errs,
	}, nil
}
