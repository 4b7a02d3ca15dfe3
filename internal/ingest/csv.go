package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"cemeteryhub/pkg/models"
)

// Fixed column layout of the cemetery CSV export. Row 1 is a header and
// is skipped without inspection.
const (
	colRecordID = iota
	colName
	colNameArabic
	colDeathDate
	colBurialDate
	colBurialLocation
	colLatitude
	colLongitude
	colSection
	colRow
	colPlot
)

// CSVParser reads the delimited tabular export. It is tolerant: a row
// with a bad date or a structural read error is skipped with a warning
// and parsing continues with the next row.
type CSVParser struct{}

func (p *CSVParser) Name() string { return "csv" }

func (p *CSVParser) Parse(data []byte) ([]models.BurialRecord, []Warning, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	// header line, counted only
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, &ParseError{Format: "csv", Err: fmt.Errorf("read header: %w", err)}
	}

	var (
		records  []models.BurialRecord
		warnings []Warning
	)

	line := 1
	for {
		line++
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{Line: line, Message: err.Error()})
			continue
		}
		if len(row) == 0 {
			continue
		}

		rec, err := parseCSVRow(row)
		if err != nil {
			warnings = append(warnings, Warning{
				Line:     line,
				RecordID: field(row, colRecordID),
				Message:  err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}

	return records, warnings, nil
}

func parseCSVRow(row []string) (models.BurialRecord, error) {
	deathDate, err := time.Parse(models.DateLayout, field(row, colDeathDate))
	if err != nil {
		return models.BurialRecord{}, fmt.Errorf("parse death_date: %w", err)
	}
	burialDate, err := time.Parse(models.DateLayout, field(row, colBurialDate))
	if err != nil {
		return models.BurialRecord{}, fmt.Errorf("parse burial_date: %w", err)
	}

	return models.BurialRecord{
		RecordID:           field(row, colRecordID),
		DeceasedName:       field(row, colName),
		DeceasedNameArabic: optString(field(row, colNameArabic)),
		DeathDate:          deathDate,
		BurialDate:         burialDate,
		BurialLocation:     field(row, colBurialLocation),
		Latitude:           optFloat(field(row, colLatitude)),
		Longitude:          optFloat(field(row, colLongitude)),
		Section:            optString(field(row, colSection)),
		RowNumber:          optInt(field(row, colRow)),
		PlotNumber:         optInt(field(row, colPlot)),
	}, nil
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func optFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
