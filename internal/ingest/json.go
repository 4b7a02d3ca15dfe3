package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"cemeteryhub/pkg/models"
)

// JSONParser reads the structured export: a top-level object with a
// "records" list. Unlike the CSV parser it is strict: one malformed
// record fails the whole file.
type JSONParser struct{}

type jsonDocument struct {
	Records []jsonRecord `json:"records"`
}

type jsonRecord struct {
	RecordID           string           `json:"record_id"`
	DeceasedName       string           `json:"deceased_name"`
	DeceasedNameArabic *string          `json:"deceased_name_arabic"`
	DeathDate          string           `json:"death_date"`
	BurialDate         string           `json:"burial_date"`
	BurialLocation     string           `json:"burial_location"`
	Coordinates        *jsonCoordinates `json:"coordinates"`
	Location           *jsonLocation    `json:"location"`
}

type jsonCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type jsonLocation struct {
	Section *string `json:"section"`
	Row     *int    `json:"row"`
	Plot    *int    `json:"plot"`
}

// missingField names the first absent required field, or "" when all
// are present. Records missing any of these must reject the whole file,
// not fall through to per-record validation.
func (jr *jsonRecord) missingField() string {
	switch {
	case jr.RecordID == "":
		return "record_id"
	case jr.DeceasedName == "":
		return "deceased_name"
	case jr.DeathDate == "":
		return "death_date"
	case jr.BurialDate == "":
		return "burial_date"
	case jr.BurialLocation == "":
		return "burial_location"
	}
	return ""
}

func (p *JSONParser) Name() string { return "json" }

func (p *JSONParser) Parse(data []byte) ([]models.BurialRecord, []Warning, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, &ParseError{Format: "json", Err: err}
	}

	records := make([]models.BurialRecord, 0, len(doc.Records))
	for _, jr := range doc.Records {
		if f := jr.missingField(); f != "" {
			return nil, nil, &ParseError{Format: "json", Err: fmt.Errorf("record %q: missing required field %s", jr.RecordID, f)}
		}
		deathDate, err := time.Parse(models.DateLayout, jr.DeathDate)
		if err != nil {
			return nil, nil, &ParseError{Format: "json", Err: fmt.Errorf("record %s: parse death_date: %w", jr.RecordID, err)}
		}
		burialDate, err := time.Parse(models.DateLayout, jr.BurialDate)
		if err != nil {
			return nil, nil, &ParseError{Format: "json", Err: fmt.Errorf("record %s: parse burial_date: %w", jr.RecordID, err)}
		}

		rec := models.BurialRecord{
			RecordID:           jr.RecordID,
			DeceasedName:       jr.DeceasedName,
			DeceasedNameArabic: jr.DeceasedNameArabic,
			DeathDate:          deathDate,
			BurialDate:         burialDate,
			BurialLocation:     jr.BurialLocation,
		}
		if jr.Coordinates != nil {
			lat, lon := jr.Coordinates.Latitude, jr.Coordinates.Longitude
			rec.Latitude = &lat
			rec.Longitude = &lon
		}
		if jr.Location != nil {
			rec.Section = jr.Location.Section
			rec.RowNumber = jr.Location.Row
			rec.PlotNumber = jr.Location.Plot
		}
		records = append(records, rec)
	}

	return records, nil, nil
}
