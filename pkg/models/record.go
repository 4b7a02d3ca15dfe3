package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the only date format accepted from source files.
const DateLayout = "2006-01-02"

// BurialRecord is the normalized, internal form of one burial record.
//
// All source file formats are mapped into this structure first,
// then we validate and write to the DB from this representation.
type BurialRecord struct {
	RecordID           string  `json:"record_id"`
	DeceasedName       string  `json:"deceased_name"`
	DeceasedNameArabic *string `json:"deceased_name_arabic,omitempty"`
	FatherName         *string `json:"father_name,omitempty"`
	GrandfatherName    *string `json:"grandfather_name,omitempty"`

	DeathDate      time.Time `json:"death_date"`
	DeathLocation  *string   `json:"death_location,omitempty"`
	BurialDate     time.Time `json:"burial_date"`
	BurialLocation string    `json:"burial_location"`

	// Cemetery location
	Section     *string `json:"section,omitempty"`
	RowNumber   *int    `json:"row_number,omitempty"`
	PlotNumber  *int    `json:"plot_number,omitempty"`
	GraveNumber *string `json:"grave_number,omitempty"`

	// Coordinates (WGS84)
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Additional info
	AgeAtDeath    *int    `json:"age_at_death,omitempty"`
	CauseOfDeath  *string `json:"cause_of_death,omitempty"`
	NationalID    *string `json:"national_id,omitempty"`
	FamilyContact *string `json:"family_contact,omitempty"`

	AdditionalData json.RawMessage `json:"additional_data,omitempty"`
}

// Validation error kinds.
const (
	KindMissingField    = "missing_field"
	KindDateOrder       = "date_order"
	KindCoordinateRange = "coordinate_range"
)

// ValidationError reports why a record failed validation.
type ValidationError struct {
	Kind     string
	RecordID string
	Reason   string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validate checks the record against the canonical rules. It is pure:
// the record is never mutated, and checks run in a fixed order,
// stopping at the first failure.
func (r *BurialRecord) Validate() error {
	if r.RecordID == "" {
		return &ValidationError{Kind: KindMissingField, RecordID: r.RecordID, Reason: "record_id is required"}
	}
	if r.DeceasedName == "" {
		return &ValidationError{Kind: KindMissingField, RecordID: r.RecordID, Reason: "deceased_name is required"}
	}
	if r.BurialLocation == "" {
		return &ValidationError{Kind: KindMissingField, RecordID: r.RecordID, Reason: "burial_location is required"}
	}
	if r.BurialDate.Before(r.DeathDate) {
		return &ValidationError{Kind: KindDateOrder, RecordID: r.RecordID, Reason: "burial_date cannot be before death_date"}
	}
	if r.HasCoordinates() {
		if *r.Latitude < -90.0 || *r.Latitude > 90.0 {
			return &ValidationError{Kind: KindCoordinateRange, RecordID: r.RecordID, Reason: "invalid latitude"}
		}
		if *r.Longitude < -180.0 || *r.Longitude > 180.0 {
			return &ValidationError{Kind: KindCoordinateRange, RecordID: r.RecordID, Reason: "invalid longitude"}
		}
	}
	return nil
}

// HasCoordinates reports whether both latitude and longitude are set.
func (r *BurialRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// ToFeature projects the record into a GeoJSON point feature.
// Records without coordinates have no spatial representation; nil is
// returned for those.
func (r *BurialRecord) ToFeature() *Feature {
	if !r.HasCoordinates() {
		return nil
	}

	props := map[string]any{
		"record_id":       r.RecordID,
		"name":            r.DeceasedName,
		"burial_date":     r.BurialDate.Format(DateLayout),
		"burial_location": r.BurialLocation,
	}
	if r.Section != nil {
		props["section"] = *r.Section
	}
	if r.RowNumber != nil {
		props["row"] = *r.RowNumber
	}
	if r.PlotNumber != nil {
		props["plot"] = *r.PlotNumber
	}

	return &Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type: "Point",
			// GeoJSON ordering: longitude first
			Coordinates: []float64{*r.Longitude, *r.Latitude},
		},
		Properties: props,
	}
}
