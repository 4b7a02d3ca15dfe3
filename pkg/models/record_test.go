package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRecord() BurialRecord {
	return BurialRecord{
		RecordID:       "NJF-2024-001",
		DeceasedName:   "Ali Hassan",
		DeathDate:      date(2024, time.March, 10),
		BurialDate:     date(2024, time.March, 11),
		BurialLocation: "Wadi Al-Salam",
	}
}

func TestValidate_Valid(t *testing.T) {
	rec := validRecord()
	assert.NoError(t, rec.Validate())
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BurialRecord)
		reason string
	}{
		{"record_id", func(r *BurialRecord) { r.RecordID = "" }, "record_id is required"},
		{"deceased_name", func(r *BurialRecord) { r.DeceasedName = "" }, "deceased_name is required"},
		{"burial_location", func(r *BurialRecord) { r.BurialLocation = "" }, "burial_location is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)

			err := rec.Validate()
			require.Error(t, err)

			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, KindMissingField, verr.Kind)
			assert.Equal(t, tc.reason, verr.Reason)
		})
	}
}

func TestValidate_DateOrder(t *testing.T) {
	rec := validRecord()
	rec.DeathDate = date(2024, time.March, 10)
	rec.BurialDate = date(2024, time.March, 10)
	assert.NoError(t, rec.Validate(), "same-day burial is valid")

	rec.BurialDate = date(2024, time.March, 9)
	err := rec.Validate()
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, KindDateOrder, verr.Kind)
	assert.Equal(t, rec.RecordID, verr.RecordID)
}

func TestValidate_CoordinateBounds(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		ok       bool
	}{
		{"lat upper bound", 90.0, 44.3, true},
		{"lat over upper bound", 90.0001, 44.3, false},
		{"lat lower bound", -90.0, 44.3, true},
		{"lon upper bound", 32.0, 180.0, true},
		{"lon over upper bound", 32.0, 180.0001, false},
		{"lon lower bound", 32.0, -180.0, true},
		{"lon under lower bound", 32.0, -180.0001, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			rec.Latitude = ptr(tc.lat)
			rec.Longitude = ptr(tc.lon)

			err := rec.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, KindCoordinateRange, verr.Kind)
		})
	}
}

func TestValidate_NoCoordinatesIsValid(t *testing.T) {
	rec := validRecord()
	rec.Latitude = nil
	rec.Longitude = nil
	assert.NoError(t, rec.Validate())
}

func TestHasCoordinates(t *testing.T) {
	rec := validRecord()
	assert.False(t, rec.HasCoordinates())

	rec.Latitude = ptr(32.0)
	assert.False(t, rec.HasCoordinates(), "latitude alone is not enough")

	rec.Longitude = ptr(44.3)
	assert.True(t, rec.HasCoordinates())
}

func TestToFeature_LongitudeFirst(t *testing.T) {
	rec := validRecord()
	rec.Latitude = ptr(32.0)
	rec.Longitude = ptr(44.3)

	f := rec.ToFeature()
	require.NotNil(t, f)
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{44.3, 32.0}, f.Geometry.Coordinates)

	assert.Equal(t, rec.RecordID, f.Properties["record_id"])
	assert.Equal(t, rec.DeceasedName, f.Properties["name"])
	assert.Equal(t, "2024-03-11", f.Properties["burial_date"])
	assert.Equal(t, rec.BurialLocation, f.Properties["burial_location"])
}

func TestToFeature_WithoutCoordinates(t *testing.T) {
	rec := validRecord()
	assert.Nil(t, rec.ToFeature())
}

func TestToFeature_OptionalProperties(t *testing.T) {
	rec := validRecord()
	rec.Latitude = ptr(32.0)
	rec.Longitude = ptr(44.3)

	f := rec.ToFeature()
	require.NotNil(t, f)
	assert.NotContains(t, f.Properties, "section")
	assert.NotContains(t, f.Properties, "row")
	assert.NotContains(t, f.Properties, "plot")

	rec.Section = ptr("B")
	rec.RowNumber = ptr(4)
	rec.PlotNumber = ptr(17)

	f = rec.ToFeature()
	require.NotNil(t, f)
	assert.Equal(t, "B", f.Properties["section"])
	assert.Equal(t, 4, f.Properties["row"])
	assert.Equal(t, 17, f.Properties["plot"])
}
