package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cemeteryhub/pkg/models"
)

// Repo is the read side of the store: lookups for clients and the
// derived feature collection for maps. It never writes.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Record is the persisted projection returned by lookups.
type Record struct {
	ID               int64    `json:"id"`
	RecordID         string   `json:"record_id"`
	DeceasedName     string   `json:"deceased_name"`
	BurialDate       string   `json:"burial_date"`
	BurialLocation   string   `json:"burial_location"`
	Section          *string  `json:"section,omitempty"`
	RowNumber        *int     `json:"row_number,omitempty"`
	PlotNumber       *int     `json:"plot_number,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	ProcessingStatus string   `json:"processing_status"`
}

// GetByRecordID returns one record by its external identity, or nil
// when no such record exists.
func (r *Repo) GetByRecordID(ctx context.Context, recordID string) (*Record, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, record_id, deceased_name, burial_date, burial_location,
		       section, row_number, plot_number,
		       ST_Y(coordinates), ST_X(coordinates),
		       processing_status
		FROM deceased_records
		WHERE record_id = $1
	`, recordID)

	var (
		rec        Record
		burialDate time.Time
		section    sql.NullString
		rowNum     sql.NullInt64
		plotNum    sql.NullInt64
		lat, lon   sql.NullFloat64
	)

	if err := row.Scan(
		&rec.ID, &rec.RecordID, &rec.DeceasedName, &burialDate, &rec.BurialLocation,
		&section, &rowNum, &plotNum, &lat, &lon, &rec.ProcessingStatus,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan record %s: %w", recordID, err)
	}

	rec.BurialDate = burialDate.Format(models.DateLayout)
	if section.Valid {
		rec.Section = &section.String
	}
	if rowNum.Valid {
		n := int(rowNum.Int64)
		rec.RowNumber = &n
	}
	if plotNum.Valid {
		n := int(plotNum.Int64)
		rec.PlotNumber = &n
	}
	if lat.Valid {
		rec.Latitude = &lat.Float64
	}
	if lon.Valid {
		rec.Longitude = &lon.Float64
	}
	return &rec, nil
}

// FeatureCollection reads the derived feature table into a GeoJSON
// collection for mapping clients.
func (r *Repo) FeatureCollection(ctx context.Context) (models.FeatureCollection, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ST_X(geometry), ST_Y(geometry), properties
		FROM cemetery_features
		ORDER BY feature_id
	`)
	if err != nil {
		return models.FeatureCollection{}, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var features []models.Feature
	for rows.Next() {
		var (
			lon, lat  float64
			propsJSON []byte
		)
		if err := rows.Scan(&lon, &lat, &propsJSON); err != nil {
			return models.FeatureCollection{}, fmt.Errorf("scan feature: %w", err)
		}

		props := map[string]any{}
		if err := json.Unmarshal(propsJSON, &props); err != nil {
			return models.FeatureCollection{}, fmt.Errorf("decode feature properties: %w", err)
		}

		features = append(features, models.Feature{
			Type: "Feature",
			Geometry: models.Geometry{
				Type:        "Point",
				Coordinates: []float64{lon, lat},
			},
			Properties: props,
		})
	}
	if err := rows.Err(); err != nil {
		return models.FeatureCollection{}, fmt.Errorf("rows err: %w", err)
	}

	return models.NewFeatureCollection(features), nil
}
