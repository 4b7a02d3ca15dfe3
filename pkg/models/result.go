package models

// FileMetadata describes the downloaded source artifact for a run,
// as supplied by the upstream fetcher.
type FileMetadata struct {
	Filename      string  `json:"filename"`
	FileHash      string  `json:"file_hash"`
	Size          int64   `json:"size"`
	DownloadTime  string  `json:"download_time"`
	ExtractedPath *string `json:"extracted_path,omitempty"`
}

// ProcessRequest is the body of POST /api/process.
type ProcessRequest struct {
	DataPath  string       `json:"data_path"`
	Metadata  FileMetadata `json:"metadata"`
	Timestamp string       `json:"timestamp"`
	Source    string       `json:"source"`
}

// ErrorDetail is one collected per-file or per-record failure.
// RecordID is nil for failures not attributable to a single record
// (unsupported format, whole-file parse failure).
type ErrorDetail struct {
	RecordID *string `json:"record_id"`
	Message  string  `json:"error"`
}

// Result is the aggregated outcome of one ingestion run.
type Result struct {
	RunID            string
	RecordsProcessed int
	RecordsFailed    int
	FeaturesCreated  int
	Errors           []ErrorDetail
}

// ProcessResponse is the success payload of POST /api/process.
// A run with individual record failures is still a successful run.
type ProcessResponse struct {
	Success                bool          `json:"success"`
	RecordsProcessed       int           `json:"records_processed"`
	RecordsFailed          int           `json:"records_failed"`
	ProcessingTimeSeconds  float64       `json:"processing_time_seconds"`
	GeoJSONFeaturesCreated int           `json:"geojson_features_created"`
	Errors                 []ErrorDetail `json:"errors"`
}

// ErrorResponse is the payload for fatal, run-aborting failures.
type ErrorResponse struct {
	Success bool    `json:"success"`
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
}
