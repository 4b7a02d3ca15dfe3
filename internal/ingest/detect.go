package ingest

import (
	"path/filepath"
	"strings"
)

// DetectParser picks a parser strategy from the file extension
// (case-insensitive). Unknown or absent extensions are rejected;
// content sniffing is deliberately not done.
func DetectParser(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return &CSVParser{}, nil
	case ".json":
		return &JSONParser{}, nil
	default:
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}
}
