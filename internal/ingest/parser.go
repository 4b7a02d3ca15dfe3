package ingest

import (
	"fmt"

	"cemeteryhub/pkg/models"
)

// Parser is implemented by each supported source file format.
// A parser maps raw file bytes into canonical burial records. Row-level
// problems a parser can recover from are reported as warnings; an error
// means the whole file is unusable.
type Parser interface {
	Name() string
	Parse(data []byte) ([]models.BurialRecord, []Warning, error)
}

// Warning reports one skipped row during tolerant parsing.
type Warning struct {
	Line     int
	RecordID string
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}
