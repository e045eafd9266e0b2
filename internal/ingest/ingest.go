// Package ingest loads extraction batches from files.
//
// Each supported format (JSON, CSV, TSV) has its own loader that
// implements the Loader interface. LoadBatch auto-detects the format by
// file extension and dispatches to the correct parser, so the CLI and
// callers never branch on file type themselves.
//
// JSON files carry a full draft.Input including the remarks and media
// side channels. CSV/TSV files are the spreadsheet form: one label/value
// row per extraction, with optional section and emphasis columns.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hatch-crm/mlsdraft/internal/draft"
)

// Loader parses one file format into a build input.
type Loader interface {
	// CanHandle reports whether this loader recognizes the file path.
	CanHandle(path string) bool
	// Load parses the file into a build input.
	Load(path string) (draft.Input, error)
}

// loaders is the fixed dispatch table, checked in order.
var loaders = []Loader{
	&JSONLoader{},
	&CSVLoader{},
}

// LoadBatch parses a batch file, picking the loader by file extension.
func LoadBatch(path string) (draft.Input, error) {
	for _, l := range loaders {
		if l.CanHandle(path) {
			return l.Load(path)
		}
	}
	return draft.Input{}, fmt.Errorf("unsupported batch format %q (want .json, .csv, or .tsv)", filepath.Ext(path))
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
