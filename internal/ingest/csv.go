package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/hatch-crm/mlsdraft/internal/draft"
	"github.com/hatch-crm/mlsdraft/internal/schema"
)

// CSVLoader handles .csv and .tsv spreadsheet exports.
type CSVLoader struct{}

// CanHandle returns true for CSV/TSV file extensions.
func (l *CSVLoader) CanHandle(path string) bool {
	ext := extOf(path)
	return ext == ".csv" || ext == ".tsv"
}

// Load parses a spreadsheet into one extraction per row. The first row is
// the header; recognized columns are label, value, section, bold, and
// uppercase (label and value are required, spelling is case-insensitive).
// Rows with an empty label are skipped.
func (l *CSVLoader) Load(path string) (draft.Input, error) {
	var in draft.Input
	in.Source.IngestionType = "spreadsheet"

	f, err := os.Open(path)
	if err != nil {
		return in, fmt.Errorf("reading batch: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if extOf(path) == ".tsv" {
		reader.Comma = '\t'
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return in, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) < 2 {
		return in, fmt.Errorf("%s: need a header row and at least one data row", path)
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	labelCol, ok := cols["label"]
	if !ok {
		return in, fmt.Errorf("%s: missing required column %q", path, "label")
	}
	valueCol, ok := cols["value"]
	if !ok {
		return in, fmt.Errorf("%s: missing required column %q", path, "value")
	}

	cell := func(row []string, idx int, ok bool) string {
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	sectionCol, hasSection := cols["section"]
	boldCol, hasBold := cols["bold"]
	upperCol, hasUpper := cols["uppercase"]

	for _, row := range records[1:] {
		label := cell(row, labelCol, true)
		if label == "" {
			continue
		}
		ex := schema.ExtractedLabelValue{
			Label:     label,
			Value:     cell(row, valueCol, true),
			Section:   cell(row, sectionCol, hasSection),
			Bold:      truthy(cell(row, boldCol, hasBold)),
			Uppercase: truthy(cell(row, upperCol, hasUpper)),
		}
		in.Extractions = append(in.Extractions, ex)
	}
	return in, nil
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
