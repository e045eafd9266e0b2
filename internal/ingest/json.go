package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hatch-crm/mlsdraft/internal/draft"
)

// JSONLoader handles .json batch files carrying a full build input.
type JSONLoader struct{}

// CanHandle returns true for the .json extension.
func (l *JSONLoader) CanHandle(path string) bool {
	return extOf(path) == ".json"
}

// Load parses the file as a draft.Input document.
func (l *JSONLoader) Load(path string) (draft.Input, error) {
	var in draft.Input
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("reading batch: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parsing batch %s: %w", path, err)
	}
	return in, nil
}
