package cafes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the cafes.yaml dataset
type Loader struct {
	filePath string
}

// NewLoader creates a new dataset loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the dataset file
func (l *Loader) Load() (DatasetConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return DatasetConfig{}, fmt.Errorf("failed to read cafe file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a dataset document. Unknown fields are rejected so that a
// misspelled key does not silently drop opening hours.
func Parse(data []byte) (DatasetConfig, error) {
	var config DatasetConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return DatasetConfig{}, fmt.Errorf("failed to parse cafes yaml: %w", err)
	}

	return config, nil
}
