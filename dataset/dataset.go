// Package dataset defines the relationship tables the optimizer runs
// against: a built-in default plus loaders for JSON, YAML and XLSX files,
// candidate-name extraction from text, CSV and PDF files, and a file watcher
// for live table edits.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dataset is a named relationship table plus the group capacities used when
// partitioning it. Declarations are directed; the graph built from them is
// not.
type Dataset struct {
	Name          string              `json:"name" yaml:"name"`
	Capacities    []int               `json:"capacities" yaml:"capacities"`
	Relationships map[string][]string `json:"relationships" yaml:"relationships"`
}

// Load reads a dataset from path, picking the format from the extension:
// .json, .yaml, .yml or .xlsx.
func Load(path string) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		ds, err = loadJSON(path)
	case ".yaml", ".yml":
		ds, err = loadYAML(path)
	case ".xlsx":
		ds, err = loadXLSX(path)
	default:
		return nil, fmt.Errorf("dataset: unsupported format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func loadJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing JSON dataset: %w", err)
	}
	return &ds, nil
}

func loadYAML(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing YAML dataset: %w", err)
	}
	return &ds, nil
}

// Validate checks that the table can build a usable graph: at least one
// declaration, and positive capacities when the dataset carries any.
func (d *Dataset) Validate() error {
	if len(d.Relationships) == 0 {
		return errors.New("dataset: no relationship declarations")
	}
	for _, size := range d.Capacities {
		if size <= 0 {
			return fmt.Errorf("dataset: capacity %d is not positive", size)
		}
	}
	return nil
}
