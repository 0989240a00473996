package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	sheetRelationships = "relationships"
	sheetCapacities    = "capacities"
)

// loadXLSX reads a workbook with a "relationships" sheet, one entity per
// row with its related names in the following cells, plus an optional
// "capacities" sheet whose first row lists the group sizes.
func loadXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetRelationships)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet: %w", sheetRelationships, err)
	}

	ds := &Dataset{Relationships: make(map[string][]string)}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || strings.EqualFold(name, "name") {
			continue
		}
		var related []string
		for _, cell := range row[1:] {
			if cell = strings.TrimSpace(cell); cell != "" {
				related = append(related, cell)
			}
		}
		ds.Relationships[name] = append(ds.Relationships[name], related...)
	}

	// The capacities sheet is optional; a missing sheet falls back to the
	// caller's configured sizes.
	if caps, err := f.GetRows(sheetCapacities); err == nil && len(caps) > 0 {
		for _, cell := range caps[0] {
			if cell = strings.TrimSpace(cell); cell == "" {
				continue
			}
			size, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("parsing capacity %q: %w", cell, err)
			}
			ds.Capacities = append(ds.Capacities, size)
		}
	}
	return ds, nil
}
