package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadNames extracts candidate name tokens from a file. Plain text splits
// on commas and line breaks, CSV files are flattened cell by cell, and PDFs
// go through text extraction first. Tokens are trimmed and blanks dropped;
// matching them against a registry is the caller's job.
func ReadNames(path string) ([]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading names file: %w", err)
		}
		return splitNames(string(data)), nil
	case ".csv":
		return readCSVNames(path)
	case ".pdf":
		return readPDFNames(path)
	default:
		return nil, fmt.Errorf("dataset: unsupported names format %q", ext)
	}
}

func splitNames(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	var names []string
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			names = append(names, field)
		}
	}
	return names
}

func readCSVNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening names file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV names: %w", err)
	}
	var names []string
	for _, record := range records {
		for _, cell := range record {
			if cell = strings.TrimSpace(cell); cell != "" {
				names = append(names, cell)
			}
		}
	}
	return names, nil
}

func readPDFNames(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail extraction rather than losing the rest.
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}
	return splitNames(text.String()), nil
}
