package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	writeFileAt(t, path, content)
	return path
}

func writeFileAt(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestDefaultDataset(t *testing.T) {
	ds := Default()
	if err := ds.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if got, want := ds.Capacities, []int{3, 6, 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("Capacities = %v, want %v", got, want)
	}
	if got := len(ds.Relationships["Han Wu"]); got != 5 {
		t.Errorf("len(Relationships[Han Wu]) = %d, want 5", got)
	}
	// Mutating one copy must not leak into the next.
	ds.Relationships["Han Wu"] = nil
	if got := len(Default().Relationships["Han Wu"]); got != 5 {
		t.Errorf("after mutation, len(Relationships[Han Wu]) = %d, want 5", got)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "table.json", `{
		"name": "demo",
		"capacities": [2, 3],
		"relationships": {"Alpha": ["Bravo"], "Charlie": []}
	}`)

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ds.Name != "demo" {
		t.Errorf("Name = %q, want %q", ds.Name, "demo")
	}
	if got, want := ds.Capacities, []int{2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Capacities = %v, want %v", got, want)
	}
	if got, want := ds.Relationships["Alpha"], []string{"Bravo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Relationships[Alpha] = %v, want %v", got, want)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "table.yaml", `
capacities: [3, 6, 6]
relationships:
  Alpha: [Bravo, Charlie]
  Bravo: [Alpha]
`)

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ds.Name != "table" {
		t.Errorf("Name = %q, want fallback %q", ds.Name, "table")
	}
	if got, want := ds.Relationships["Alpha"], []string{"Bravo", "Charlie"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Relationships[Alpha] = %v, want %v", got, want)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")

	f := excelize.NewFile()
	for _, sheet := range []string{sheetRelationships, sheetCapacities} {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet(%s): %v", sheet, err)
		}
	}
	rows := [][]any{
		{"name", "related"},
		{"Alpha", "Bravo", "Charlie"},
		{"Bravo", "Delta"},
		{"", "ignored"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheetRelationships, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	caps := []any{2, 3}
	if err := f.SetSheetRow(sheetCapacities, "A1", &caps); err != nil {
		t.Fatalf("SetSheetRow(capacities): %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := ds.Relationships["Alpha"], []string{"Bravo", "Charlie"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Relationships[Alpha] = %v, want %v", got, want)
	}
	if got, want := ds.Relationships["Bravo"], []string{"Delta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Relationships[Bravo] = %v, want %v", got, want)
	}
	if _, ok := ds.Relationships["name"]; ok {
		t.Error("header row leaked into relationships")
	}
	if got, want := ds.Capacities, []int{2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Capacities = %v, want %v", got, want)
	}
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	if _, err := Load("table.toml"); err == nil {
		t.Fatal("Load(.toml) = nil error, want unsupported format")
	}
}

func TestLoadRejectsInvalidDataset(t *testing.T) {
	path := writeFile(t, "bad.json", `{"capacities": [0], "relationships": {"A": []}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load() = nil error, want capacity validation failure")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ds      Dataset
		wantErr bool
	}{
		{"ok", Dataset{Capacities: []int{3}, Relationships: map[string][]string{"A": nil}}, false},
		{"no capacities ok", Dataset{Relationships: map[string][]string{"A": nil}}, false},
		{"empty relationships", Dataset{Capacities: []int{3}}, true},
		{"zero capacity", Dataset{Capacities: []int{3, 0}, Relationships: map[string][]string{"A": nil}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ds.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
