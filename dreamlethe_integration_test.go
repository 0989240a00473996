//go:build cgo

package dreamlethe

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mickey530447/dream-and-lethe/roster"
)

// Exercises the server's composition end to end: spellings resolved to
// canonical names, stored per user in SQLite, then fed to an assignment run.
func TestRosterFedAssign(t *testing.T) {
	eng, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer eng.Close()

	store, err := roster.New(filepath.Join(t.TempDir(), "rosters.db"))
	if err != nil {
		t.Fatalf("roster.New() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	const user = "u1"
	for _, raw := range []string{"libai", "dufu", "han wu", "weiqing", "qubing"} {
		name, ok := eng.Resolve(raw)
		if !ok {
			t.Fatalf("Resolve(%q) failed", raw)
		}
		if err := store.Add(ctx, user, name); err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}

	names, err := store.List(ctx, user)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	res, err := eng.Assign(ctx, names, WithSeed(3))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if len(res.Unknown) != 0 {
		t.Errorf("Unknown = %v, want none", res.Unknown)
	}
	if got := len(assigned(res)); got != 5 {
		t.Errorf("assigned %d names, want 5", got)
	}
	// Libai/Dufu and the Han Wu trio are related pairs the optimizer should
	// keep together.
	if res.Score < 2 {
		t.Errorf("Score = %d, want at least 2", res.Score)
	}
}
