//go:build cgo

package roster

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew(t *testing.T) {
	s := newTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil *sql.DB")
	}
}

func TestNewCreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", "dir")
	dbPath := filepath.Join(dir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store in nested dir: %v", err)
	}
	s.Close()
}

func TestAddAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Libai", "Dufu", "Yuhuan"} {
		if err := s.Add(ctx, "user1", name); err != nil {
			t.Fatalf("adding %q: %v", name, err)
		}
	}

	got, err := s.List(ctx, "user1")
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	// Insertion order is preserved.
	want := []string{"Libai", "Dufu", "Yuhuan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestAddDuplicateCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, "user1", "Libai"); err != nil {
		t.Fatalf("first add: %v", err)
	}

	err := s.Add(ctx, "user1", "libai")
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate add: got %v, want ErrDuplicateName", err)
	}

	// The same name on another user's roster is fine.
	if err := s.Add(ctx, "user2", "libai"); err != nil {
		t.Fatalf("add for other user: %v", err)
	}
}

func TestRemoveCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, "user1", "Libai"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Remove(ctx, "user1", "LIBAI"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	names, err := s.List(ctx, "user1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty roster after remove, got %v", names)
	}
}

func TestRemoveMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Remove(ctx, "user1", "Nobody")
	if !errors.Is(err, ErrNameNotFound) {
		t.Fatalf("remove missing: got %v, want ErrNameNotFound", err)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Libai", "Dufu"} {
		if err := s.Add(ctx, "user1", name); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	n, err := s.Clear(ctx, "user1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}

	// Clearing an already empty roster reports the sentinel.
	if _, err := s.Clear(ctx, "user1"); !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("second clear: got %v, want ErrEmptyRoster", err)
	}
}

func TestListIsolatesUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, "user1", "Libai"); err != nil {
		t.Fatalf("add user1: %v", err)
	}
	if err := s.Add(ctx, "user2", "Dufu"); err != nil {
		t.Fatalf("add user2: %v", err)
	}

	got, err := s.List(ctx, "user2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Dufu"}) {
		t.Errorf("List(user2) = %v, want [Dufu]", got)
	}
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for user, name := range map[string]string{"b": "Libai", "a": "Dufu", "c": "Mulan"} {
		if err := s.Add(ctx, user, name); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Users() = %v, want %v", got, want)
	}
}

func TestResetAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for user, name := range map[string]string{"a": "Libai", "b": "Dufu"} {
		if err := s.Add(ctx, user, name); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	n, err := s.ResetAll(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n != 2 {
		t.Errorf("ResetAll() = %d, want 2", n)
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("users after reset: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users after reset, got %v", users)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, "user1", "Libai"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(ctx, "user1", "Dufu"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(ctx, "user2", "Mulan"); err != nil {
		t.Fatalf("add: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Users != 2 {
		t.Errorf("Users = %d, want 2", stats.Users)
	}
	if stats.Names != 3 {
		t.Errorf("Names = %d, want 3", stats.Names)
	}
}
