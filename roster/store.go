// Package roster persists per-user name rosters in SQLite so candidates
// survive restarts between assignment runs.
package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicateName is returned by Add when the roster already carries
	// the name, compared case-insensitively.
	ErrDuplicateName = errors.New("roster: name already on roster")

	// ErrNameNotFound is returned by Remove when no stored name matches.
	ErrNameNotFound = errors.New("roster: name not on roster")

	// ErrEmptyRoster is returned by Clear when the user has nothing stored.
	ErrEmptyRoster = errors.New("roster: roster is empty")
)

// Store wraps the SQLite database holding all rosters.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and prepares
// the roster schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	// Run pending migrations.
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// List returns the user's stored names in insertion order.
func (s *Store) List(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM rosters WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Add stores a name on the user's roster. The name column is declared
// COLLATE NOCASE, so "libai" and "Libai" count as the same entry.
func (s *Store) Add(ctx context.Context, userID, name string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM rosters WHERE user_id = ? AND name = ?",
			userID, name).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO rosters (user_id, name) VALUES (?, ?)", userID, name)
		return err
	})
}

// Remove deletes a stored name, matching case-insensitively.
func (s *Store) Remove(ctx context.Context, userID, name string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM rosters WHERE user_id = ? AND name = ?", userID, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNameNotFound
	}
	return nil
}

// Clear removes every name on the user's roster and reports how many were
// deleted.
func (s *Store) Clear(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM rosters WHERE user_id = ?", userID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrEmptyRoster
	}
	return int(affected), nil
}

// Users returns every user ID with at least one stored name.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT user_id FROM rosters ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// ResetAll wipes every roster and reports how many names were deleted.
// The weekly reset loop calls this on its schedule.
func (s *Store) ResetAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM rosters")
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Stats holds counts of stored rosters.
type Stats struct {
	Users int `json:"users"`
	Names int `json:"names"`
}

// Stats returns counts of distinct users and stored names.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(DISTINCT user_id) FROM rosters", &stats.Users},
		{"SELECT COUNT(*) FROM rosters", &stats.Names},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}
	return stats, nil
}

// --- helpers ---

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
