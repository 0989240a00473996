package roster

// schemaSQL is the DDL for the roster tables. The NOCASE collation on name
// makes uniqueness and lookups case-insensitive.
const schemaSQL = `
-- Per-user candidate rosters
CREATE TABLE IF NOT EXISTS rosters (
    id INTEGER PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL COLLATE NOCASE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(user_id, name)
);
`
