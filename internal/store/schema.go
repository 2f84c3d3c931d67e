package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS view_prefs (
    view                 TEXT PRIMARY KEY,
    payload              TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_view_prefs_updated ON view_prefs(updated_at);
`
