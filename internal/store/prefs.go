// Package store persists per-view UI preferences in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rotisserie/eris"

	"github.com/theirongolddev/optiview/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a view has no stored preferences.
var ErrNotFound = errors.New("view prefs not found")

// ErrInvalidView is returned for view names outside [a-z0-9-]{1,64}.
var ErrInvalidView = errors.New("invalid view name")

var viewName = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

// ValidView reports whether name is an acceptable view key.
func ValidView(name string) bool {
	return viewName.MatchString(name)
}

// Store is a SQLite-backed preference store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the preference database at the given path.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, eris.Wrap(err, "creating store dir")
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrap(err, "opening prefs db")
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "creating schema")
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadPrefs returns the stored preferences for view.
func (s *Store) LoadPrefs(view string) (model.ViewPrefs, error) {
	if !ValidView(view) {
		return model.ViewPrefs{}, eris.Wrapf(ErrInvalidView, "%q", view)
	}

	var payload, updated string
	err := s.db.QueryRow("SELECT payload, updated_at FROM view_prefs WHERE view = ?", view).
		Scan(&payload, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ViewPrefs{}, eris.Wrapf(ErrNotFound, "view %q", view)
	}
	if err != nil {
		return model.ViewPrefs{}, eris.Wrapf(err, "loading prefs for %q", view)
	}

	var p model.ViewPrefs
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return model.ViewPrefs{}, eris.Wrapf(err, "decoding prefs for %q", view)
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return p, nil
}

// SavePrefs replaces the stored preferences for view and returns them with
// UpdatedAt set.
func (s *Store) SavePrefs(view string, p model.ViewPrefs) (model.ViewPrefs, error) {
	if !ValidView(view) {
		return model.ViewPrefs{}, eris.Wrapf(ErrInvalidView, "%q", view)
	}

	p.UpdatedAt = s.now().UTC()
	payload, err := json.Marshal(p)
	if err != nil {
		return model.ViewPrefs{}, eris.Wrap(err, "encoding prefs")
	}

	_, err = s.db.Exec(`INSERT INTO view_prefs (view, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(view) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		view, string(payload), p.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return model.ViewPrefs{}, eris.Wrapf(err, "saving prefs for %q", view)
	}
	return p, nil
}

// DeletePrefs removes a view's preferences. Deleting an absent view
// returns ErrNotFound.
func (s *Store) DeletePrefs(view string) error {
	if !ValidView(view) {
		return eris.Wrapf(ErrInvalidView, "%q", view)
	}

	res, err := s.db.Exec("DELETE FROM view_prefs WHERE view = ?", view)
	if err != nil {
		return eris.Wrapf(err, "deleting prefs for %q", view)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Wrapf(ErrNotFound, "view %q", view)
	}
	return nil
}

// ListViews returns every view with stored preferences, alphabetically.
func (s *Store) ListViews() ([]string, error) {
	rows, err := s.db.Query("SELECT view FROM view_prefs ORDER BY view")
	if err != nil {
		return nil, eris.Wrap(err, "listing views")
	}
	defer func() { _ = rows.Close() }()

	var views []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrap(err, "scanning view")
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
