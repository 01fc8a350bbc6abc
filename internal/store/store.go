// Package store persists the phrase library, user settings and the LLM
// request log in a single SQLite file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	_ "modernc.org/sqlite"
)

// Every connection runs these on open.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// Store is an open database. Repositories it returns share its connection.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open opens (creating if needed) the database file at path and brings its
// tables up to date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer at a time; the library rewrites its table in a transaction.
	db.SetMaxOpenConns(1)

	drv := entsql.OpenDB(dialect.SQLite, db)
	m, err := schema.NewMigrate(drv)
	if err == nil {
		err = m.Create(context.Background(), Tables...)
	}
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{db: db, drv: drv}, nil
}

func dsn(path string) string {
	q := url.Values{"_pragma": pragmas}
	return path + "?" + q.Encode()
}

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) PhraseRepo() PhraseRepo     { return &phraseRepo{db: s.db} }
func (s *Store) SettingsRepo() SettingsRepo { return &settingsRepo{db: s.db} }
func (s *Store) EventRepo() EventRepo       { return &eventRepo{db: s.db} }

// pragma reads a single PRAGMA value.
func (s *Store) pragma(name string) (string, error) {
	var v string
	err := s.db.QueryRow("PRAGMA " + name).Scan(&v)
	return v, err
}

// DefaultPath is $XDG_DATA_HOME/speakup/speakup.db, falling back to
// ~/.local/share when XDG_DATA_HOME is unset.
func DefaultPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "speakup", "speakup.db"), nil
}
