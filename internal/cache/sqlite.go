package cache

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite is a Store backed by a local SQLite file, the durable fallback when
// remote sync is unavailable.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the cache database at path and runs
// migrations. Pass ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache db: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(slot string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, slot).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %q: %w", slot, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(slot, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		slot, value,
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", slot, err)
	}
	return nil
}

func (s *SQLite) Clear(slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(slots))
	args := make([]any, len(slots))
	for i, name := range slots {
		args[i] = name
	}
	_, err := s.db.Exec(
		`DELETE FROM slots WHERE name IN (`+placeholders[:len(placeholders)-1]+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}
	return nil
}
