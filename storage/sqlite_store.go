package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"zeiterfassung/worklog"
)

// Record keys of the two durable records.
const (
	KeySettings = "zt_settings"
	KeyEntries  = "zt_entries"
)

type SQLiteStore struct {
	db *sqlx.DB
}

type record struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	UpdatedAt string `db:"updated_at"`
}

// OpenSQLite migrates the schema at path and opens the store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	// One writer keeps read-modify-persist sequences from interleaving.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReadRecord returns the raw value for key. The second return value is false
// when no record exists.
func (s *SQLiteStore) ReadRecord(key string) ([]byte, bool, error) {
	var rec record
	err := s.db.Get(&rec, `SELECT key, value, updated_at FROM records WHERE key = ?;`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read record %s: %w", key, err)
	}
	return []byte(rec.Value), true, nil
}

func (s *SQLiteStore) WriteRecord(key string, value []byte) error {
	const upsert = `
INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	if _, err := s.db.Exec(upsert, key, string(value)); err != nil {
		return fmt.Errorf("write record %s: %w", key, err)
	}
	return nil
}

// LoadEntries decodes the entries record. Corrupt JSON is reported as an error.
func (s *SQLiteStore) LoadEntries() ([]worklog.Entry, bool, error) {
	raw, found, err := s.ReadRecord(KeyEntries)
	if err != nil || !found {
		return nil, found, err
	}

	var entries []worklog.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, true, fmt.Errorf("decode %s record: %w", KeyEntries, err)
	}
	if entries == nil {
		entries = []worklog.Entry{}
	}
	return entries, true, nil
}

func (s *SQLiteStore) SaveEntries(entries []worklog.Entry) error {
	if entries == nil {
		entries = []worklog.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", KeyEntries, err)
	}
	return s.WriteRecord(KeyEntries, raw)
}

func (s *SQLiteStore) LoadSettings() (worklog.Settings, bool, error) {
	raw, found, err := s.ReadRecord(KeySettings)
	if err != nil || !found {
		return worklog.Settings{}, found, err
	}

	var settings worklog.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return worklog.Settings{}, true, fmt.Errorf("decode %s record: %w", KeySettings, err)
	}
	return settings, true, nil
}

func (s *SQLiteStore) SaveSettings(settings worklog.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", KeySettings, err)
	}
	return s.WriteRecord(KeySettings, raw)
}
