package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sohayok/sohayok/internal/core"
)

// SettingsStore is a small key-value table for runtime settings such as the
// default response language.
type SettingsStore struct {
	db *DB
}

// NewSettingsStore creates a new settings store
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Set stores or replaces a setting.
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.conn.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}

// Get returns a setting value.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrRecordNotFound
	}
	return value, err
}

// GetOr returns a setting value, or the fallback when unset.
func (s *SettingsStore) GetOr(key, fallback string) string {
	value, err := s.Get(key)
	if err != nil {
		return fallback
	}
	return value
}

// All returns every setting.
func (s *SettingsStore) All() (map[string]string, error) {
	rows, err := s.db.conn.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}
