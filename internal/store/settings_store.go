package store

import (
	"encoding/json"
)

// GetSettings returns the persisted settings blob as a single merged object.
// Missing settings produce an empty object, never an error.
func (s *Store) GetSettings() (map[string]json.RawMessage, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = json.RawMessage(value)
	}
	return settings, rows.Err()
}

// SaveSettings replaces the stored settings with the given set. Values are
// stored as JSON text so the blob shape is entirely client-defined.
func (s *Store) SaveSettings(settings map[string]json.RawMessage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM settings"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range settings {
		if _, err := stmt.Exec(key, string(value)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
