// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.

package store

import (
	"database/sql"
	"encoding/json"
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// encodeGenreIDs serializes a genre id list to the JSON text stored in the
// genre_ids column. A nil slice encodes as "[]".
func encodeGenreIDs(ids []int64) string {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeGenreIDs parses the stored genre_ids column back into a list.
// Malformed or empty values decode as an empty list rather than an error;
// genre ids are cosmetic and must never fail a read.
func decodeGenreIDs(raw string) []int64 {
	if raw == "" {
		return []int64{}
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil || ids == nil {
		return []int64{}
	}
	return ids
}
