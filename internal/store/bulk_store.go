package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/tejasnaik/watcharr/internal/models"
)

// validateMigrationItem rejects item rows the schema would otherwise accept
// in a silently-wrong state. A single bad row aborts the whole migration.
func validateMigrationItem(i int, item *models.MigrationItem) error {
	if item.TMDBID <= 0 {
		return fmt.Errorf("item %d: missing tmdbId", i)
	}
	if item.Title == "" {
		return fmt.Errorf("item %d: missing title", i)
	}
	if item.ContentType != models.ContentTypeMovie && item.ContentType != models.ContentTypeSeries {
		return fmt.Errorf("item %d: unknown contentType %q", i, item.ContentType)
	}
	return nil
}

// Migrate imports a full snapshot (items, series progress, watched episodes)
// from an external store as one transaction. Items are upserted keyed on
// (tmdb_id, content_type), preserving snapshot timestamps when present.
// Progress rows are re-bound to their owning item by looking the series up in
// the migrated state; rows whose series item is absent are skipped. Episodes
// are inserted with INSERT OR IGNORE. Any failure rolls the whole call back.
func (s *Store) Migrate(payload *models.MigrationPayload) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range payload.Items {
		item := &payload.Items[i]
		if err := validateMigrationItem(i, item); err != nil {
			return err
		}
		addedAt, updatedAt := now, now
		if item.AddedAt != nil {
			addedAt = *item.AddedAt
		}
		if item.UpdatedAt != nil {
			updatedAt = *item.UpdatedAt
		}
		_, err := tx.Exec(`
			INSERT INTO watched_items (tmdb_id, content_type, title, poster_path, release_date, status, user_rating, notes, genre_ids, added_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(tmdb_id, content_type) DO UPDATE SET
				title = excluded.title,
				poster_path = excluded.poster_path,
				release_date = excluded.release_date,
				status = excluded.status,
				user_rating = excluded.user_rating,
				notes = excluded.notes,
				genre_ids = excluded.genre_ids,
				updated_at = excluded.updated_at;`,
			item.TMDBID, item.ContentType, item.Title, item.PosterPath, item.ReleaseDate,
			item.Status, item.UserRating, item.Notes, encodeGenreIDs(item.GenreIDs), addedAt, updatedAt,
		)
		if err != nil {
			return err
		}
	}

	for _, p := range payload.Progress {
		var itemID int64
		err := tx.QueryRow(
			"SELECT id FROM watched_items WHERE tmdb_id = ? AND content_type = ?",
			p.TMDBID, models.ContentTypeSeries,
		).Scan(&itemID)
		if err == sql.ErrNoRows {
			// The snapshot carries progress for a series that isn't in it.
			// Kept as a skip, matching the importer this replaces.
			log.Printf("migrate: skipping progress for tmdb id %d, no series item in snapshot", p.TMDBID)
			continue
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO series_progress (watched_item_id, tmdb_id, current_season, current_episode, total_seasons, total_episodes)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(tmdb_id) DO UPDATE SET
				watched_item_id = excluded.watched_item_id,
				current_season = excluded.current_season,
				current_episode = excluded.current_episode,
				total_seasons = excluded.total_seasons,
				total_episodes = excluded.total_episodes;`,
			itemID, p.TMDBID, p.CurrentSeason, p.CurrentEpisode, p.TotalSeasons, p.TotalEpisodes,
		)
		if err != nil {
			return err
		}
	}

	for _, e := range payload.Episodes {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO watched_episodes (tmdb_id, season, episode) VALUES (?, ?, ?)",
			e.TMDBID, e.Season, e.Episode,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ClearAll wipes the library: episodes first, then progress, then items, so
// dependent rows never outlive their owners. Runs as one transaction.
func (s *Store) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM watched_episodes",
		"DELETE FROM series_progress",
		"DELETE FROM watched_items",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
