package store

import (
	"database/sql"

	"github.com/tejasnaik/watcharr/internal/models"
)

// Episode toggle outcomes.
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// ListEpisodes returns the watched episodes recorded for one season of a
// series. An unwatched season yields an empty slice.
func (s *Store) ListEpisodes(tmdbID int64, season int) ([]*models.WatchedEpisode, error) {
	rows, err := s.db.Query(`
		SELECT id, tmdb_id, season, episode FROM watched_episodes
		WHERE tmdb_id = ? AND season = ? ORDER BY episode`, tmdbID, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	episodes := make([]*models.WatchedEpisode, 0)
	for rows.Next() {
		var ep models.WatchedEpisode
		if err := rows.Scan(&ep.ID, &ep.TMDBID, &ep.Season, &ep.Episode); err != nil {
			return nil, err
		}
		episodes = append(episodes, &ep)
	}
	return episodes, rows.Err()
}

// ToggleEpisode flips the watched state of a single episode. It reports
// ToggleAdded when the episode was marked watched and ToggleRemoved when an
// existing mark was cleared. Toggling twice restores the original state.
func (s *Store) ToggleEpisode(tmdbID int64, season, episode int) (string, error) {
	var id int64
	err := s.db.QueryRow(
		"SELECT id FROM watched_episodes WHERE tmdb_id = ? AND season = ? AND episode = ?",
		tmdbID, season, episode,
	).Scan(&id)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec(
			"INSERT OR IGNORE INTO watched_episodes (tmdb_id, season, episode) VALUES (?, ?, ?)",
			tmdbID, season, episode,
		)
		if err != nil {
			return "", err
		}
		return ToggleAdded, nil
	}
	if err != nil {
		return "", err
	}

	if _, err := s.db.Exec("DELETE FROM watched_episodes WHERE id = ?", id); err != nil {
		return "", err
	}
	return ToggleRemoved, nil
}

// BulkInsertEpisodes inserts watch marks with INSERT OR IGNORE semantics,
// used by the JSON import endpoint. Already-present marks are kept as-is.
func (s *Store) BulkInsertEpisodes(entries []*models.WatchedEpisode) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO watched_episodes (tmdb_id, season, episode) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.TMDBID, e.Season, e.Episode); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// MarkSeasonWatched replaces the watched set for one season: every existing
// mark for (tmdbID, season) is deleted, then exactly the given episode
// numbers are inserted. An empty list clears the whole season. The replace
// runs in a single transaction.
func (s *Store) MarkSeasonWatched(tmdbID int64, season int, episodes []int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM watched_episodes WHERE tmdb_id = ? AND season = ?", tmdbID, season); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO watched_episodes (tmdb_id, season, episode) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ep := range episodes {
		if _, err := stmt.Exec(tmdbID, season, ep); err != nil {
			return err
		}
	}
	return tx.Commit()
}
