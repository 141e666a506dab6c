package store

import (
	"github.com/tejasnaik/watcharr/internal/models"
)

// GetProgress returns the series progress for a TMDB id, or sql.ErrNoRows
// when none has been recorded.
func (s *Store) GetProgress(tmdbID int64) (*models.SeriesProgress, error) {
	var p models.SeriesProgress
	err := s.db.QueryRow(`
		SELECT id, watched_item_id, tmdb_id, current_season, current_episode, total_seasons, total_episodes
		FROM series_progress WHERE tmdb_id = ?`, tmdbID,
	).Scan(&p.ID, &p.WatchedItemID, &p.TMDBID, &p.CurrentSeason, &p.CurrentEpisode, &p.TotalSeasons, &p.TotalEpisodes)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProgress inserts or overwrites the progress row for a TMDB id.
// The conflict key is tmdb_id, not the owning item, so a later write can
// correct the owning item reference (e.g. after a series is re-added).
func (s *Store) UpsertProgress(p *models.SeriesProgress) error {
	_, err := s.db.Exec(`
		INSERT INTO series_progress (watched_item_id, tmdb_id, current_season, current_episode, total_seasons, total_episodes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(tmdb_id) DO UPDATE SET
			watched_item_id = excluded.watched_item_id,
			current_season = excluded.current_season,
			current_episode = excluded.current_episode,
			total_seasons = excluded.total_seasons,
			total_episodes = excluded.total_episodes;`,
		p.WatchedItemID, p.TMDBID, p.CurrentSeason, p.CurrentEpisode, p.TotalSeasons, p.TotalEpisodes,
	)
	return err
}
