// This file defines the core data structures (models) for the watchlist.
// These structs represent library items, series progress, and watched episodes.

package models

import "time"

// Content types shared by every library item. Movies and series share one
// table, distinguished by this field.
const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// Watch statuses. The status vocabulary is a configuration point; these are
// the defaults the server validates against when no override is configured.
const (
	StatusWatched     = "watched"
	StatusWatching    = "watching"
	StatusPlanToWatch = "plan_to_watch"
	StatusDropped     = "dropped"
)

// DefaultStatuses lists the statuses accepted out of the box.
var DefaultStatuses = []string{StatusWatched, StatusWatching, StatusPlanToWatch, StatusDropped}

// WatchedItem is one library entry, keyed by (TMDBID, ContentType).
type WatchedItem struct {
	ID          int64     `json:"id"`
	TMDBID      int64     `json:"tmdbId"`
	ContentType string    `json:"contentType"`
	Title       string    `json:"title"`
	PosterPath  *string   `json:"posterPath"`
	ReleaseDate *string   `json:"releaseDate"`
	Status      string    `json:"status"`
	UserRating  *int      `json:"userRating"`
	Notes       string    `json:"notes"`
	GenreIDs    []int64   `json:"genreIds"`
	AddedAt     time.Time `json:"addedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SeriesProgress tracks where the user is in a series. At most one row per
// TMDB id; the owning item reference is corrected on every upsert.
type SeriesProgress struct {
	ID             int64 `json:"id"`
	WatchedItemID  int64 `json:"watchedItemId"`
	TMDBID         int64 `json:"tmdbId"`
	CurrentSeason  int   `json:"currentSeason"`
	CurrentEpisode int   `json:"currentEpisode"`
	TotalSeasons   int   `json:"totalSeasons"`
	TotalEpisodes  int   `json:"totalEpisodes"`
}

// WatchedEpisode marks a single episode as seen.
type WatchedEpisode struct {
	ID      int64 `json:"id"`
	TMDBID  int64 `json:"tmdbId"`
	Season  int   `json:"season"`
	Episode int   `json:"episode"`
}

// ExportItem is the minimal portable projection of a library entry. Rating
// and notes are omitted entirely when they carry no value, to keep exported
// files small.
type ExportItem struct {
	TMDBID      int64   `json:"tmdbId"`
	Title       string  `json:"title"`
	ContentType string  `json:"contentType"`
	Status      string  `json:"status"`
	PosterPath  *string `json:"posterPath"`
	ReleaseDate *string `json:"releaseDate"`
	UserRating  *int    `json:"userRating,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// MigrationPayload is the snapshot shape accepted by the bulk import
// endpoint, originally produced by the browser-local store.
type MigrationPayload struct {
	Items    []MigrationItem     `json:"items"`
	Progress []MigrationProgress `json:"progress"`
	Episodes []WatchedEpisode    `json:"episodes"`
}

// MigrationItem mirrors WatchedItem but keeps timestamps optional so a
// snapshot can carry its original history.
type MigrationItem struct {
	TMDBID      int64      `json:"tmdbId"`
	ContentType string     `json:"contentType"`
	Title       string     `json:"title"`
	PosterPath  *string    `json:"posterPath"`
	ReleaseDate *string    `json:"releaseDate"`
	Status      string     `json:"status"`
	UserRating  *int       `json:"userRating"`
	Notes       string     `json:"notes"`
	GenreIDs    []int64    `json:"genreIds"`
	AddedAt     *time.Time `json:"addedAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// MigrationProgress carries series progress without an owning item id; the
// owner is re-resolved against the migrated items at import time.
type MigrationProgress struct {
	TMDBID         int64 `json:"tmdbId"`
	CurrentSeason  int   `json:"currentSeason"`
	CurrentEpisode int   `json:"currentEpisode"`
	TotalSeasons   int   `json:"totalSeasons"`
	TotalEpisodes  int   `json:"totalEpisodes"`
}
