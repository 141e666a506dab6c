package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tejasnaik/watcharr/internal/models"
)

const itemColumns = `id, tmdb_id, content_type, title, poster_path, release_date,
	status, user_rating, notes, genre_ids, added_at, updated_at`

// scanItem reads one watched_items row.
func scanItem(row interface{ Scan(...any) error }) (*models.WatchedItem, error) {
	var item models.WatchedItem
	var genreIDs string
	err := row.Scan(
		&item.ID, &item.TMDBID, &item.ContentType, &item.Title,
		&item.PosterPath, &item.ReleaseDate, &item.Status,
		&item.UserRating, &item.Notes, &genreIDs,
		&item.AddedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.GenreIDs = decodeGenreIDs(genreIDs)
	return &item, nil
}

// ListItems returns library items, newest first. Both filters are optional;
// an empty string means "no filter". An empty library yields an empty slice.
func (s *Store) ListItems(contentType, status string) ([]*models.WatchedItem, error) {
	query := "SELECT " + itemColumns + " FROM watched_items"
	var conds []string
	var args []any
	if contentType != "" {
		conds = append(conds, "content_type = ?")
		args = append(args, contentType)
	}
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY added_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.WatchedItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItemByTMDBID looks up a single item by its catalog identity.
// Returns sql.ErrNoRows when the item is not in the library.
func (s *Store) GetItemByTMDBID(tmdbID int64, contentType string) (*models.WatchedItem, error) {
	row := s.db.QueryRow(
		"SELECT "+itemColumns+" FROM watched_items WHERE tmdb_id = ? AND content_type = ?",
		tmdbID, contentType,
	)
	return scanItem(row)
}

// GetItemByID looks up a single item by its local row id.
func (s *Store) GetItemByID(id int64) (*models.WatchedItem, error) {
	row := s.db.QueryRow("SELECT "+itemColumns+" FROM watched_items WHERE id = ?", id)
	return scanItem(row)
}

// AddItem inserts a new library entry and returns its id. Adding an item
// that already exists for the same (tmdb_id, content_type) is a no-op that
// returns the existing id, so "add to library" is idempotent.
func (s *Store) AddItem(item *models.WatchedItem) (int64, error) {
	existing, err := s.GetItemByTMDBID(item.TMDBID, item.ContentType)
	if err == nil {
		return existing.ID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO watched_items (tmdb_id, content_type, title, poster_path, release_date, status, user_rating, notes, genre_ids, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.TMDBID, item.ContentType, item.Title, item.PosterPath, item.ReleaseDate,
		item.Status, item.UserRating, item.Notes, encodeGenreIDs(item.GenreIDs), now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ItemUpdate describes a partial update. Nil pointers mean "leave the field
// alone". UserRating is special: the client must be able to clear a rating,
// so UserRatingSet records whether the field was present at all.
type ItemUpdate struct {
	Title         *string
	PosterPath    *string
	ReleaseDate   *string
	Status        *string
	UserRating    *int
	UserRatingSet bool
	Notes         *string
	GenreIDs      []int64
	GenreIDsSet   bool
}

// UpdateItem applies the fields present in the update and refreshes
// updated_at. Updating an unknown id is a silent no-op.
func (s *Store) UpdateItem(id int64, update ItemUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.PosterPath != nil {
		sets = append(sets, "poster_path = ?")
		args = append(args, *update.PosterPath)
	}
	if update.ReleaseDate != nil {
		sets = append(sets, "release_date = ?")
		args = append(args, *update.ReleaseDate)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.UserRatingSet {
		sets = append(sets, "user_rating = ?")
		args = append(args, update.UserRating) // nil clears the rating
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.GenreIDsSet {
		sets = append(sets, "genre_ids = ?")
		args = append(args, encodeGenreIDs(update.GenreIDs))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE watched_items SET %s WHERE id = ?", strings.Join(sets, ", "))
	_, err := s.db.Exec(query, args...)
	return err
}

// DeleteItem removes an item and its series progress row, progress first so
// no orphaned progress survives. Deleting an unknown id is a silent no-op.
func (s *Store) DeleteItem(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM series_progress WHERE watched_item_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM watched_items WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ExportAll projects every item into the minimal portable export shape.
// Rating and notes are dropped entirely when empty.
func (s *Store) ExportAll() ([]*models.ExportItem, error) {
	items, err := s.ListItems("", "")
	if err != nil {
		return nil, err
	}

	out := make([]*models.ExportItem, 0, len(items))
	for _, item := range items {
		out = append(out, &models.ExportItem{
			TMDBID:      item.TMDBID,
			Title:       item.Title,
			ContentType: item.ContentType,
			Status:      item.Status,
			PosterPath:  item.PosterPath,
			ReleaseDate: item.ReleaseDate,
			UserRating:  item.UserRating,
			Notes:       item.Notes,
		})
	}
	return out, nil
}
