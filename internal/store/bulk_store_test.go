package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/tejasnaik/watcharr/internal/models"
	"github.com/tejasnaik/watcharr/internal/testutil"
)

func snapshotPayload() *models.MigrationPayload {
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rating := 9
	return &models.MigrationPayload{
		Items: []models.MigrationItem{
			{
				TMDBID:      302946,
				ContentType: models.ContentTypeMovie,
				Title:       "The Accountant",
				Status:      models.StatusWatched,
				UserRating:  &rating,
				AddedAt:     &added,
				UpdatedAt:   &added,
			},
			{
				TMDBID:      1396,
				ContentType: models.ContentTypeSeries,
				Title:       "Breaking Bad",
				Status:      models.StatusWatching,
			},
		},
		Progress: []models.MigrationProgress{
			{TMDBID: 1396, CurrentSeason: 3, CurrentEpisode: 7, TotalSeasons: 5, TotalEpisodes: 62},
		},
		Episodes: []models.WatchedEpisode{
			{TMDBID: 1396, Season: 1, Episode: 1},
			{TMDBID: 1396, Season: 1, Episode: 2},
		},
	}
}

func TestMigrateImportsSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	if err := s.Migrate(snapshotPayload()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	item, err := s.GetItemByTMDBID(302946, models.ContentTypeMovie)
	if err != nil {
		t.Fatalf("GetItemByTMDBID failed: %v", err)
	}
	if item.UserRating == nil || *item.UserRating != 9 {
		t.Errorf("Expected imported rating 9, got %v", item.UserRating)
	}
	if item.AddedAt.Year() != 2024 {
		t.Errorf("Expected snapshot addedAt preserved, got %v", item.AddedAt)
	}

	progress, err := s.GetProgress(1396)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if progress.CurrentSeason != 3 || progress.CurrentEpisode != 7 {
		t.Errorf("Progress not imported: %+v", progress)
	}

	series, err := s.GetItemByTMDBID(1396, models.ContentTypeSeries)
	if err != nil {
		t.Fatalf("GetItemByTMDBID (series) failed: %v", err)
	}
	if progress.WatchedItemID != series.ID {
		t.Errorf("Progress owner should resolve to the imported series item, got %d want %d",
			progress.WatchedItemID, series.ID)
	}

	episodes, err := s.ListEpisodes(1396, 1)
	if err != nil {
		t.Fatalf("ListEpisodes failed: %v", err)
	}
	if len(episodes) != 2 {
		t.Errorf("Expected 2 episodes imported, got %d", len(episodes))
	}
}

func TestMigrateSkipsOrphanedProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	payload := snapshotPayload()
	// Progress for a series that is not part of the snapshot.
	payload.Progress = append(payload.Progress, models.MigrationProgress{TMDBID: 999999, CurrentSeason: 1})

	if err := s.Migrate(payload); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if _, err := s.GetProgress(999999); err != sql.ErrNoRows {
		t.Errorf("Expected orphaned progress to be skipped, got %v", err)
	}
	// The resolvable row still lands.
	if _, err := s.GetProgress(1396); err != nil {
		t.Errorf("Expected resolvable progress imported: %v", err)
	}
}

func TestMigrateIsAllOrNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	payload := snapshotPayload()
	// Second item invalid: missing title. The whole call must roll back.
	payload.Items[1].Title = ""

	if err := s.Migrate(payload); err == nil {
		t.Fatal("Expected migration to fail on invalid item")
	}

	items, err := s.ListItems("", "")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no partial state after failed migration, found %d items", len(items))
	}
	if set, err := s.ListEpisodes(1396, 1); err != nil || len(set) != 0 {
		t.Errorf("Expected no episodes after rollback, got %v (%v)", set, err)
	}
}

func TestMigrateIsRerunnable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	if err := s.Migrate(snapshotPayload()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	// A second import of the same snapshot upserts rather than duplicating.
	if err := s.Migrate(snapshotPayload()); err != nil {
		t.Fatalf("Migrate (rerun) failed: %v", err)
	}

	items, err := s.ListItems("", "")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 items after rerun, got %d", len(items))
	}
}

func TestClearAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	if err := s.Migrate(snapshotPayload()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	items, err := s.ListItems("", "")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty library, got %d items", len(items))
	}
	if _, err := s.GetProgress(1396); err != sql.ErrNoRows {
		t.Errorf("Expected progress cleared, got %v", err)
	}
	if eps, _ := s.ListEpisodes(1396, 1); len(eps) != 0 {
		t.Errorf("Expected episodes cleared, got %d", len(eps))
	}
}
