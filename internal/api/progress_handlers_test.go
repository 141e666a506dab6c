package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tejasnaik/watcharr/internal/models"
	"github.com/tejasnaik/watcharr/internal/testutil/apitest"
)

func TestProgressRoundTrip(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	// No progress yet: JSON null, not an error.
	rr := doRequest(t, router, "GET", "/api/progress/1396", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "null" {
		t.Fatalf("Expected 200 null, got %d %s", rr.Code, rr.Body.String())
	}

	doRequest(t, router, "POST", "/api/library",
		`{"tmdbId":1396,"contentType":"series","title":"Breaking Bad","status":"watching"}`)

	rr = doRequest(t, router, "PUT", "/api/progress",
		`{"watchedItemId":1,"tmdbId":1396,"currentSeason":2,"currentEpisode":5}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("upsert returned %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, "GET", "/api/progress/1396", "")
	var progress models.SeriesProgress
	if err := json.Unmarshal(rr.Body.Bytes(), &progress); err != nil {
		t.Fatalf("Failed to unmarshal progress: %v", err)
	}
	if progress.CurrentSeason != 2 || progress.CurrentEpisode != 5 {
		t.Errorf("Unexpected progress %+v", progress)
	}

	// A second PUT for the same series overwrites rather than duplicating.
	doRequest(t, router, "PUT", "/api/progress",
		`{"watchedItemId":1,"tmdbId":1396,"currentSeason":3,"currentEpisode":1}`)
	rr = doRequest(t, router, "GET", "/api/progress/1396", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &progress); err != nil {
		t.Fatalf("Failed to unmarshal progress: %v", err)
	}
	if progress.CurrentSeason != 3 {
		t.Errorf("Expected overwritten season 3, got %d", progress.CurrentSeason)
	}
}

func TestUpsertProgressRequiresTMDBID(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	rr := doRequest(t, router, "PUT", "/api/progress",
		`{"watchedItemId":1,"currentSeason":1,"currentEpisode":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}
