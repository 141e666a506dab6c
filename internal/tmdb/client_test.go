package tmdb

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	c := NewClient("test-token")
	c.SetBaseURL(ts.URL)
	return c, ts
}

func TestSearchTrimsAndNormalizes(t *testing.T) {
	var requests int
	c, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/search/tv" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Error("Missing bearer token")
		}
		if r.URL.Query().Get("query") != "breaking bad" {
			t.Errorf("Unexpected query %q", r.URL.Query().Get("query"))
		}
		// TV results use name/first_air_date; ten results to exercise the cap.
		fmt.Fprint(w, `{"results":[
			{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20","vote_average":8.9,"genre_ids":[18,80]},
			{"id":2,"name":"B"},{"id":3,"name":"C"},{"id":4,"name":"D"},{"id":5,"name":"E"},
			{"id":6,"name":"F"},{"id":7,"name":"G"},{"id":8,"name":"H"},{"id":9,"name":"I"},{"id":10,"name":"J"}]}`)
	})
	defer ts.Close()

	titles, err := c.Search("breaking bad", "tv")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(titles) != 6 {
		t.Fatalf("Expected results capped at 6, got %d", len(titles))
	}
	first := titles[0]
	if first.ID != 1396 || first.Title != "Breaking Bad" || first.ReleaseDate != "2008-01-20" {
		t.Errorf("TV fields not normalized: %+v", first)
	}

	// Second identical search served from cache.
	if _, err := c.Search("breaking bad", "tv"); err != nil {
		t.Fatalf("Cached search failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
}

func TestSearchRejectsUnknownKind(t *testing.T) {
	c := NewClient("test-token")
	if _, err := c.Search("x", "podcast"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestDetailsUsesEpisodeRunTimeForSeries(t *testing.T) {
	c, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Error("Expected credits appended")
		}
		fmt.Fprint(w, `{"id":1396,"name":"Breaking Bad","episode_run_time":[47,60],
			"status":"Ended","tagline":"All Hail the King",
			"genres":[{"name":"Drama"},{"name":"Crime"}],
			"credits":{"cast":[
				{"name":"Bryan Cranston","character":"Walter White"},
				{"name":"Aaron Paul","character":"Jesse Pinkman"},
				{"name":"A","character":"a"},{"name":"B","character":"b"},
				{"name":"C","character":"c"},{"name":"D","character":"d"}]}}`)
	})
	defer ts.Close()

	details, err := c.Details(1396, "tv")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if details.Runtime != 47 {
		t.Errorf("Expected first episode_run_time, got %d", details.Runtime)
	}
	if details.Status != "Ended" || details.Tagline != "All Hail the King" {
		t.Errorf("Missing detail fields: %+v", details)
	}
	if len(details.Cast) != 5 {
		t.Fatalf("Expected cast capped at 5, got %d", len(details.Cast))
	}
	if details.Cast[0] != "Bryan Cranston as Walter White" {
		t.Errorf("Unexpected cast line %q", details.Cast[0])
	}
	if len(details.Genres) != 2 || details.Genres[0] != "Drama" {
		t.Errorf("Genres not flattened: %v", details.Genres)
	}
}

func TestSimilarAndRecommendations(t *testing.T) {
	c, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/949/similar":
			fmt.Fprint(w, `{"results":[{"id":111,"title":"Thief"}]}`)
		case "/movie/949/recommendations":
			fmt.Fprint(w, `{"results":[{"id":222,"title":"Collateral"}]}`)
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	})
	defer ts.Close()

	similar, err := c.Similar(949, "movie")
	if err != nil || len(similar) != 1 || similar[0].Title != "Thief" {
		t.Errorf("Similar = %v, %v", similar, err)
	}
	recs, err := c.Recommendations(949, "movie")
	if err != nil || len(recs) != 1 || recs[0].Title != "Collateral" {
		t.Errorf("Recommendations = %v, %v", recs, err)
	}
}

func TestSearchPerson(t *testing.T) {
	c, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"id":6384,"name":"Keanu Reeves","known_for_department":"Acting",
			 "known_for":[{"title":"The Matrix"},{"title":"John Wick"},{"name":"Extra"},{"title":"Cut Off"}]},
			{"id":2,"name":"Other"},{"id":3,"name":"Third"},{"id":4,"name":"Fourth"}]}`)
	})
	defer ts.Close()

	people, err := c.SearchPerson("keanu")
	if err != nil {
		t.Fatalf("SearchPerson failed: %v", err)
	}
	if len(people) != 3 {
		t.Fatalf("Expected results capped at 3, got %d", len(people))
	}
	if people[0].Name != "Keanu Reeves" || people[0].KnownForDepartment != "Acting" {
		t.Errorf("Unexpected person %+v", people[0])
	}
	if len(people[0].KnownFor) != 3 || people[0].KnownFor[2] != "Extra" {
		t.Errorf("known_for not trimmed to 3: %v", people[0].KnownFor)
	}
}

func TestPersonCreditsSortedNewestFirst(t *testing.T) {
	c, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/person/6384/movie_credits":
			fmt.Fprint(w, `{"cast":[
				{"title":"Old","release_date":"1999-03-31","character":"Neo"},
				{"title":"Undated","character":"X"},
				{"title":"New","release_date":"2023-03-24","character":"John Wick"}]}`)
		case "/person/6384/tv_credits":
			fmt.Fprint(w, `{"cast":[{"name":"Show","first_air_date":"2010-01-01","character":"Guest"}]}`)
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	})
	defer ts.Close()

	credits, err := c.PersonCredits(6384, "both")
	if err != nil {
		t.Fatalf("PersonCredits failed: %v", err)
	}
	if len(credits) != 3 {
		t.Fatalf("Expected 3 dated credits, got %d", len(credits))
	}
	if credits[0].Title.Title != "New" || credits[0].MediaType != "movie" {
		t.Errorf("Expected newest movie first, got %+v", credits[0])
	}
	if credits[1].Title.Title != "Show" || credits[1].MediaType != "tv" {
		t.Errorf("Expected TV credit second, got %+v", credits[1])
	}
	for _, cr := range credits {
		if cr.Title.Title == "Undated" {
			t.Error("Undated credit should be filtered out")
		}
	}
}

func TestGetSurfacesAPIErrors(t *testing.T) {
	c, ts := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	defer ts.Close()

	if _, err := c.Search("x", "movie"); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
