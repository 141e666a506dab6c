// Client for the TMDB v3 API. Only the handful of read endpoints the
// recommendation assistant needs, with trimmed response shapes so tool
// results stay small.

package tmdb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Client talks to the TMDB API with a bearer token. Responses are cached
// briefly; catalog data churns slowly and the assistant tends to re-query
// the same titles within one conversation.
type Client struct {
	token      string
	apiBaseURL string
	client     *http.Client
	cache      *gocache.Cache
}

// NewClient creates a new TMDB client.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		apiBaseURL: "https://api.themoviedb.org/3",
		client:     &http.Client{Timeout: 20 * time.Second},
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// SetBaseURL points the client at a different API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.apiBaseURL = u
}

// get fetches a TMDB path into out, consulting the response cache first.
func (c *Client) get(path string, params url.Values, out any) error {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}
	if cached, ok := c.cache.Get(key); ok {
		return json.Unmarshal(cached.([]byte), out)
	}

	req, err := http.NewRequest(http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB %d: %s", resp.StatusCode, resp.Status)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	c.cache.Set(key, []byte(body), gocache.DefaultExpiration)
	return json.Unmarshal(body, out)
}

// kindPath maps a content kind ("movie" or "tv") to its URL segment.
func kindPath(kind string) (string, error) {
	switch kind {
	case "movie", "tv":
		return kind, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
}

// Search looks up movies or TV series by name. Capped at 6 results, enough
// for the assistant to pick out an id.
func (c *Client) Search(query, kind string) ([]Title, error) {
	seg, err := kindPath(kind)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := c.get("/search/"+seg, url.Values{"query": {query}, "page": {"1"}}, &resp); err != nil {
		return nil, err
	}
	return trimTitles(resp.Results, 6), nil
}

// Details fetches full details, including the top of the cast list.
func (c *Client) Details(id int64, kind string) (*Details, error) {
	seg, err := kindPath(kind)
	if err != nil {
		return nil, err
	}
	var raw detailsResponse
	path := fmt.Sprintf("/%s/%d", seg, id)
	if err := c.get(path, url.Values{"append_to_response": {"credits"}}, &raw); err != nil {
		return nil, err
	}

	d := &Details{Title: raw.trim()}
	d.Runtime = raw.Runtime
	if d.Runtime == 0 && len(raw.EpisodeRunTime) > 0 {
		d.Runtime = raw.EpisodeRunTime[0]
	}
	d.Status = raw.Status
	d.Tagline = raw.Tagline
	for i, member := range raw.Credits.Cast {
		if i == 5 {
			break
		}
		d.Cast = append(d.Cast, fmt.Sprintf("%s as %s", member.Name, member.Character))
	}
	return d, nil
}

// Similar returns titles similar to the given one.
func (c *Client) Similar(id int64, kind string) ([]Title, error) {
	return c.titleList(id, kind, "similar")
}

// Recommendations returns TMDB's recommendations seeded by the given title.
func (c *Client) Recommendations(id int64, kind string) ([]Title, error) {
	return c.titleList(id, kind, "recommendations")
}

func (c *Client) titleList(id int64, kind, suffix string) ([]Title, error) {
	seg, err := kindPath(kind)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	path := fmt.Sprintf("/%s/%d/%s", seg, id, suffix)
	if err := c.get(path, url.Values{"page": {"1"}}, &resp); err != nil {
		return nil, err
	}
	return trimTitles(resp.Results, 8), nil
}

// SearchPerson finds people (actors, directors) by name.
func (c *Client) SearchPerson(name string) ([]Person, error) {
	var resp personListResponse
	if err := c.get("/search/person", url.Values{"query": {name}, "page": {"1"}}, &resp); err != nil {
		return nil, err
	}

	people := make([]Person, 0, 3)
	for i, p := range resp.Results {
		if i == 3 {
			break
		}
		person := Person{ID: p.ID, Name: p.Name, KnownForDepartment: p.KnownForDepartment}
		for j, k := range p.KnownFor {
			if j == 3 {
				break
			}
			person.KnownFor = append(person.KnownFor, k.name())
		}
		people = append(people, person)
	}
	return people, nil
}

// PersonCredits lists a person's filmography, newest first. kind may be
// "movie", "tv", or "both".
func (c *Client) PersonCredits(personID int64, kind string) ([]Credit, error) {
	var credits []Credit

	fetch := func(seg, mediaType string) error {
		var resp creditsResponse
		path := fmt.Sprintf("/person/%d/%s_credits", personID, seg)
		if err := c.get(path, nil, &resp); err != nil {
			return err
		}
		var withDate []rawCredit
		for _, cr := range resp.Cast {
			if cr.releaseDate() != "" {
				withDate = append(withDate, cr)
			}
		}
		sort.Slice(withDate, func(i, j int) bool {
			return withDate[i].releaseDate() > withDate[j].releaseDate()
		})
		for i, cr := range withDate {
			if i == 15 {
				break
			}
			credits = append(credits, Credit{Title: cr.trim(), Character: cr.Character, MediaType: mediaType})
		}
		return nil
	}

	switch kind {
	case "movie", "tv":
		if err := fetch(kind, kind); err != nil {
			return nil, err
		}
	case "both":
		if err := fetch("movie", "movie"); err != nil {
			return nil, err
		}
		if err := fetch("tv", "tv"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	sort.Slice(credits, func(i, j int) bool {
		return credits[i].ReleaseDate > credits[j].ReleaseDate
	})
	if len(credits) > 20 {
		credits = credits[:20]
	}
	return credits, nil
}

func trimTitles(raw []rawTitle, limit int) []Title {
	titles := make([]Title, 0, limit)
	for i, r := range raw {
		if i == limit {
			break
		}
		titles = append(titles, r.trim())
	}
	return titles
}
