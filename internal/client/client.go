// Package client is a Go client for the watcharr REST API with the same
// reactivity contract the browser hooks rely on: a process-wide version
// counter bumps on every successful write, and cached reads re-fetch
// whenever the counter (or their own parameters) changed since they were
// cached. Invalidation is deliberately coarse; the dataset is small and
// per-user.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tejasnaik/watcharr/internal/models"
)

// ErrNotFound is returned when a single-item lookup misses.
var ErrNotFound = errors.New("not found")

// Client talks to a watcharr server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	version uint64
	lists   map[string]cachedList
}

type cachedList struct {
	version uint64
	items   []*models.WatchedItem
}

// New creates a client for the server at baseURL (e.g. "http://localhost:3001").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		lists:      make(map[string]cachedList),
	}
}

// invalidate bumps the version counter, forcing every cached read to
// re-fetch on next use.
func (c *Client) invalidate() {
	c.mu.Lock()
	c.version++
	c.lists = make(map[string]cachedList)
	c.mu.Unlock()
}

func (c *Client) doJSON(method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %s: %s", resp.Status, data)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListItems returns library items, served from cache until a write
// invalidates it or the filters change.
func (c *Client) ListItems(contentType, status string) ([]*models.WatchedItem, error) {
	key := contentType + "|" + status

	c.mu.Lock()
	version := c.version
	if cached, ok := c.lists[key]; ok && cached.version == version {
		c.mu.Unlock()
		return cached.items, nil
	}
	c.mu.Unlock()

	params := url.Values{}
	if contentType != "" {
		params.Set("contentType", contentType)
	}
	if status != "" {
		params.Set("status", status)
	}
	path := "/api/library"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var items []*models.WatchedItem
	if err := c.doJSON(http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}

	c.mu.Lock()
	// Another writer may have bumped the version mid-fetch; cache under the
	// version we read against so the stale copy is not served.
	c.lists[key] = cachedList{version: version, items: items}
	c.mu.Unlock()
	return items, nil
}

// GetItem looks up one library entry.
func (c *Client) GetItem(tmdbID int64, contentType string) (*models.WatchedItem, error) {
	var item models.WatchedItem
	path := fmt.Sprintf("/api/library/%d/%s", tmdbID, contentType)
	if err := c.doJSON(http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem adds an item to the library and returns its id.
func (c *Client) AddItem(item *models.WatchedItem) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.doJSON(http.MethodPost, "/api/library", item, &resp); err != nil {
		return 0, err
	}
	c.invalidate()
	return resp.ID, nil
}

// UpdateItem applies a partial update; only the keys present in changes are
// touched.
func (c *Client) UpdateItem(id int64, changes map[string]any) error {
	if err := c.doJSON(http.MethodPatch, fmt.Sprintf("/api/library/%d", id), changes, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// DeleteItem removes an item and its progress.
func (c *Client) DeleteItem(id int64) error {
	if err := c.doJSON(http.MethodDelete, fmt.Sprintf("/api/library/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// GetProgress fetches series progress, or nil when none is recorded.
func (c *Client) GetProgress(tmdbID int64) (*models.SeriesProgress, error) {
	var progress *models.SeriesProgress
	if err := c.doJSON(http.MethodGet, fmt.Sprintf("/api/progress/%d", tmdbID), nil, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// UpsertProgress inserts or overwrites series progress.
func (c *Client) UpsertProgress(p *models.SeriesProgress) error {
	if err := c.doJSON(http.MethodPut, "/api/progress", p, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// ToggleEpisode flips one episode's watched state.
func (c *Client) ToggleEpisode(tmdbID int64, season, episode int) (string, error) {
	var resp struct {
		Action string `json:"action"`
	}
	body := map[string]any{"tmdbId": tmdbID, "season": season, "episode": episode}
	if err := c.doJSON(http.MethodPost, "/api/episodes/toggle", body, &resp); err != nil {
		return "", err
	}
	c.invalidate()
	return resp.Action, nil
}

// Migrate imports a full snapshot.
func (c *Client) Migrate(payload *models.MigrationPayload) error {
	if err := c.doJSON(http.MethodPost, "/api/migrate", payload, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// ClearAll wipes the library.
func (c *Client) ClearAll() error {
	if err := c.doJSON(http.MethodPost, "/api/library/clear", nil, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// Export fetches the minimal portable export.
func (c *Client) Export() ([]*models.ExportItem, error) {
	var export []*models.ExportItem
	if err := c.doJSON(http.MethodGet, "/api/library/export", nil, &export); err != nil {
		return nil, err
	}
	return export, nil
}
