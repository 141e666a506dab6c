// Assistant tool definitions bridging the chat model to the catalog API.
// The relay wires these into every chat session; the model calls them to
// ground its recommendations in live TMDB data.

package tmdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tejasnaik/watcharr/internal/assistant"
)

type searchInput struct {
	Query string `json:"query"`
	Type  string `json:"type"`
}

type titleInput struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type personSearchInput struct {
	Name string `json:"name"`
}

type personCreditsInput struct {
	PersonID int64  `json:"personId"`
	Type     string `json:"type"`
}

func decodeInput[T any](raw json.RawMessage) (T, error) {
	var in T
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("bad tool input: %w", err)
	}
	return in, nil
}

// Tools returns the catalog tool set exposed to the assistant.
func (c *Client) Tools() []assistant.Tool {
	return []assistant.Tool{
		{
			Name:        "searchTMDB",
			Description: "Search for movies or TV series on TMDB by name. Use this to find TMDB IDs.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Title or keywords to search for"},
					"type": {"type": "string", "enum": ["movie", "tv"], "description": "movie for films, tv for series"}
				},
				"required": ["query", "type"]
			}`),
			Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				in, err := decodeInput[searchInput](raw)
				if err != nil {
					return nil, err
				}
				return c.Search(in.Query, in.Type)
			},
		},
		{
			Name:        "getTMDBDetails",
			Description: "Get full details (genres, cast, overview, runtime) for a movie or TV series by TMDB ID.",
			InputSchema: titleSchema,
			Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				in, err := decodeInput[titleInput](raw)
				if err != nil {
					return nil, err
				}
				return c.Details(in.ID, in.Type)
			},
		},
		{
			Name:        "getSimilar",
			Description: "Get movies or series similar to a given title (by TMDB ID). Good for franchise/sequel exploration.",
			InputSchema: titleSchema,
			Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				in, err := decodeInput[titleInput](raw)
				if err != nil {
					return nil, err
				}
				return c.Similar(in.ID, in.Type)
			},
		},
		{
			Name:        "getRecommendations",
			Description: "Get TMDB recommendations based on a movie or series. Returns personalized suggestions.",
			InputSchema: titleSchema,
			Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				in, err := decodeInput[titleInput](raw)
				if err != nil {
					return nil, err
				}
				return c.Recommendations(in.ID, in.Type)
			},
		},
		{
			Name:        "searchPerson",
			Description: "Search for an actor, director, or other person by name on TMDB. Returns their TMDB person ID and known-for titles.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Full or partial name of the person"}
				},
				"required": ["name"]
			}`),
			Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				in, err := decodeInput[personSearchInput](raw)
				if err != nil {
					return nil, err
				}
				return c.SearchPerson(in.Name)
			},
		},
		{
			Name:        "getPersonCredits",
			Description: "Get the movie and/or TV credits for a person by their TMDB person ID. Use this to list filmography for an actor or director.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"personId": {"type": "number", "description": "TMDB person ID"},
					"type": {"type": "string", "enum": ["movie", "tv", "both"], "description": "movie, tv, or both"}
				},
				"required": ["personId", "type"]
			}`),
			Run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				in, err := decodeInput[personCreditsInput](raw)
				if err != nil {
					return nil, err
				}
				return c.PersonCredits(in.PersonID, in.Type)
			},
		},
	}
}

var titleSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"id": {"type": "number", "description": "TMDB ID"},
		"type": {"type": "string", "enum": ["movie", "tv"], "description": "movie or tv"}
	},
	"required": ["id", "type"]
}`)
