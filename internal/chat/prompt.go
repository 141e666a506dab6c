package chat

import (
	"fmt"
	"strings"

	"github.com/tejasnaik/watcharr/internal/models"
)

// BuildLibraryContext renders the user's library grouped by status, the form
// the system prompt embeds so recommendations are personalized.
func BuildLibraryContext(library []*models.WatchedItem) string {
	if len(library) == 0 {
		return "The user has no items in their library yet."
	}

	groups := []struct {
		status string
		label  string
	}{
		{models.StatusWatched, "Watched"},
		{models.StatusWatching, "Currently watching"},
		{models.StatusPlanToWatch, "Plan to watch"},
		{models.StatusDropped, "Dropped"},
	}

	var sections []string
	for _, g := range groups {
		var lines []string
		for _, item := range library {
			if item.Status != g.status {
				continue
			}
			line := fmt.Sprintf("  - %q (%s)", item.Title, item.ContentType)
			if item.UserRating != nil && *item.UserRating > 0 {
				line += fmt.Sprintf(" ★%d/10", *item.UserRating)
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			sections = append(sections, fmt.Sprintf("%s (%d):\n%s", g.label, len(lines), strings.Join(lines, "\n")))
		}
	}
	return strings.Join(sections, "\n\n")
}

// SystemPrompt builds the fixed system prompt for a new session. The
// add:movie/<id> link convention is a contract with the browser UI, which
// renders those links as one-click "add to library" controls.
func SystemPrompt(library []*models.WatchedItem) string {
	return fmt.Sprintf(`You are a friendly movie and TV series recommendation assistant embedded in the user's personal watchlist app.

You have full access to the user's personal library below. Use it to give **personalized** recommendations — not generic ones.

%s

Guidelines:
- Be conversational, concise, and enthusiastic about movies/TV.
- Always cross-reference the user's library before suggesting something they've already seen.
- CRITICAL: Your training data may be outdated. For ANY factual question about movies or series (sequels, release dates, cast, upcoming titles, franchise info), ALWAYS use searchTMDB first to get current, real-time data from TMDB. Never rely solely on your training data for factual claims.
- When the user asks about sequels, prequels, successors, or related movies in a franchise, use searchTMDB to find the title, then getTMDBDetails for full info, then getSimilar or getRecommendations to find related titles in the franchise.
- IMPORTANT: For every movie or series you suggest, you MUST first use searchTMDB to find its TMDB ID, then format the title as a markdown link using this exact pattern: [Title](add:movie/TMDB_ID) for movies or [Title](add:tv/TMDB_ID) for TV series. Always include the TMDB ID in the link — never suggest a title without this link format.
- Format suggestions as short lists: linked title, one-sentence pitch, and why it matches their taste.
- If the user asks about a specific upcoming title, search for it on TMDB first to get its ID, then use getSimilar/getRecommendations.`, BuildLibraryContext(library))
}
