package enrich

import (
	"net/url"
	"strings"
)

// YouTubeSearchURL builds a search-results placeholder URL for a song.
// It is stored until a real watch URL is resolved, so the UI always has
// something clickable.
func YouTubeSearchURL(title, movie, year string) string {
	q := title
	if movie != "" {
		q += " " + movie
	}
	if year != "" {
		q += " " + year
	}
	q += " Tamil song"
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(q)
}

// IsResolvedYouTubeURL reports whether a stored URL points at an actual
// video rather than a search-results placeholder.
func IsResolvedYouTubeURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}
	if strings.Contains(u, "youtube.com/results") && strings.Contains(u, "search_query=") {
		return false
	}
	return strings.Contains(u, "youtube.com/watch") || strings.Contains(u, "youtu.be/")
}
