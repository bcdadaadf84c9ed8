package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// itunesSearchURL is the public, keyless music metadata endpoint.
const itunesSearchURL = "https://itunes.apple.com/search"

// genreToMood maps web genre strings to the mood vocabulary.
// Lookups are substring-based, so "tamil dance" still maps via "dance".
var genreToMood = map[string]string{
	"love song":  "romantic",
	"romance":    "romantic",
	"melody":     "romantic",
	"sad song":   "sad",
	"devotional": "devotional",
	"folk":       "happy",
	"dance":      "kuthu",
	"hip hop":    "kuthu",
	"hip-hop":    "kuthu",
	"rap":        "kuthu",
	"rock":       "happy",
}

var rhythmKeywords = map[string]string{
	"dance":      "fast",
	"hip hop":    "fast",
	"hip-hop":    "fast",
	"rap":        "fast",
	"rock":       "mid",
	"folk":       "mid",
	"melody":     "slow",
	"love":       "slow",
	"romance":    "slow",
	"sad":        "slow",
	"devotional": "slow",
}

// WebMeta is metadata resolved from a public music API.
type WebMeta struct {
	Genre      string
	Rhythm     string
	Mood       string
	Source     string
	Confidence float64
}

// WebResolver looks up genre hints for a song on the iTunes Search API.
// Everything about it is best-effort: a lookup miss is (nil, nil), and
// callers are expected to drop errors after logging them.
type WebResolver struct {
	client *resty.Client
}

// NewWebResolver creates a resolver against the public iTunes endpoint.
func NewWebResolver() *WebResolver {
	return NewWebResolverWithURL(itunesSearchURL)
}

// NewWebResolverWithURL creates a resolver against a specific endpoint,
// which tests point at a local server.
func NewWebResolverWithURL(searchURL string) *WebResolver {
	client := resty.New().
		SetBaseURL(searchURL).
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", "raaga-ai/1.0")
	return &WebResolver{client: client}
}

type itunesResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackName        string `json:"trackName"`
		ArtistName       string `json:"artistName"`
		PrimaryGenreName string `json:"primaryGenreName"`
	} `json:"results"`
}

// Resolve searches for the song and infers mood/rhythm from the genre.
// Returns (nil, nil) when the song is simply not found.
func (r *WebResolver) Resolve(ctx context.Context, title, singer string) (*WebMeta, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}

	term := title
	if singer != "" {
		term += " " + singer
	}

	var parsed itunesResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"term":  term,
			"media": "music",
			"limit": "1",
		}).
		SetResult(&parsed).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("failed to query music api: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("music api returned status %d", resp.StatusCode())
	}

	if parsed.ResultCount == 0 || len(parsed.Results) == 0 {
		return nil, nil
	}

	genre := strings.ToLower(parsed.Results[0].PrimaryGenreName)
	if genre == "" {
		return nil, nil
	}

	return &WebMeta{
		Genre:      genre,
		Rhythm:     inferRhythm(genre),
		Mood:       inferMood(genre),
		Source:     "itunes",
		Confidence: 0.55,
	}, nil
}

func inferRhythm(genre string) string {
	for keyword, rhythm := range rhythmKeywords {
		if strings.Contains(genre, keyword) {
			return rhythm
		}
	}
	return "unknown"
}

func inferMood(genre string) string {
	for keyword, mood := range genreToMood {
		if strings.Contains(genre, keyword) {
			return mood
		}
	}
	return ""
}
