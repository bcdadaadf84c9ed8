package enrich

import (
	"strings"
	"testing"
)

func TestYouTubeSearchURL(t *testing.T) {
	url := YouTubeSearchURL("Munbe Vaa", "Sillunu Oru Kaadhal", "2006")

	if !strings.HasPrefix(url, "https://www.youtube.com/results?search_query=") {
		t.Errorf("url = %q, want a search results url", url)
	}
	for _, part := range []string{"Munbe+Vaa", "Sillunu+Oru+Kaadhal", "2006", "Tamil+song"} {
		if !strings.Contains(url, part) {
			t.Errorf("url %q missing %q", url, part)
		}
	}
}

func TestYouTubeSearchURL_OptionalParts(t *testing.T) {
	url := YouTubeSearchURL("Munbe Vaa", "", "")
	if strings.Contains(url, "++") {
		t.Errorf("url %q has empty segments", url)
	}
}

func TestIsResolvedYouTubeURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=abc123", true},
		{"short url", "https://youtu.be/abc123", true},
		{"search placeholder", "https://www.youtube.com/results?search_query=munbe+vaa", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"unrelated url", "https://example.com/video", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsResolvedYouTubeURL(tt.url); got != tt.expected {
				t.Errorf("IsResolvedYouTubeURL(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}
