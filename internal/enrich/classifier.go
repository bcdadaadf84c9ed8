package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"raaga-ai/internal/llm"
)

// Closed label sets keep classifier output consistent across runs. Anything
// outside them collapses to "unknown".
var (
	allowedMoods   = []string{"romantic", "happy", "melancholic", "sad", "kuthu", "angry", "devotional", "inspirational", "unknown"}
	allowedRhythms = []string{"slow", "mid", "fast", "unknown"}
	allowedGenres  = []string{"love", "dance", "devotion", "friendship", "heartbreak", "nostalgia", "celebration", "anger", "unknown"}
)

// Classification is the model's judgment of a song from its metadata alone.
type Classification struct {
	Mood       string  `json:"mood"`
	Rhythm     string  `json:"rhythm"`
	Genre      string  `json:"genre"`
	Confidence float64 `json:"confidence"`
}

// Classifier labels songs with a chat model using only title/movie/year.
type Classifier struct {
	llmClient *llm.Client
}

// NewClassifier creates a classifier backed by the chat client.
func NewClassifier(llmClient *llm.Client) *Classifier {
	return &Classifier{llmClient: llmClient}
}

func classifyPrompt(title, movie, year string) string {
	return strings.TrimSpace(fmt.Sprintf(`You are classifying a Tamil song using ONLY the metadata given.
Return JSON ONLY. No markdown.

Fields:
- mood: one of %v
- rhythm: one of %v
- genre: one of %v
- confidence: number 0.0 to 1.0

Rules:
- If unsure, set "unknown" and low confidence.
- Use title/movie/year hints only.

Song:
title: %s
movie: %s
year: %s`, allowedMoods, allowedRhythms, allowedGenres, title, movie, year))
}

// ClassifySong asks the model for mood/rhythm/genre labels.
// The reply is hard-validated: out-of-set labels become "unknown" and the
// confidence is clamped to [0, 1], so callers can store the result as-is.
func (c *Classifier) ClassifySong(ctx context.Context, title, movie, year string) (Classification, error) {
	reply, err := c.llmClient.Chat(ctx, []llm.Message{
		{Role: "user", Content: classifyPrompt(title, movie, year)},
	}, 0)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to classify song: %w", err)
	}

	var out Classification
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &out); err != nil {
		return Classification{}, fmt.Errorf("model reply is not valid JSON: %w", err)
	}

	out.Mood = coerceLabel(out.Mood, allowedMoods)
	out.Rhythm = coerceLabel(out.Rhythm, allowedRhythms)
	out.Genre = coerceLabel(out.Genre, allowedGenres)
	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 1 {
		out.Confidence = 1
	}
	return out, nil
}

// coerceLabel maps anything outside the allowed set to "unknown".
func coerceLabel(value string, allowed []string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, v := range allowed {
		if value == v {
			return value
		}
	}
	return "unknown"
}

// stripCodeFence tolerates models that wrap JSON in a markdown fence despite
// being told not to.
func stripCodeFence(reply string) string {
	reply = strings.TrimSpace(reply)
	if !strings.HasPrefix(reply, "```") {
		return reply
	}
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	return strings.TrimSpace(reply)
}
