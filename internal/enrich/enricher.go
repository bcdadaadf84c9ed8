package enrich

import (
	"context"
	"errors"
	"time"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/retrieval"
	"raaga-ai/internal/songs"
	"raaga-ai/internal/vectorstore"
)

// webMetaCandidateCap bounds web lookups per request so one playlist cannot
// trigger dozens of external calls.
const webMetaCandidateCap = 3

// Stats counts the payload patches saved during one enrichment pass.
type Stats struct {
	YouTubeURLsSaved int `json:"youtube_urls_saved"`
	MusicMetaSaved   int `json:"music_meta_saved"`
}

// Enricher patches advisory metadata (YouTube URLs, web genre hints) onto
// song payloads. Every operation is best-effort: failures are logged and
// skipped, and the caller's playlist is returned regardless.
type Enricher struct {
	vectorStore vectorstore.VectorStore
	collection  string
	web         *WebResolver // nil disables web metadata resolution
	classifier  *Classifier  // nil disables LLM labeling
}

// NewEnricher creates an enricher. The resolver and classifier are optional;
// nil disables the corresponding pass.
func NewEnricher(vectorStore vectorstore.VectorStore, collection string, web *WebResolver, classifier *Classifier) *Enricher {
	return &Enricher{
		vectorStore: vectorStore,
		collection:  collection,
		web:         web,
		classifier:  classifier,
	}
}

// EnrichPlaylist makes sure every song in the playlist carries a YouTube URL
// (a search placeholder when nothing better is known) and resolves web genre
// hints for a few songs that lack them. Patches are written back to every
// chunk of the song so future retrievals see them.
func (e *Enricher) EnrichPlaylist(ctx context.Context, hits []retrieval.SongHit) ([]retrieval.SongHit, Stats) {
	var stats Stats
	out := make([]retrieval.SongHit, len(hits))
	copy(out, hits)

	for i := range out {
		if out[i].YouTubeURL == "" {
			out[i].YouTubeURL = YouTubeSearchURL(out[i].Title, out[i].Movie, out[i].Year)
		}
		if e.patchYouTubeURL(ctx, out[i].SongID, out[i].YouTubeURL) {
			stats.YouTubeURLsSaved++
		}
	}

	stats.MusicMetaSaved = e.resolveMusicMeta(ctx, out)
	return out, stats
}

// EnrichYouTube resolves missing YouTube URLs for the given songs and patches
// them into the collection. Unknown song ids are skipped, not errors.
func (e *Enricher) EnrichYouTube(ctx context.Context, songIDs []string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)
	updated := 0

	for _, songID := range songIDs {
		if songID == "" {
			continue
		}

		points, err := e.vectorStore.Scroll(ctx, e.collection, vectorstore.BySongID(songID), 1, false)
		if err != nil {
			logger.WarnContext(ctx, "failed to look up song for enrichment", "song_id", songID, "error", err)
			continue
		}
		if len(points) == 0 {
			continue
		}

		if url, _ := points[0].Payload["youtube_url"].(string); url != "" {
			continue
		}

		payload := songs.PayloadFromMap(points[0].Payload)
		url := YouTubeSearchURL(payload.Title, payload.Movie, payload.Year)
		if e.patchYouTubeURL(ctx, songID, url) {
			updated++
		}
	}

	return updated, nil
}

// ErrNoClassifier is returned when LLM labeling is requested but no chat
// model is configured.
var ErrNoClassifier = errors.New("no classifier configured")

// EnrichLabels classifies each song with the chat model and patches the
// labels onto its chunks. LLM labels go to their own fields so they never
// clobber the dataset's curated mood.
func (e *Enricher) EnrichLabels(ctx context.Context, songIDs []string) (int, error) {
	if e.classifier == nil {
		return 0, ErrNoClassifier
	}
	logger := contextutil.LoggerFromContext(ctx)
	updated := 0

	for _, songID := range songIDs {
		if songID == "" {
			continue
		}

		points, err := e.vectorStore.Scroll(ctx, e.collection, vectorstore.BySongID(songID), 1, false)
		if err != nil {
			logger.WarnContext(ctx, "failed to look up song for labeling", "song_id", songID, "error", err)
			continue
		}
		if len(points) == 0 {
			continue
		}
		payload := songs.PayloadFromMap(points[0].Payload)

		labels, err := e.classifier.ClassifySong(ctx, payload.Title, payload.Movie, payload.Year)
		if err != nil {
			logger.WarnContext(ctx, "song classification failed", "song_id", songID, "error", err)
			continue
		}

		patch := map[string]any{
			"mood_llm":       labels.Mood,
			"genre_llm":      labels.Genre,
			"rhythm_llm":     labels.Rhythm,
			"llm_confidence": labels.Confidence,
			"llm_updated_at": time.Now().UTC().Format(time.RFC3339),
		}
		if err := e.vectorStore.SetPayload(ctx, e.collection, vectorstore.BySongID(songID), patch); err != nil {
			logger.WarnContext(ctx, "failed to patch llm labels", "song_id", songID, "error", err)
			continue
		}
		updated++
	}

	return updated, nil
}

// patchYouTubeURL writes the URL and its status classification onto every
// chunk of the song. Reports whether the patch was saved.
func (e *Enricher) patchYouTubeURL(ctx context.Context, songID, url string) bool {
	if songID == "" || url == "" {
		return false
	}
	logger := contextutil.LoggerFromContext(ctx)

	resolved := IsResolvedYouTubeURL(url)
	status := "placeholder"
	source := "search_placeholder"
	if resolved {
		status = "resolved"
		source = "youtube_resolver"
	}

	patch := map[string]any{
		"youtube_url":               url,
		"youtube_url_status":        status,
		"youtube_url_source":        source,
		"youtube_url_needs_refresh": !resolved,
		"youtube_url_resolved_at":   time.Now().UTC().Format(time.RFC3339),
	}

	if err := e.vectorStore.SetPayload(ctx, e.collection, vectorstore.BySongID(songID), patch); err != nil {
		logger.WarnContext(ctx, "failed to patch youtube url", "song_id", songID, "error", err)
		return false
	}
	return true
}

// resolveMusicMeta fills genre/rhythm hints from the web for songs that lack
// them, capped per call.
func (e *Enricher) resolveMusicMeta(ctx context.Context, hits []retrieval.SongHit) int {
	if e.web == nil {
		return 0
	}
	logger := contextutil.LoggerFromContext(ctx)

	var candidates []retrieval.SongHit
	for _, hit := range hits {
		if hit.Genre != "" && hit.Rhythm != "" {
			continue
		}
		if hit.SongID == "" || hit.Title == "" {
			continue
		}
		candidates = append(candidates, hit)
		if len(candidates) == webMetaCandidateCap {
			break
		}
	}

	saved := 0
	for _, hit := range candidates {
		meta, err := e.web.Resolve(ctx, hit.Title, hit.Singer)
		if err != nil {
			logger.WarnContext(ctx, "web metadata lookup failed", "song_id", hit.SongID, "error", err)
			continue
		}
		if meta == nil {
			continue
		}

		patch := map[string]any{
			"genre":           meta.Genre,
			"rhythm":          meta.Rhythm,
			"mood_web":        meta.Mood,
			"meta_source":     meta.Source,
			"meta_confidence": meta.Confidence,
		}
		if err := e.vectorStore.SetPayload(ctx, e.collection, vectorstore.BySongID(hit.SongID), patch); err != nil {
			logger.WarnContext(ctx, "failed to patch web metadata", "song_id", hit.SongID, "error", err)
			continue
		}
		saved++
	}

	return saved
}
