package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/llm"
	"raaga-ai/internal/songs"
	"raaga-ai/internal/storage"
	"raaga-ai/internal/vectorstore"
)

// Source yields the normalized songs to ingest.
// *catalog.Loader implements it for the JSONL dataset.
type Source interface {
	Songs(ctx context.Context) ([]songs.Song, error)
}

// ErrIngestInProgress is returned by IngestAll when a run is already active.
// Overlapping runs would race the delete-then-upsert step against another
// run's in-flight writes for the same song.
var ErrIngestInProgress = errors.New("ingestion already in progress")

// Action describes what IngestSong did with a song.
type Action int

const (
	// ActionSkipped means the lyrics hash was unchanged, so nothing was
	// written anywhere. This is the idempotence guarantee.
	ActionSkipped Action = iota
	// ActionIngested means chunks were embedded and upserted and state
	// was committed.
	ActionIngested
	// ActionZeroChunks means the song produced no chunks; state was
	// committed with zero vector writes so the song is not retried forever.
	ActionZeroChunks
)

// Result reports the outcome of ingesting one song.
type Result struct {
	Action Action
	Points int
}

// Pipeline drives the per-song ingestion state machine:
// diff state → (delete stale points) → chunk → embed → upsert → commit state.
type Pipeline struct {
	stateRepo    storage.StateStore
	embedder     llm.Embedder
	vectorStore  vectorstore.VectorStore
	collection   string
	chunkSize    int
	chunkOverlap int

	// running serializes batch runs; set for the duration of IngestAll.
	running atomic.Bool
}

// NewPipeline creates a new ingestion pipeline.
// The chunking parameters are validated here so a bad configuration fails
// before any I/O happens.
func NewPipeline(
	stateRepo storage.StateStore,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkSize, chunkOverlap int,
) (*Pipeline, error) {
	if chunkSize <= chunkOverlap {
		return nil, fmt.Errorf("invalid chunking config: chunk_size (%d) must be greater than overlap (%d)", chunkSize, chunkOverlap)
	}
	return &Pipeline{
		stateRepo:    stateRepo,
		embedder:     embedder,
		vectorStore:  vectorStore,
		collection:   collection,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// IngestSong runs the state machine for a single song.
//
// The ordering inside is the pipeline's correctness contract: stale points
// are deleted before new ones are written, and the state record is committed
// only after the upsert succeeds. A crash before the upsert leaves the song
// NEW/CHANGED for the next run; a crash between upsert and commit costs one
// redundant re-embedding, never a wrong index.
func (p *Pipeline) IngestSong(ctx context.Context, song songs.Song) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prev, err := p.stateRepo.Get(ctx, song.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return Result{}, fmt.Errorf("failed to read song state: %w", err)
	}

	if prev != nil && prev.LyricsHash == song.LyricsHash {
		logger.DebugContext(ctx, "skipping unchanged song", "song_id", song.ID, "title", song.Meta.Title)
		return Result{Action: ActionSkipped}, nil
	}

	// Changed song: remove every existing point for it before writing, so a
	// shrink in chunk count cannot leave stale chunks behind.
	if prev != nil {
		if err := p.vectorStore.DeleteByFilter(ctx, p.collection, vectorstore.BySongID(song.ID)); err != nil {
			return Result{}, fmt.Errorf("failed to delete stale points: %w", err)
		}
	}

	chunks, err := ChunkLyrics(song.Lyrics, p.chunkSize, p.chunkOverlap)
	if err != nil {
		return Result{}, err
	}

	if len(chunks) == 0 {
		// Unembeddable content is a valid terminal state. Commit so the
		// song is not re-attempted every run.
		if err := p.stateRepo.Upsert(ctx, song.ID, song.LyricsHash, song.MetadataHash); err != nil {
			return Result{}, fmt.Errorf("failed to commit song state: %w", err)
		}
		logger.InfoContext(ctx, "song has no chunks, state committed", "song_id", song.ID, "title", song.Meta.Title)
		return Result{Action: ActionZeroChunks}, nil
	}

	vectors, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return Result{}, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return Result{}, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vectors))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:      PointID(song.ID, i),
			Vec:     vectors[i],
			Payload: songs.NewChunkPayload(song, i, chunk).AsMap(),
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return Result{}, fmt.Errorf("failed to upsert points: %w", err)
	}

	// State advances only after the points are durably written.
	if err := p.stateRepo.Upsert(ctx, song.ID, song.LyricsHash, song.MetadataHash); err != nil {
		return Result{}, fmt.Errorf("failed to commit song state: %w", err)
	}

	logger.InfoContext(ctx, "ingested song", "song_id", song.ID, "title", song.Meta.Title, "chunks", len(chunks), "changed", prev != nil)
	return Result{Action: ActionIngested, Points: len(points)}, nil
}

// Running reports whether a batch run is currently in flight.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// IngestAll streams songs from the source and ingests each one.
// A failure on one song is logged and counted but never aborts the batch or
// touches the state of other songs. At most one run is active at a time;
// concurrent calls fail with ErrIngestInProgress.
func (p *Pipeline) IngestAll(ctx context.Context, source Source) (Stats, error) {
	if !p.running.CompareAndSwap(false, true) {
		return Stats{}, ErrIngestInProgress
	}
	defer p.running.Store(false)

	logger := contextutil.LoggerFromContext(ctx)

	records, err := source.Songs(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load songs: %w", err)
	}

	logger.InfoContext(ctx, "starting ingestion", "total_songs", len(records))

	var stats Stats
	for _, song := range records {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		stats.RowsScanned++

		res, err := p.IngestSong(ctx, song)
		if err != nil {
			stats.SongsFailed++
			logger.ErrorContext(ctx, "failed to ingest song", "song_id", song.ID, "title", song.Meta.Title, "error", err)
			continue
		}

		switch res.Action {
		case ActionSkipped:
			stats.SongsSkipped++
		case ActionZeroChunks:
			stats.ZeroChunkSongs++
		case ActionIngested:
			stats.SongsIngested++
			stats.PointsUpserted += res.Points
		}
	}

	logger.InfoContext(ctx, "ingestion completed",
		"scanned", stats.RowsScanned,
		"ingested", stats.SongsIngested,
		"skipped", stats.SongsSkipped,
		"zero_chunks", stats.ZeroChunkSongs,
		"failed", stats.SongsFailed,
		"points", stats.PointsUpserted,
	)

	return stats, nil
}
