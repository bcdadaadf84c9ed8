package indexer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	llm_mocks "raaga-ai/internal/llm/mocks"
	"raaga-ai/internal/songs"
	"raaga-ai/internal/storage"
	storage_mocks "raaga-ai/internal/storage/mocks"
	"raaga-ai/internal/vectorstore"
	vectorstore_mocks "raaga-ai/internal/vectorstore/mocks"
)

const testCollection = "songs_test"

type pipelineMocks struct {
	state    *storage_mocks.MockStateStore
	embedder *llm_mocks.MockEmbedder
	vectors  *vectorstore_mocks.MockVectorStore
}

func newTestPipeline(t *testing.T) (*Pipeline, pipelineMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := pipelineMocks{
		state:    storage_mocks.NewMockStateStore(ctrl),
		embedder: llm_mocks.NewMockEmbedder(ctrl),
		vectors:  vectorstore_mocks.NewMockVectorStore(ctrl),
	}

	p, err := NewPipeline(m.state, m.embedder, m.vectors, testCollection, 1200, 200)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return p, m
}

func testSong(lyrics string) songs.Song {
	cleaned := songs.CleanLyrics(lyrics)
	meta := songs.Metadata{Title: "Kadhal Konden", Singer: "Yuvan", Movie: "Kadhal Konden", Year: "2003", Mood: "melancholic"}
	return songs.Song{
		ID:           songs.SongID(meta.Title, meta.Singer, meta.Movie, meta.Year),
		Lyrics:       cleaned,
		LyricsHash:   songs.LyricsHash(cleaned),
		MetadataHash: songs.MetadataHash(meta),
		Meta:         meta,
	}
}

func TestNewPipeline_InvalidChunkConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := NewPipeline(
		storage_mocks.NewMockStateStore(ctrl),
		llm_mocks.NewMockEmbedder(ctrl),
		vectorstore_mocks.NewMockVectorStore(ctrl),
		testCollection, 200, 200,
	)
	if err == nil {
		t.Error("NewPipeline() with chunk_size <= overlap should fail")
	}
}

func TestIngestSong_NewSong(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	song := testSong(strings.Repeat("x", 1500))

	m.state.EXPECT().Get(ctx, song.ID).Return(nil, storage.ErrNotFound)

	var captured []vectorstore.Point
	gomock.InOrder(
		m.embedder.EXPECT().EmbedTexts(ctx, gomock.Len(2)).
			Return([][]float32{{0.1, 0.2}, {0.3, 0.4}}, nil),
		m.vectors.EXPECT().Upsert(ctx, testCollection, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
				captured = points
				return nil
			}),
		m.state.EXPECT().Upsert(ctx, song.ID, song.LyricsHash, song.MetadataHash).Return(nil),
	)

	res, err := p.IngestSong(ctx, song)
	if err != nil {
		t.Fatalf("IngestSong() error = %v", err)
	}
	if res.Action != ActionIngested || res.Points != 2 {
		t.Errorf("IngestSong() = %+v, want ingested with 2 points", res)
	}

	if len(captured) != 2 {
		t.Fatalf("upserted %d points, want 2", len(captured))
	}
	if captured[0].ID != PointID(song.ID, 0) || captured[1].ID != PointID(song.ID, 1) {
		t.Error("point IDs are not the deterministic ids for (song, chunk)")
	}
	if captured[0].ID == captured[1].ID {
		t.Error("chunk point IDs must be distinct")
	}
	payload := songs.PayloadFromMap(captured[0].Payload)
	if payload.SongID != song.ID || payload.Mood != "melancholic" || payload.ChunkText == "" {
		t.Errorf("point payload incomplete: %+v", payload)
	}
}

func TestIngestSong_UnchangedIsNoOp(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	song := testSong("same old lyrics")

	// Only the state read happens; any write to the vector store or the
	// state store would fail the test as an unexpected call.
	m.state.EXPECT().Get(ctx, song.ID).
		Return(&storage.StateRecord{SongID: song.ID, LyricsHash: song.LyricsHash, MetadataHash: song.MetadataHash}, nil)

	res, err := p.IngestSong(ctx, song)
	if err != nil {
		t.Fatalf("IngestSong() error = %v", err)
	}
	if res.Action != ActionSkipped {
		t.Errorf("IngestSong() action = %v, want ActionSkipped", res.Action)
	}
}

func TestIngestSong_ChangedDeletesBeforeUpsert(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	song := testSong(strings.Repeat("y", 1500))

	m.state.EXPECT().Get(ctx, song.ID).
		Return(&storage.StateRecord{SongID: song.ID, LyricsHash: "stale-hash"}, nil)

	gomock.InOrder(
		m.vectors.EXPECT().DeleteByFilter(ctx, testCollection, vectorstore.BySongID(song.ID)).Return(nil),
		m.embedder.EXPECT().EmbedTexts(ctx, gomock.Len(2)).
			Return([][]float32{{0.1}, {0.2}}, nil),
		m.vectors.EXPECT().Upsert(ctx, testCollection, gomock.Len(2)).Return(nil),
		m.state.EXPECT().Upsert(ctx, song.ID, song.LyricsHash, song.MetadataHash).Return(nil),
	)

	res, err := p.IngestSong(ctx, song)
	if err != nil {
		t.Fatalf("IngestSong() error = %v", err)
	}
	if res.Action != ActionIngested {
		t.Errorf("IngestSong() action = %v, want ActionIngested", res.Action)
	}
}

func TestIngestSong_ZeroChunksCommitsState(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	song := testSong("")

	m.state.EXPECT().Get(ctx, song.ID).Return(nil, storage.ErrNotFound)
	m.state.EXPECT().Upsert(ctx, song.ID, song.LyricsHash, song.MetadataHash).Return(nil)

	res, err := p.IngestSong(ctx, song)
	if err != nil {
		t.Fatalf("IngestSong() error = %v", err)
	}
	if res.Action != ActionZeroChunks || res.Points != 0 {
		t.Errorf("IngestSong() = %+v, want zero-chunk commit", res)
	}
}

func TestIngestSong_EmbedFailureLeavesStateUntouched(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	song := testSong("short lyrics")

	m.state.EXPECT().Get(ctx, song.ID).Return(nil, storage.ErrNotFound)
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return(nil, errors.New("embedding server down"))

	if _, err := p.IngestSong(ctx, song); err == nil {
		t.Error("IngestSong() should fail when embedding fails")
	}
	// No state Upsert expectation: committing here would break the retry
	// guarantee and gomock would flag the unexpected call.
}

func TestIngestSong_UpsertFailureLeavesStateUntouched(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	song := testSong("short lyrics")

	m.state.EXPECT().Get(ctx, song.ID).Return(nil, storage.ErrNotFound)
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return([][]float32{{0.5}}, nil)
	m.vectors.EXPECT().Upsert(ctx, testCollection, gomock.Any()).Return(errors.New("index unavailable"))

	if _, err := p.IngestSong(ctx, song); err == nil {
		t.Error("IngestSong() should fail when the vector upsert fails")
	}
}

func TestIngestSong_StateCommitFailureIsAnError(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	song := testSong("short lyrics")

	m.state.EXPECT().Get(ctx, song.ID).Return(nil, storage.ErrNotFound)
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return([][]float32{{0.5}}, nil)
	m.vectors.EXPECT().Upsert(ctx, testCollection, gomock.Any()).Return(nil)
	m.state.EXPECT().Upsert(ctx, song.ID, song.LyricsHash, song.MetadataHash).Return(errors.New("disk full"))

	if _, err := p.IngestSong(ctx, song); err == nil {
		t.Error("IngestSong() must surface a state commit failure so the song is retried")
	}
}

type stubSource struct {
	songs []songs.Song
	err   error
}

func (s *stubSource) Songs(ctx context.Context) ([]songs.Song, error) {
	return s.songs, s.err
}

func TestIngestAll_IsolatesPerSongFailures(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()

	good := testSong("good lyrics here")
	bad := songs.Song{ID: "bad-song", Lyrics: "bad lyrics", LyricsHash: "bh", MetadataHash: "mh"}
	unchanged := songs.Song{ID: "old-song", Lyrics: "old lyrics", LyricsHash: "oh", MetadataHash: "omh"}

	m.state.EXPECT().Get(ctx, good.ID).Return(nil, storage.ErrNotFound)
	m.state.EXPECT().Get(ctx, bad.ID).Return(nil, storage.ErrNotFound)
	m.state.EXPECT().Get(ctx, unchanged.ID).
		Return(&storage.StateRecord{SongID: unchanged.ID, LyricsHash: "oh"}, nil)

	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return([][]float32{{0.1}}, nil)
	m.vectors.EXPECT().Upsert(ctx, testCollection, gomock.Any()).Return(nil)
	m.state.EXPECT().Upsert(ctx, good.ID, good.LyricsHash, good.MetadataHash).Return(nil)

	// The bad song fails at embedding and must not stop the batch.
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return(nil, errors.New("boom"))

	stats, err := p.IngestAll(ctx, &stubSource{songs: []songs.Song{good, bad, unchanged}})
	if err != nil {
		t.Fatalf("IngestAll() error = %v", err)
	}

	if stats.RowsScanned != 3 {
		t.Errorf("RowsScanned = %d, want 3", stats.RowsScanned)
	}
	if stats.SongsIngested != 1 || stats.SongsFailed != 1 || stats.SongsSkipped != 1 {
		t.Errorf("stats = %+v, want 1 ingested / 1 failed / 1 skipped", stats)
	}
}

func TestIngestAll_SourceError(t *testing.T) {
	p, _ := newTestPipeline(t)

	_, err := p.IngestAll(context.Background(), &stubSource{err: errors.New("no dataset")})
	if err == nil {
		t.Error("IngestAll() should surface source errors")
	}
}

func TestIngestAll_ContextCancellation(t *testing.T) {
	p, _ := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.IngestAll(ctx, &stubSource{songs: []songs.Song{testSong("lyrics")}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("IngestAll() error = %v, want context.Canceled", err)
	}
}

// blockingSource holds the batch open so a test can observe an in-flight run.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) Songs(ctx context.Context) ([]songs.Song, error) {
	close(s.started)
	<-s.release
	return nil, nil
}

func TestIngestAll_SingleRunAtATime(t *testing.T) {
	p, _ := newTestPipeline(t)

	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	done := make(chan error, 1)
	go func() {
		_, err := p.IngestAll(context.Background(), src)
		done <- err
	}()
	<-src.started

	if !p.Running() {
		t.Error("Running() = false during an active run")
	}

	// A second run while the first is in flight would race delete-then-upsert
	// against the first run's writes for the same song.
	if _, err := p.IngestAll(context.Background(), &stubSource{}); !errors.Is(err, ErrIngestInProgress) {
		t.Errorf("concurrent IngestAll() error = %v, want ErrIngestInProgress", err)
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first IngestAll() error = %v", err)
	}
	if p.Running() {
		t.Error("Running() = true after the run finished")
	}
}
