package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_state_store.go -package=mocks raaga-ai/internal/storage StateStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// StateStore defines the interface for ingestion state operations.
type StateStore interface {
	// Get returns the state record for a song.
	// Returns nil and ErrNotFound if the song was never processed.
	Get(ctx context.Context, songID string) (*StateRecord, error)
	// Upsert inserts or overwrites the state record for a song in a single
	// statement, so concurrent readers never observe a partial row.
	Upsert(ctx context.Context, songID, lyricsHash, metadataHash string) error
}

// StateRepo provides methods for ingestion state operations.
// It implements the StateStore interface.
type StateRepo struct {
	db *sql.DB
}

// NewStateRepo creates a new StateRepo.
func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

// Get returns the state record for a song.
// Returns nil and ErrNotFound if the song was never processed.
func (r *StateRepo) Get(ctx context.Context, songID string) (*StateRecord, error) {
	var rec StateRecord
	var updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT song_id, lyrics_hash, metadata_hash, updated_at FROM song_state WHERE song_id = ?",
		songID,
	).Scan(&rec.SongID, &rec.LyricsHash, &rec.MetadataHash, &updatedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query song state: %w", err)
	}

	rec.UpdatedAt, err = time.Parse("2006-01-02 15:04:05", updatedAtStr)
	if err != nil {
		// SQLite may emit RFC3339 depending on how the value was written.
		rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
		}
	}

	return &rec, nil
}

// Upsert inserts or overwrites the state record for a song.
// The timestamp is refreshed on every successful re-ingestion.
func (r *StateRepo) Upsert(ctx context.Context, songID, lyricsHash, metadataHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO song_state (song_id, lyrics_hash, metadata_hash, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (song_id) DO UPDATE SET
		 lyrics_hash = excluded.lyrics_hash, metadata_hash = excluded.metadata_hash, updated_at = CURRENT_TIMESTAMP`,
		songID, lyricsHash, metadataHash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert song state: %w", err)
	}

	return nil
}
