package indexer

import "fmt"

// Stats summarizes one ingestion run.
type Stats struct {
	// RowsScanned is the number of catalog rows examined.
	RowsScanned int `json:"rows_scanned"`
	// SongsIngested is the number of songs embedded and upserted this run.
	SongsIngested int `json:"songs_ingested"`
	// SongsSkipped is the number of songs whose lyrics hash was unchanged.
	SongsSkipped int `json:"songs_skipped"`
	// ZeroChunkSongs is the number of songs committed with no embeddable content.
	ZeroChunkSongs int `json:"zero_chunk_songs"`
	// SongsFailed is the number of songs left un-committed due to errors.
	SongsFailed int `json:"songs_failed"`
	// PointsUpserted is the total number of chunk points written.
	PointsUpserted int `json:"points_upserted"`
}

// String renders a one-line run summary.
func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d ingested=%d skipped=%d zero_chunks=%d failed=%d points=%d",
		s.RowsScanned, s.SongsIngested, s.SongsSkipped, s.ZeroChunkSongs, s.SongsFailed, s.PointsUpserted)
}
