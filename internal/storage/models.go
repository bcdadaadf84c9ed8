package storage

import "time"

// StateRecord is the durable bookkeeping row for one song.
// A row exists if and only if the song has been successfully processed at
// least once, including the zero-chunk terminal case. Its lyrics_hash must
// always equal the hash of the lyrics currently embedded for that song in
// the vector index.
type StateRecord struct {
	SongID       string
	LyricsHash   string
	MetadataHash string
	UpdatedAt    time.Time
}
