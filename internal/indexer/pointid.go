package indexer

import (
	"fmt"

	"github.com/google/uuid"
)

// pointNamespace is the fixed namespace for deterministic point IDs.
// It must never change: point IDs derived from it are what make re-upserts
// overwrite in place instead of accumulating duplicates.
var pointNamespace = uuid.MustParse("12345678-1234-5678-1234-567812345678")

// PointID maps (songID, chunkIndex) to a stable UUIDv5 for the vector index.
// Identical inputs always yield the same ID across process restarts, and
// different chunk indexes of the same song never collide.
func PointID(songID string, chunkIndex int) string {
	return uuid.NewSHA1(pointNamespace, []byte(fmt.Sprintf("%s:%d", songID, chunkIndex))).String()
}
