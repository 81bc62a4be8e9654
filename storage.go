package caterva

import (
	"context"
	"strconv"
	"strings"
)

// StorageKind selects which of the two closed storage variants
// backs an Array.
type StorageKind int

const (
	// KindBlosc: an in-memory (or, with a Frame, persisted) ordered
	// sequence of compressed chunks.
	KindBlosc StorageKind = iota
	// KindPlain: a single contiguous uncompressed buffer, one chunk.
	KindPlain
)

// chunkKey renders a chunk's grid coordinate into the super-chunk's
// storage key, "."-joined the way Zarr keys its chunk files
// (zarr/chunk.go's ChunkKey; "0" for the 0-d/degenerate case).
func chunkKey(coords []int64) string {
	if len(coords) == 0 {
		return "0"
	}
	if len(coords) == 1 {
		return strconv.FormatInt(coords[0], 10)
	}
	var sb strings.Builder
	for i, c := range coords {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatInt(c, 10))
	}
	return sb.String()
}

// storage is the back-end interface both storage variants implement:
// append an opaque chunk, decompress chunk c into out, report how many
// chunks exist, and release.
type storage interface {
	kind() StorageKind
	numChunks() int64
	appendChunk(ctx context.Context, data []byte) error
	decompressChunk(ctx context.Context, index int64, out []byte) error
	// getFrame returns the attached frame, or nil if this storage is
	// in-memory only.
	getFrame() *frame
	close() error
}
