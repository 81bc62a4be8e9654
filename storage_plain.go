package caterva

import "context"

// plainStorage is the single contiguous allocation backing the
// PlainBuffer storage kind: chunk_shape == shape, exactly one chunk,
// row-major.
type plainStorage struct {
	buf      []byte
	itemsize int
	// written tracks whether buf holds real data yet, from any write path
	// (appendChunk, or a direct patch via SetSliceBuffer) — not just
	// whether appendChunk specifically was called.
	written bool
}

func newPlainStorage(ctx *Context, nitems int64, itemsize int) *plainStorage {
	return &plainStorage{buf: ctx.buffers().Get(int(nitems) * itemsize), itemsize: itemsize}
}

func (s *plainStorage) kind() StorageKind { return KindPlain }

func (s *plainStorage) numChunks() int64 {
	if s.written {
		return 1
	}
	return 0
}

// appendChunk for PlainBuffer writes the whole array's single chunk
// directly into buf (uncompressed). It succeeds at most once, and only for
// a chunk of exactly len(buf) bytes; any later call fails.
func (s *plainStorage) appendChunk(_ context.Context, data []byte) error {
	if s.written {
		return newErr(InvalidState, "appendChunk", errAlreadyWritten)
	}
	if len(data) != len(s.buf) {
		return newErrf(InvalidArgument, "appendChunk", "chunk is %d bytes, buffer is %d", len(data), len(s.buf))
	}
	copy(s.buf, data)
	s.written = true
	return nil
}

// markWritten records that buf now holds real data through a path other
// than appendChunk (SetSliceBuffer's direct patch).
func (s *plainStorage) markWritten() {
	s.written = true
}

func (s *plainStorage) decompressChunk(_ context.Context, index int64, out []byte) error {
	if index != 0 || !s.written {
		return newErrf(InvalidArgument, "decompressChunk", "plain storage has a single chunk at index 0")
	}
	copy(out, s.buf)
	return nil
}

func (s *plainStorage) getFrame() *frame { return nil }

func (s *plainStorage) close() error {
	s.buf = nil
	return nil
}
