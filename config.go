package caterva

import "sync"

// CodecName selects the compressor used by a Blosc-backed storage back-end.
// Blosc2 is the primary codec; zstd is a second real codec exercised the
// way zarr/dataset.go's NextBatch picks a compressor by the metadata's
// Compressor.ID.
type CodecName string

const (
	CodecBlosc CodecName = "blosc"
	CodecZstd  CodecName = "zstd"
)

// CompParams are forwarded opaquely to the selected codec on append.
// ItemSize mirrors blosc2_cparams.typesize in original_source/caterva.h's
// caterva_ctx_t: the C API fixes itemsize per-context rather than per
// new_empty call, so this package does the same — every Array created
// from a Context shares that Context's ItemSize.
type CompParams struct {
	Codec    CodecName
	Level    int // compression level, codec-specific range
	Shuffle  bool
	ItemSize int
}

// DecompParams are forwarded opaquely to the selected codec on decompress.
// Kept as a distinct type from CompParams, mirroring the super-chunk
// layer's separate compression/decompression parameter structs, even
// though neither codec wired here needs decode-time tuning today.
type DecompParams struct{}

// BufferPool stands in for the element allocator/deallocator pair a
// malloc-based implementation would expose. Go has no analogous
// malloc/free hook, so the context
// instead exposes a pool for the fixed-size staging buffers used by
// FromBuffer/ToBuffer/GetSlice: Get returns a buffer of at least n bytes,
// Put returns it for reuse. The default is a plain allocate-every-time
// implementation; SyncPoolBuffers recycles via sync.Pool for callers doing
// many slice/import/export calls in a hot loop.
type BufferPool interface {
	Get(n int) []byte
	Put([]byte)
}

type plainBufferPool struct{}

func (plainBufferPool) Get(n int) []byte { return make([]byte, n) }
func (plainBufferPool) Put([]byte)       {}

type syncPoolBuffers struct {
	pool sync.Pool
}

// SyncPoolBuffers returns a BufferPool backed by sync.Pool. Buffers
// returned by Get are zeroed.
func SyncPoolBuffers() BufferPool {
	return &syncPoolBuffers{}
}

func (p *syncPoolBuffers) Get(n int) []byte {
	if v := p.pool.Get(); v != nil {
		b := v.([]byte)
		if cap(b) >= n {
			b = b[:n]
			for i := range b {
				b[i] = 0
			}
			return b
		}
	}
	return make([]byte, n)
}

func (p *syncPoolBuffers) Put(b []byte) {
	p.pool.Put(b) //nolint:staticcheck // intentional: pool value not a pointer, matches sync.Pool's slice-reuse idiom
}

// Context bundles the allocator, compression/decompression parameters and
// logger shared by every operation against the arrays it creates. The
// context outlives every array created from it.
type Context struct {
	Buffers BufferPool
	Comp    CompParams
	Decomp  DecompParams
	Logger  Logger
}

// NewContext returns a Context with system defaults: a plain allocator, the
// blosc codec at level 5, and a no-op logger.
func NewContext() *Context {
	return &Context{
		Buffers: plainBufferPool{},
		Comp:    CompParams{Codec: CodecBlosc, Level: 5, Shuffle: true, ItemSize: 8},
		Logger:  noopLogger{},
	}
}

func (c *Context) logger() Logger {
	if c == nil || c.Logger == nil {
		return noopLogger{}
	}
	return c.Logger
}

func (c *Context) buffers() BufferPool {
	if c == nil || c.Buffers == nil {
		return plainBufferPool{}
	}
	return c.Buffers
}
