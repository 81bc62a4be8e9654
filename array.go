package caterva

import "context"

// StorageParams selects and configures the storage back-end for a new
// Array.
type StorageParams struct {
	Kind StorageKind
	// FramePath, when non-empty and Kind == KindBlosc, opens a persisted
	// frame at this gocloud.dev/blob URL (e.g. "file:///var/data/a.caterva")
	// instead of keeping chunks purely in memory.
	FramePath string
}

// chunkCache holds the single most-recently-decompressed chunk:
// at-most-one decompressed chunk, invalidated whenever the array is
// mutated.
type chunkCache struct {
	index int64
	data  []byte
}

// Array is the owning record: shape/chunk_shape/ext_shape, itemsize, a
// storage back-end, and an optional one-chunk decompression cache. There
// is no cyclic ownership; storage is a tagged-variant interface
// ({*bloscStorage, *plainStorage}) — a single owned array record whose
// storage field is a tagged variant.
type Array struct {
	ctx *Context

	ndim     int
	itemsize int

	shape      [MaxDim]int64
	chunkShape [MaxDim]int64
	extShape   [MaxDim]int64

	nitems      int64
	extNitems   int64
	chunkNitems int64

	st storage

	cache chunkCache
}

// NDim returns the array's real (unpadded) dimensionality. A squeezed
// all-ones array reports 0.
func (a *Array) NDim() int { return a.ndim }

// ItemSize returns the fixed per-element byte size.
func (a *Array) ItemSize() int { return a.itemsize }

// Shape returns the logical shape, length NDim().
func (a *Array) Shape() []int64 {
	if a.ndim == 0 {
		return nil
	}
	return append([]int64(nil), a.shape[MaxDim-a.ndim:]...)
}

// ChunkShape returns the chunk shape, length NDim().
func (a *Array) ChunkShape() []int64 {
	if a.ndim == 0 {
		return nil
	}
	return append([]int64(nil), a.chunkShape[MaxDim-a.ndim:]...)
}

// ExtShape returns the extended (padded-to-chunk) shape, length NDim().
func (a *Array) ExtShape() []int64 {
	if a.ndim == 0 {
		return nil
	}
	return append([]int64(nil), a.extShape[MaxDim-a.ndim:]...)
}

// NItems returns the logical element count (product of Shape()).
func (a *Array) NItems() int64 { return a.nitems }

// Kind reports which storage back-end backs this array.
func (a *Array) Kind() StorageKind { return a.st.kind() }

func (a *Array) recomputeDerived(shape, chunkShape []int64) {
	a.shape = rightAlign(shape, a.ndim)
	a.chunkShape = rightAlign(chunkShape, a.ndim)
	ext := extShapeOf(unalign(a.shape, a.ndim), unalign(a.chunkShape, a.ndim))
	a.extShape = rightAlign(ext, a.ndim)

	a.nitems = product(unalign(a.shape, a.ndim))
	a.extNitems = product(unalign(a.extShape, a.ndim))
	a.chunkNitems = product(unalign(a.chunkShape, a.ndim))
}

func unalign(x [MaxDim]int64, ndim int) []int64 {
	if ndim == 0 {
		return nil
	}
	return append([]int64(nil), x[MaxDim-ndim:]...)
}

// NewEmpty allocates a new, unwritten Array of the given shape/chunkShape.
// itemsize comes from gctx.Comp.ItemSize (mirroring
// original_source/caterva.h's blosc2_cparams.typesize, which is
// context-level rather than a new_empty argument). For KindBlosc it
// creates the (optionally persisted) super-chunk with zero chunks and,
// when a frame is attached, writes the shape-metadata record into the
// "caterva" named slot. For KindPlain, chunkShape must equal shape and
// the buffer is allocated (but unwritten).
func NewEmpty(ctx context.Context, gctx *Context, params StorageParams, shape, chunkShape []int64) (*Array, error) {
	const op = "NewEmpty"
	if gctx == nil {
		gctx = NewContext()
	}
	ndim := len(shape)
	if ndim < 1 || ndim > MaxDim {
		return nil, newErrf(InvalidArgument, op, "ndim %d out of range [1,%d]", ndim, MaxDim)
	}
	if len(chunkShape) != ndim {
		return nil, newErrf(InvalidArgument, op, "chunk_shape length %d != shape length %d", len(chunkShape), ndim)
	}
	for i := range shape {
		if shape[i] < 1 {
			return nil, newErrf(InvalidArgument, op, "shape[%d]=%d must be >= 1", i, shape[i])
		}
		if chunkShape[i] < 1 {
			return nil, newErrf(InvalidArgument, op, "chunk_shape[%d]=%d must be >= 1", i, chunkShape[i])
		}
	}
	if params.Kind == KindPlain {
		for i := range shape {
			if chunkShape[i] != shape[i] {
				return nil, newErrf(InvalidArgument, op, "PlainBuffer requires chunk_shape == shape (axis %d: %d != %d)", i, chunkShape[i], shape[i])
			}
		}
	}

	itemsize := gctx.Comp.ItemSize
	if itemsize <= 0 {
		itemsize = 8
	}

	a := &Array{ctx: gctx, ndim: ndim, itemsize: itemsize}
	a.recomputeDerived(shape, chunkShape)
	a.cache.index = -1

	switch params.Kind {
	case KindPlain:
		a.st = newPlainStorage(gctx, a.nitems, itemsize)
	case KindBlosc:
		var fr *frame
		if params.FramePath != "" {
			f, err := openFrame(ctx, params.FramePath)
			if err != nil {
				return nil, err
			}
			fr = f
		}
		st, err := newPersistedBloscStorage(gctx, itemsize, fr)
		if err != nil {
			return nil, err
		}
		a.st = st
		if fr != nil {
			enc, err := EncodeMetadata(a.ndim, unalign(a.shape, a.ndim), unalign(a.chunkShape, a.ndim))
			if err != nil {
				return nil, err
			}
			if err := fr.addNamedSlot(ctx, metadataSlotName, enc); err != nil {
				return nil, err
			}
		}
	default:
		return nil, newErrf(InvalidArgument, op, "unknown storage kind %d", params.Kind)
	}
	return a, nil
}

// empty reports whether the destination has not yet been written, the
// precondition FromBuffer/Fill/GetSlice require of dest: zero appended
// chunks for Blosc, no write yet for PlainBuffer.
func (a *Array) empty() bool {
	switch s := a.st.(type) {
	case *plainStorage:
		return !s.written
	default:
		return a.st.numChunks() == 0
	}
}

// UpdateShape recomputes ext_shape/nitems/ext_nitems for an unchanged
// ndim and, when a frame is attached, rewrites the shape-metadata named
// slot. It does not reorganize chunk data.
func (a *Array) UpdateShape(ctx context.Context, shape []int64) error {
	const op = "UpdateShape"
	if len(shape) != a.ndim {
		return newErrf(InvalidArgument, op, "update_shape requires unchanged ndim: have %d, got %d", a.ndim, len(shape))
	}
	a.recomputeDerived(shape, unalign(a.chunkShape, a.ndim))
	if fr := a.st.getFrame(); fr != nil {
		enc, err := EncodeMetadata(a.ndim, unalign(a.shape, a.ndim), unalign(a.chunkShape, a.ndim))
		if err != nil {
			return err
		}
		if err := fr.updateNamedSlot(ctx, metadataSlotName, enc); err != nil {
			return err
		}
	}
	a.invalidateCache()
	return nil
}

// Squeeze drops all axes whose shape[i] == 1. Squeezing an all-ones
// shape yields ndim == 0, treated as a single scalar element (see
// DESIGN.md's Open Question decision); it is not rejected.
func (a *Array) Squeeze() {
	oldShape := unalign(a.shape, a.ndim)
	oldChunk := unalign(a.chunkShape, a.ndim)

	var newShape, newChunk []int64
	for i := range oldShape {
		if oldShape[i] != 1 {
			newShape = append(newShape, oldShape[i])
			newChunk = append(newChunk, oldChunk[i])
		}
	}

	if len(newShape) == 0 {
		a.ndim = 0
		for i := range a.shape {
			a.shape[i], a.chunkShape[i], a.extShape[i] = 1, 1, 1
		}
		a.nitems, a.extNitems, a.chunkNitems = 1, 1, 1
		a.invalidateCache()
		return
	}

	a.ndim = len(newShape)
	a.recomputeDerived(newShape, newChunk)
	a.invalidateCache()
}

func (a *Array) invalidateCache() {
	a.cache.index = -1
	a.cache.data = nil
}

// Close releases the array's storage back-end (super-chunk/frame or
// plain buffer). Idempotent, mirroring caterva_free's NULL-guard in
// original_source/caterva/caterva.c.
func (a *Array) Close() error {
	if a.st == nil {
		return nil
	}
	err := a.st.close()
	a.st = nil
	a.cache = chunkCache{index: -1}
	return err
}

// decompressChunkCached returns chunk index's decompressed bytes, using
// and updating the array's single-chunk cache.
func (a *Array) decompressChunkCached(ctx context.Context, index int64) ([]byte, error) {
	if a.cache.data != nil && a.cache.index == index {
		return a.cache.data, nil
	}
	buf := a.ctx.buffers().Get(int(a.chunkNitems) * a.itemsize)
	if err := a.st.decompressChunk(ctx, index, buf); err != nil {
		return nil, err
	}
	a.cache.index = index
	a.cache.data = buf
	return buf, nil
}
