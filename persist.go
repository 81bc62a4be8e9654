package caterva

import "context"

// OpenFile reopens a Blosc+frame array previously created with a
// StorageParams.FramePath, reading the "caterva" named slot back into
// ndim/shape/chunk_shape and wiring a bloscStorage over
// the same frame so existing chunks can be decompressed. This is the
// persistency round-trip exercised by
// original_source/tests/test_persistency.c: create, fill, close, reopen,
// ToBuffer must equal the original buffer.
func OpenFile(ctx context.Context, gctx *Context, path string) (*Array, error) {
	const op = "OpenFile"
	if gctx == nil {
		gctx = NewContext()
	}

	fr, err := openFrame(ctx, path)
	if err != nil {
		return nil, err
	}

	raw, err := fr.getNamedSlot(ctx, metadataSlotName)
	if err != nil {
		_ = fr.close()
		return nil, err
	}
	ndim, shape, chunkShape, err := DecodeMetadata(raw)
	if err != nil {
		_ = fr.close()
		return nil, err
	}

	itemsize := gctx.Comp.ItemSize
	if itemsize <= 0 {
		itemsize = 8
	}

	a := &Array{ctx: gctx, ndim: ndim, itemsize: itemsize}
	a.recomputeDerived(shape, chunkShape)
	a.cache.index = -1

	numChunks := a.extNitems / a.chunkNitems
	st, err := loadBloscStorage(gctx, itemsize, fr, numChunks)
	if err != nil {
		_ = fr.close()
		return nil, newErrf(StorageError, op, "reconstructing storage: %v", err)
	}
	a.st = st
	return a, nil
}
