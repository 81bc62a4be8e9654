package caterva

import "context"

// Fill materializes dest: one chunk-sized buffer is built by
// broadcasting value, then appended grid_count times (ext_nitems /
// chunk_nitems). itemsize must be one of {1,2,4,8}; wider sizes are not
// supported.
func Fill(ctx context.Context, dest *Array, shape []int64, value []byte) error {
	const op = "Fill"
	switch dest.itemsize {
	case 1, 2, 4, 8:
	default:
		return newErrf(InvalidArgument, op, "fill requires itemsize in {1,2,4,8}, array has %d", dest.itemsize)
	}
	if len(value) != dest.itemsize {
		return newErrf(InvalidArgument, op, "value is %d bytes, expected itemsize %d", len(value), dest.itemsize)
	}
	if !dest.empty() {
		return newErr(InvalidState, op, errAlreadyWritten)
	}
	if len(shape) != dest.ndim {
		return newErrf(InvalidArgument, op, "shape length %d != array ndim %d", len(shape), dest.ndim)
	}

	dest.recomputeDerived(shape, unalign(dest.chunkShape, dest.ndim))
	if fr := dest.st.getFrame(); fr != nil {
		enc, err := EncodeMetadata(dest.ndim, unalign(dest.shape, dest.ndim), unalign(dest.chunkShape, dest.ndim))
		if err != nil {
			return err
		}
		if err := fr.updateNamedSlot(ctx, metadataSlotName, enc); err != nil {
			return err
		}
	}

	chunkBuf := dest.ctx.buffers().Get(int(dest.chunkNitems) * dest.itemsize)
	defer dest.ctx.buffers().Put(chunkBuf)
	broadcast(chunkBuf, value)

	if _, ok := dest.st.(*plainStorage); ok {
		// PlainBuffer: chunk_shape == shape, so the one broadcast chunk
		// covers the whole array.
		return dest.st.appendChunk(ctx, chunkBuf)
	}

	numChunks := dest.extNitems / dest.chunkNitems
	for c := int64(0); c < numChunks; c++ {
		if err := dest.st.appendChunk(ctx, chunkBuf); err != nil {
			return err
		}
	}
	return nil
}

// broadcast tiles value across the whole of buf.
func broadcast(buf, value []byte) {
	if len(value) == 0 {
		return
	}
	n := copy(buf, value)
	for n < len(buf) {
		n += copy(buf[n:], buf[:n])
	}
}
