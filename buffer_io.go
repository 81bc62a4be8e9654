package caterva

import "context"

// iterateOuterAxes recurses over axes 0..MaxDim-2 (7 levels) within the
// half-open ranges given by r, invoking fn once per combination with idx
// fully populated except idx[MaxDim-1], which fn is expected to sweep
// itself as one contiguous span — a fixed 7-level nested loop with the
// innermost axis copied as a contiguous span. Recursive rather than
// literally unrolled eight times; any implementation producing the same
// byte-level output is equivalent.
func iterateOuterAxes(r [MaxDim]int64, fn func(idx [MaxDim]int64)) {
	var idx [MaxDim]int64
	var rec func(axis int)
	rec = func(axis int) {
		if axis == MaxDim-1 {
			fn(idx)
			return
		}
		for i := int64(0); i < r[axis]; i++ {
			idx[axis] = i
			rec(axis + 1)
		}
	}
	rec(0)
}

// FromBuffer is the padded import pipeline: dest must be empty. shape is
// dest's logical shape (ndim must match dest.NDim()); src is a row-major
// buffer of product(shape)*dest.ItemSize() bytes. Tail chunks beyond
// shape are zero-padded.
func FromBuffer(ctx context.Context, dest *Array, shape []int64, src []byte) error {
	const op = "FromBuffer"
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

	wantBytes := dest.nitems * int64(dest.itemsize)
	if int64(len(src)) != wantBytes {
		return newErrf(InvalidArgument, op, "src is %d bytes, expected %d (nitems=%d * itemsize=%d)", len(src), wantBytes, dest.nitems, dest.itemsize)
	}

	if _, ok := dest.st.(*plainStorage); ok {
		return dest.st.appendChunk(ctx, src)
	}

	itemsize := int64(dest.itemsize)
	shapeV := dest.shape
	chunkV := dest.chunkShape
	extV := dest.extShape
	grid := chunkGrid(extV[:], chunkV[:])
	var gridArr [MaxDim]int64
	copy(gridArr[:], grid)

	srcStrides := stridesOf(shapeV)
	chunkStrides := stridesOf(chunkV)

	numChunks := dest.extNitems / dest.chunkNitems
	staging := dest.ctx.buffers().Get(int(dest.chunkNitems) * int(itemsize))
	defer dest.ctx.buffers().Put(staging)

	for c := int64(0); c < numChunks; c++ {
		g := linearToGrid(c, gridArr)

		var origin, r [MaxDim]int64
		allPad := false
		for i := 0; i < MaxDim; i++ {
			origin[i] = g[i] * chunkV[i]
			clip := min64(chunkV[i], shapeV[i]-origin[i])
			if clip <= 0 {
				allPad = true
				clip = 0
			}
			r[i] = clip
		}

		for i := range staging {
			staging[i] = 0
		}

		if !allPad {
			spanElems := r[MaxDim-1]
			spanBytes := spanElems * itemsize
			iterateOuterAxes(r, func(idx [MaxDim]int64) {
				if spanElems == 0 {
					return
				}
				var srcOff, dstOff int64
				for i := 0; i < MaxDim-1; i++ {
					srcOff += (origin[i] + idx[i]) * srcStrides[i]
					dstOff += idx[i] * chunkStrides[i]
				}
				srcOff += origin[MaxDim-1] * srcStrides[MaxDim-1]
				srcByte := srcOff * itemsize
				dstByte := dstOff * itemsize
				copy(staging[dstByte:dstByte+spanBytes], src[srcByte:srcByte+spanBytes])
			})
		}

		if err := dest.st.appendChunk(ctx, staging); err != nil {
			return err
		}
	}
	return nil
}

// ToBuffer is the export pipeline, symmetric to FromBuffer: decompress
// each chunk into staging and copy the clipped
// (non-padding) span back into dest, a row-major buffer of
// product(src.Shape())*src.ItemSize() bytes.
func ToBuffer(ctx context.Context, src *Array, dest []byte) error {
	const op = "ToBuffer"
	wantBytes := src.nitems * int64(src.itemsize)
	if int64(len(dest)) != wantBytes {
		return newErrf(InvalidArgument, op, "dest is %d bytes, expected %d", len(dest), wantBytes)
	}

	if _, ok := src.st.(*plainStorage); ok {
		return src.st.decompressChunk(ctx, 0, dest)
	}

	itemsize := int64(src.itemsize)
	shapeV := src.shape
	chunkV := src.chunkShape
	extV := src.extShape
	grid := chunkGrid(extV[:], chunkV[:])
	var gridArr [MaxDim]int64
	copy(gridArr[:], grid)

	dstStrides := stridesOf(shapeV)
	chunkStrides := stridesOf(chunkV)

	numChunks := src.extNitems / src.chunkNitems

	for c := int64(0); c < numChunks; c++ {
		g := linearToGrid(c, gridArr)

		var origin, r [MaxDim]int64
		allPad := false
		for i := 0; i < MaxDim; i++ {
			origin[i] = g[i] * chunkV[i]
			clip := min64(chunkV[i], shapeV[i]-origin[i])
			if clip <= 0 {
				allPad = true
				clip = 0
			}
			r[i] = clip
		}
		if allPad {
			continue
		}

		staging, err := src.decompressChunkCached(ctx, c)
		if err != nil {
			return err
		}

		spanElems := r[MaxDim-1]
		spanBytes := spanElems * itemsize
		if spanElems == 0 {
			continue
		}
		iterateOuterAxes(r, func(idx [MaxDim]int64) {
			var srcOff, dstOff int64
			for i := 0; i < MaxDim-1; i++ {
				srcOff += idx[i] * chunkStrides[i]
				dstOff += (origin[i] + idx[i]) * dstStrides[i]
			}
			dstOff += origin[MaxDim-1] * dstStrides[MaxDim-1]
			srcByte := srcOff * itemsize
			dstByte := dstOff * itemsize
			copy(dest[dstByte:dstByte+spanBytes], staging[srcByte:srcByte+spanBytes])
		})
	}
	return nil
}
