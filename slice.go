package caterva

import "context"

// rightAlignRange pads start/stop vectors out to MaxDim the
// way rightAlign pads shapes, except the padding value differs: axes
// beyond ndim have shape 1, so their only valid half-open
// range is [0,1).
func rightAlignRange(start, stop []int64, ndim int) (s, e [MaxDim]int64) {
	for i := 0; i < MaxDim; i++ {
		s[i], e[i] = 0, 1
	}
	off := MaxDim - ndim
	for i := 0; i < ndim; i++ {
		s[off+i] = start[i]
		e[off+i] = stop[i]
	}
	return s, e
}

// copySliceInto is the shared engine behind slice reads: for each chunk
// of src intersecting the half-open box [start,stop) (element coordinates,
// right-aligned to MaxDim), decompress it and copy the clipped span into
// dst, whose row-major layout is described by dPshape.
func copySliceInto(ctx context.Context, src *Array, start, stop [MaxDim]int64, dst []byte, dPshape [MaxDim]int64) error {
	itemsize := int64(src.itemsize)
	chunkV := src.chunkShape
	extV := src.extShape
	grid := chunkGrid(extV[:], chunkV[:])
	var gridArr [MaxDim]int64
	copy(gridArr[:], grid)
	chunkStrides := stridesOf(chunkV)
	dstStrides := stridesOf(dPshape)

	var iStart, iStop [MaxDim]int64
	for i := 0; i < MaxDim; i++ {
		if stop[i] <= start[i] {
			return nil // empty on this axis: no chunks touched
		}
		iStart[i] = start[i] / chunkV[i]
		iStop[i] = (stop[i] - 1) / chunkV[i]
	}

	var cur [MaxDim]int64
	copy(cur[:], iStart[:])

	for {
		g := cur
		linIdx := gridToLinear(g, gridArr)

		var cStart, cStop, r, destOrigin [MaxDim]int64
		for i := 0; i < MaxDim; i++ {
			if cur[i] == iStart[i] {
				cStart[i] = start[i] % chunkV[i]
			} else {
				cStart[i] = 0
			}
			if cur[i] == iStop[i] && stop[i]%chunkV[i] != 0 {
				cStop[i] = stop[i] % chunkV[i]
			} else {
				cStop[i] = chunkV[i]
			}
			r[i] = cStop[i] - cStart[i]
			destOrigin[i] = cur[i]*chunkV[i] + cStart[i] - start[i]
		}

		chunkData, err := src.decompressChunkCached(ctx, linIdx)
		if err != nil {
			return err
		}

		spanElems := r[MaxDim-1]
		if spanElems > 0 {
			spanBytes := spanElems * itemsize
			iterateOuterAxes(r, func(idx [MaxDim]int64) {
				var srcOff, dstOff int64
				for i := 0; i < MaxDim-1; i++ {
					srcOff += (cStart[i] + idx[i]) * chunkStrides[i]
					dstOff += (destOrigin[i] + idx[i]) * dstStrides[i]
				}
				srcOff += cStart[MaxDim-1] * chunkStrides[MaxDim-1]
				dstOff += destOrigin[MaxDim-1] * dstStrides[MaxDim-1]
				srcByte := srcOff * itemsize
				dstByte := dstOff * itemsize
				copy(dst[dstByte:dstByte+spanBytes], chunkData[srcByte:srcByte+spanBytes])
			})
		}

		// advance cur through [iStart, iStop] inclusive, axis MaxDim-1 fastest
		i := MaxDim - 1
		for ; i >= 0; i-- {
			cur[i]++
			if cur[i] <= iStop[i] {
				break
			}
			cur[i] = iStart[i]
		}
		if i < 0 {
			break
		}
	}
	return nil
}

// GetSliceBuffer reads the half-open box [start,stop) of src (logical,
// ndim-length coordinates) into a contiguous row-major buffer out, whose
// shape is dPshape. len(out) must equal
// product(dPshape)*src.ItemSize().
func GetSliceBuffer(ctx context.Context, out []byte, src *Array, start, stop, dPshape []int64) error {
	const op = "GetSliceBuffer"
	if len(start) != src.ndim || len(stop) != src.ndim {
		return newErrf(InvalidArgument, op, "start/stop length must equal ndim %d", src.ndim)
	}
	shapeV := unalign(src.shape, src.ndim)
	for i := range start {
		if start[i] < 0 || start[i] >= stop[i] {
			return newErrf(InvalidArgument, op, "start[%d]=%d must be < stop[%d]=%d", i, start[i], i, stop[i])
		}
		if stop[i] > shapeV[i] {
			return newErrf(InvalidArgument, op, "stop[%d]=%d exceeds shape[%d]=%d", i, stop[i], i, shapeV[i])
		}
	}

	if ps, ok := src.st.(*plainStorage); ok {
		return plainGetSlice(ps, src, start, stop, dPshape, out)
	}

	s, e := rightAlignRange(start, stop, src.ndim)
	var dP [MaxDim]int64
	for i := range dP {
		dP[i] = 1
	}
	off := MaxDim - src.ndim
	for i, v := range dPshape {
		dP[off+i] = v
	}
	return copySliceInto(ctx, src, s, e, out, dP)
}

// plainGetSlice implements GetSliceBuffer for a PlainBuffer source: no
// chunking math beyond multi-index <-> flat offset.
func plainGetSlice(ps *plainStorage, src *Array, start, stop, dPshape []int64, out []byte) error {
	itemsize := int64(src.itemsize)
	shapeV := unalign(src.shape, src.ndim)
	var shapeArr, startArr, stopArr, dPArr [MaxDim]int64
	ndim := src.ndim
	off := MaxDim - ndim
	for i := 0; i < MaxDim; i++ {
		shapeArr[i], startArr[i], stopArr[i], dPArr[i] = 1, 0, 1, 1
	}
	for i := 0; i < ndim; i++ {
		shapeArr[off+i] = shapeV[i]
		startArr[off+i] = start[i]
		stopArr[off+i] = stop[i]
		dPArr[off+i] = dPshape[i]
	}
	srcStrides := stridesOf(shapeArr)
	dstStrides := stridesOf(dPArr)

	var r [MaxDim]int64
	for i := 0; i < MaxDim; i++ {
		r[i] = stopArr[i] - startArr[i]
	}
	spanElems := r[MaxDim-1]
	if spanElems == 0 {
		return nil
	}
	spanBytes := spanElems * itemsize
	iterateOuterAxes(r, func(idx [MaxDim]int64) {
		var srcOff, dstOff int64
		for i := 0; i < MaxDim-1; i++ {
			srcOff += (startArr[i] + idx[i]) * srcStrides[i]
			dstOff += idx[i] * dstStrides[i]
		}
		srcOff += startArr[MaxDim-1] * srcStrides[MaxDim-1]
		srcByte := srcOff * itemsize
		dstByte := dstOff * itemsize
		copy(out[dstByte:dstByte+spanBytes], ps.buf[srcByte:srcByte+spanBytes])
	})
	return nil
}

// GetSlice materializes the half-open box [start,stop) of src into dest, a
// freshly reshaped chunked array. dest's pre-declared chunk_shape is
// kept; its shape becomes stop-start. Padding bytes in dest's tail chunks
// beyond the slice end are zeroed. dest is Squeeze()d at the end, so a
// result with any unit axes comes back with those axes dropped.
func GetSlice(ctx context.Context, dest, src *Array, start, stop []int64) error {
	const op = "GetSlice"
	if len(start) != src.ndim || len(stop) != src.ndim {
		return newErrf(InvalidArgument, op, "start/stop length must equal src ndim %d", src.ndim)
	}
	if dest.ndim != src.ndim {
		return newErrf(InvalidArgument, op, "dest ndim %d != src ndim %d", dest.ndim, src.ndim)
	}
	if !dest.empty() {
		return newErr(InvalidState, op, errAlreadyWritten)
	}
	newShape := make([]int64, src.ndim)
	for i := range start {
		newShape[i] = stop[i] - start[i]
	}
	if err := dest.UpdateShape(ctx, newShape); err != nil {
		return err
	}

	itemsize := int64(dest.itemsize)
	chunkV := dest.chunkShape
	extV := dest.extShape
	grid := chunkGrid(extV[:], chunkV[:])
	var gridArr [MaxDim]int64
	copy(gridArr[:], grid)

	sStart, _ := rightAlignRange(start, stop, src.ndim)
	dShape := dest.shape

	numChunks := dest.extNitems / dest.chunkNitems
	staging := dest.ctx.buffers().Get(int(dest.chunkNitems) * int(itemsize))
	defer dest.ctx.buffers().Put(staging)

	for c := int64(0); c < numChunks; c++ {
		g := linearToGrid(c, gridArr)

		var origin, destStop [MaxDim]int64
		for i := 0; i < MaxDim; i++ {
			origin[i] = g[i] * chunkV[i]
			destStop[i] = min64(origin[i]+chunkV[i], dShape[i])
		}

		for i := range staging {
			staging[i] = 0
		}

		var srcChunkStart, srcChunkStop [MaxDim]int64
		skip := false
		for i := 0; i < MaxDim; i++ {
			if destStop[i] <= origin[i] {
				skip = true
			}
			srcChunkStart[i] = sStart[i] + origin[i]
			srcChunkStop[i] = sStart[i] + destStop[i]
		}

		if !skip {
			if err := copySliceInto(ctx, src, srcChunkStart, srcChunkStop, staging, chunkV); err != nil {
				return err
			}
		}

		if err := dest.st.appendChunk(ctx, staging); err != nil {
			return err
		}
	}

	dest.Squeeze()
	return nil
}

// SetSliceBuffer writes a contiguous row-major buffer src into the
// half-open box [start,stop) of a PlainBuffer-backed dest. Only defined
// for PlainBuffer destinations.
func SetSliceBuffer(dest *Array, start, stop []int64, src []byte) error {
	const op = "SetSliceBuffer"
	ps, ok := dest.st.(*plainStorage)
	if !ok {
		return newErrf(InvalidState, op, "set_slice_buffer requires a PlainBuffer destination, got %v", dest.Kind())
	}
	if len(start) != dest.ndim || len(stop) != dest.ndim {
		return newErrf(InvalidArgument, op, "start/stop length must equal ndim %d", dest.ndim)
	}
	shapeV := unalign(dest.shape, dest.ndim)
	for i := range start {
		if start[i] < 0 || start[i] >= stop[i] {
			return newErrf(InvalidArgument, op, "start[%d]=%d must be < stop[%d]=%d", i, start[i], i, stop[i])
		}
		if stop[i] > shapeV[i] {
			return newErrf(InvalidArgument, op, "stop[%d]=%d exceeds shape[%d]=%d", i, stop[i], i, shapeV[i])
		}
	}

	itemsize := int64(dest.itemsize)
	var shapeArr, startArr, stopArr [MaxDim]int64
	ndim := dest.ndim
	off := MaxDim - ndim
	for i := 0; i < MaxDim; i++ {
		shapeArr[i], startArr[i], stopArr[i] = 1, 0, 1
	}
	for i := 0; i < ndim; i++ {
		shapeArr[off+i] = shapeV[i]
		startArr[off+i] = start[i]
		stopArr[off+i] = stop[i]
	}
	dstStrides := stridesOf(shapeArr)

	var r [MaxDim]int64
	for i := 0; i < MaxDim; i++ {
		r[i] = stopArr[i] - startArr[i]
	}
	srcShape := r
	srcStrides := stridesOf(srcShape)

	spanElems := r[MaxDim-1]
	if spanElems == 0 {
		return nil
	}
	wantBytes := product(unalign(srcShape, ndim)) * itemsize
	if int64(len(src)) != wantBytes {
		return newErrf(InvalidArgument, op, "src is %d bytes, expected %d", len(src), wantBytes)
	}
	spanBytes := spanElems * itemsize
	iterateOuterAxes(r, func(idx [MaxDim]int64) {
		var dstOff, srcOff int64
		for i := 0; i < MaxDim-1; i++ {
			dstOff += (startArr[i] + idx[i]) * dstStrides[i]
			srcOff += idx[i] * srcStrides[i]
		}
		dstOff += startArr[MaxDim-1] * dstStrides[MaxDim-1]
		dstByte := dstOff * itemsize
		srcByte := srcOff * itemsize
		copy(ps.buf[dstByte:dstByte+spanBytes], src[srcByte:srcByte+spanBytes])
	})
	ps.markWritten()
	return nil
}
