package caterva

import "context"

// Repart re-chunks src into dest, which must already be an empty array of
// src's shape but a different chunk_shape. Grounded on
// original_source/tests/test_persistency.c's repart-then-compare pattern:
// this is exactly GetSlice over [0, src.Shape()).
func Repart(ctx context.Context, dest, src *Array) error {
	start := make([]int64, src.ndim)
	stop := unalign(src.shape, src.ndim)
	return GetSlice(ctx, dest, src, start, stop)
}
